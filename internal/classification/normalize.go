// internal/classification/normalize.go
package classification

import (
	"fmt"
	"strings"
)

// Punctuation is the ASCII punctuation set replaced by spaces during normalization.
const Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Normalize lowercases text, turns every ASCII punctuation character into a space,
// collapses whitespace runs to a single space and trims the ends.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	replaced := strings.Map(func(r rune) rune {
		if r < 0x80 && strings.ContainsRune(Punctuation, r) {
			return ' '
		}
		return r
	}, strings.ToLower(text))
	return strings.Join(strings.Fields(replaced), " ")
}

// NormalizeValue normalizes an arbitrary decoded value (for example a JSON job
// variable). nil yields the empty string.
func NormalizeValue(v interface{}) string {
	return Normalize(TextValue(v))
}

// TextValue coerces a decoded cell or variable to its string form.
func TextValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
