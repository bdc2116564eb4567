// internal/classification/matcher.go
package classification

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// wordClass is the set of word characters: Unicode letters, digits and underscore.
const wordClass = `\pL\pN_`

type categoryRule struct {
	category string
	patterns []*regexp.Regexp
}

// Matcher holds the compiled keyword patterns of a KeywordMap. It is immutable
// once built and safe for concurrent use.
type Matcher struct {
	rules []categoryRule
}

func NewMatcher(km *KeywordMap) *Matcher {
	m := &Matcher{rules: make([]categoryRule, 0, km.Len())}
	for _, category := range km.Categories() {
		kws := km.Keywords(category)
		rule := categoryRule{category: category, patterns: make([]*regexp.Regexp, 0, len(kws))}
		for _, kw := range kws {
			rule.patterns = append(rule.patterns, KeywordPattern(kw))
		}
		m.rules = append(m.rules, rule)
	}
	return m
}

// KeywordPattern anchors a literal keyword phrase on Unicode word boundaries so
// that "pay" matches neither inside "payment" nor inside "payé". A word rune at
// either end of the keyword must meet a non-word rune or the text edge; a
// non-word rune there must meet a word rune.
func KeywordPattern(keyword string) *regexp.Regexp {
	first, _ := utf8.DecodeRuneInString(keyword)
	last, _ := utf8.DecodeLastRuneInString(keyword)

	left := `[` + wordClass + `]`
	if isWordRune(first) {
		left = `(?:^|[^` + wordClass + `])`
	}
	right := `[` + wordClass + `]`
	if isWordRune(last) {
		right = `(?:$|[^` + wordClass + `])`
	}
	return regexp.MustCompile(left + regexp.QuoteMeta(keyword) + right)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Match returns every category with at least one keyword in text, in declaration order.
func (m *Matcher) Match(text string) []string {
	matched := []string{}
	if text == "" {
		return matched
	}
	for _, rule := range m.rules {
		for _, p := range rule.patterns {
			if p.MatchString(text) {
				matched = append(matched, rule.category)
				break
			}
		}
	}
	return matched
}

// Match is a one-shot helper that compiles km and matches text against it.
func Match(text string, km *KeywordMap) []string {
	return NewMatcher(km).Match(text)
}
