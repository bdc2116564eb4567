// internal/classification/normalize_test.go
package classification

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "whitespace only", input: " \t\n ", expected: ""},
		{name: "lowercases", input: "App CRASH", expected: "app crash"},
		{name: "punctuation becomes space", input: "Invoice #123 is wrong!", expected: "invoice 123 is wrong"},
		{name: "joined by punctuation", input: "login/logout-error", expected: "login logout error"},
		{name: "collapses runs", input: "  too   many\t\tspaces \n here ", expected: "too many spaces here"},
		{name: "underscore is punctuation", input: "user_id missing", expected: "user id missing"},
		{name: "brackets and quotes", input: `"[refund]" {now}`, expected: "refund now"},
		{name: "non ascii kept", input: "Café — DÉJÀ vu", expected: "café — déjà vu"},
		{name: "all punctuation", input: Punctuation, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Properties(t *testing.T) {
	inputs := []string{
		"",
		"Invoice #123 is wrong",
		"  Hello,   World!!  ",
		"a.b.c...d",
		"MiXeD\tCase\r\nLines",
		"$$$ refund??? (urgent) ",
		"tab\tand\vvertical\fform",
		"emoji 🎉 + text",
	}

	for _, in := range inputs {
		out := Normalize(in)

		assert.Equal(t, out, Normalize(out), "normalize must be idempotent for %q", in)
		assert.False(t, strings.ContainsAny(out, Punctuation), "punctuation left in %q", out)
		assert.NotContains(t, out, "  ")
		assert.Equal(t, strings.TrimSpace(out), out)
	}
}

func TestNormalizeValue(t *testing.T) {
	desc := "Refund, please"

	assert.Equal(t, "", NormalizeValue(nil))
	assert.Equal(t, "", NormalizeValue((*string)(nil)))
	assert.Equal(t, "refund please", NormalizeValue(&desc))
	assert.Equal(t, "refund please", NormalizeValue(desc))
	assert.Equal(t, "42", NormalizeValue(42))
	assert.Equal(t, "3 5", NormalizeValue(3.5))
	assert.Equal(t, "true", NormalizeValue(true))
}
