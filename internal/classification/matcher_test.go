// internal/classification/matcher_test.go
package classification

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keywordMap(entries ...Entry) *KeywordMap {
	return KeywordMapFromEntries(entries)
}

func TestMatch_WholeWord(t *testing.T) {
	km := keywordMap(Entry{Category: "A", Keywords: []string{"pay"}})

	assert.Equal(t, []string{}, Match("payment due", km))
	assert.Equal(t, []string{"A"}, Match("please pay now", km))
	assert.Equal(t, []string{"A"}, Match("pay", km))
	assert.Equal(t, []string{}, Match("prepay", km))
}

func TestMatch_UnicodeWordBoundary(t *testing.T) {
	tests := []struct {
		name     string
		entries  []Entry
		text     string
		expected []string
	}{
		{
			name:     "accented keyword matches whole word",
			entries:  []Entry{{Category: "Food", Keywords: []string{"café"}}, {Category: "Caf", Keywords: []string{"caf"}}},
			text:     Normalize("Café au lait"),
			expected: []string{"Food"},
		},
		{
			name:     "prefix does not match inside accented word",
			entries:  []Entry{{Category: "Pay", Keywords: []string{"pay"}}},
			text:     "payé hier",
			expected: []string{},
		},
		{
			name:     "accented keyword at end of text",
			entries:  []Entry{{Category: "Jobs", Keywords: []string{"résumé"}}},
			text:     "please review my résumé",
			expected: []string{"Jobs"},
		},
		{
			name:     "accented letter before keyword",
			entries:  []Entry{{Category: "Net", Keywords: []string{"net"}}},
			text:     "ènet down",
			expected: []string{},
		},
		{
			name:     "underscore and digits are word characters",
			entries:  []Entry{{Category: "Pay", Keywords: []string{"pay"}}},
			text:     "pay_ment pay2 2pay",
			expected: []string{},
		},
		{
			name:     "non-word keyword edge needs a word neighbour",
			entries:  []Entry{{Category: "Lang", Keywords: []string{"c++"}}},
			text:     "c++ build",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Match(tt.text, keywordMap(tt.entries...)))
		})
	}
}

func TestMatch_Phrases(t *testing.T) {
	km := keywordMap(
		Entry{Category: "Access", Keywords: []string{"reset password", "locked out"}},
		Entry{Category: "Billing", Keywords: []string{"double charged"}},
	)

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{name: "phrase match", text: "i need to reset password today", expected: []string{"Access"}},
		{name: "phrase split by extra word", text: "reset my password", expected: []string{}},
		{name: "phrase at end", text: "i am locked out", expected: []string{"Access"}},
		{name: "phrase must end on boundary", text: "locked outside", expected: []string{}},
		{name: "both categories in map order", text: "double charged and locked out", expected: []string{"Access", "Billing"}},
		{name: "empty text", text: "", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Match(tt.text, km))
		})
	}
}

func TestMatch_KeywordsAreLiteral(t *testing.T) {
	km := keywordMap(
		Entry{Category: "Regex", Keywords: []string{"a.c"}},
		Entry{Category: "Plus", Keywords: []string{"c++ build"}},
	)

	assert.Equal(t, []string{}, Match("abc", km))
	assert.Equal(t, []string{"Regex"}, Match("x a.c y", km))
	// keywords are not punctuation-stripped, so they never match normalized text containing a space instead
	assert.Equal(t, []string{}, Match("c build", km))
}

func TestMatch_CategoryWithoutKeywordsNeverMatches(t *testing.T) {
	km := NewKeywordMap()
	km.SetCell("Empty", "")
	km.SetCell("Network", "vpn, wifi")

	assert.Equal(t, []string{"Network"}, Match("wifi drops", km))
	assert.Equal(t, 2, km.Len())
}

func TestKeywordMap_SetAndOrder(t *testing.T) {
	km := NewKeywordMap()
	assert.True(t, km.SetCell("  Technical ", "Error, CRASH ,, "))
	assert.True(t, km.SetCell("Billing", "invoice"))
	assert.False(t, km.SetCell("   ", "ignored"))
	assert.True(t, km.SetCell("Technical", "bug"))

	assert.Equal(t, []string{"Technical", "Billing"}, km.Categories())
	assert.Equal(t, []string{"bug"}, km.Keywords("Technical"))
	assert.Equal(t, 2, km.KeywordCount())
	assert.True(t, km.Has("Billing"))
	assert.False(t, km.Has("Others"))
}

func TestParseKeywordCell(t *testing.T) {
	assert.Equal(t, []string{}, ParseKeywordCell(""))
	assert.Equal(t, []string{}, ParseKeywordCell(" , ,"))
	assert.Equal(t, []string{"invoice", "payment failed"}, ParseKeywordCell(" Invoice,Payment Failed "))
}

func TestKeywordMap_JSONKeepsOrder(t *testing.T) {
	km := keywordMap(
		Entry{Category: "Zeta", Keywords: []string{"z"}},
		Entry{Category: "Alpha", Keywords: []string{"a", "b"}},
	)

	data, err := json.Marshal(km)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"category":"Zeta","keywords":["z"]},{"category":"Alpha","keywords":["a","b"]}]`, string(data))

	var decoded KeywordMap
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"Zeta", "Alpha"}, decoded.Categories())
	assert.Equal(t, []string{"a", "b"}, decoded.Keywords("Alpha"))
}
