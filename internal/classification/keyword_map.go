// internal/classification/keyword_map.go
package classification

import (
	"encoding/json"
	"strings"

	"ticket-classifier/internal/models"
)

// Entry is one category with its keyword phrases.
type Entry struct {
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// KeywordMap maps category names to keyword phrases. Categories keep the order
// in which they were declared; that order is the match priority.
type KeywordMap struct {
	categories []string
	keywords   map[string][]string
}

func NewKeywordMap() *KeywordMap {
	return &KeywordMap{keywords: make(map[string][]string)}
}

// KeywordMapFromEntries builds a map from entries in order. Later entries for an
// already declared category replace its keywords but keep its position.
func KeywordMapFromEntries(entries []Entry) *KeywordMap {
	m := NewKeywordMap()
	for _, e := range entries {
		m.Set(e.Category, e.Keywords)
	}
	return m
}

// Set declares a category. Keywords are trimmed and lowercased; blank ones are
// dropped. A blank or reserved category name is ignored and Set reports false.
func (m *KeywordMap) Set(category string, keywords []string) bool {
	category = strings.TrimSpace(category)
	if category == "" || IsReservedCategory(category) {
		return false
	}
	if m.keywords == nil {
		m.keywords = make(map[string][]string)
	}
	if _, exists := m.keywords[category]; !exists {
		m.categories = append(m.categories, category)
	}
	m.keywords[category] = cleanKeywords(keywords)
	return true
}

// IsReservedCategory reports whether name is the fallback label given to
// tickets that match nothing. Declaring it would count matched tickets as
// unclassified.
func IsReservedCategory(name string) bool {
	return strings.TrimSpace(name) == models.FallbackCategory
}

// SetCell declares a category from a comma-separated keyword cell.
func (m *KeywordMap) SetCell(category, cell string) bool {
	return m.Set(category, ParseKeywordCell(cell))
}

func (m *KeywordMap) Categories() []string {
	out := make([]string, len(m.categories))
	copy(out, m.categories)
	return out
}

func (m *KeywordMap) Keywords(category string) []string {
	kws := m.keywords[category]
	out := make([]string, len(kws))
	copy(out, kws)
	return out
}

func (m *KeywordMap) Has(category string) bool {
	_, ok := m.keywords[category]
	return ok
}

func (m *KeywordMap) Len() int {
	return len(m.categories)
}

// KeywordCount is the total number of keyword phrases across categories.
func (m *KeywordMap) KeywordCount() int {
	n := 0
	for _, kws := range m.keywords {
		n += len(kws)
	}
	return n
}

func (m *KeywordMap) Entries() []Entry {
	out := make([]Entry, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, Entry{Category: c, Keywords: m.Keywords(c)})
	}
	return out
}

func (m *KeywordMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Entries())
}

func (m *KeywordMap) UnmarshalJSON(data []byte) error {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*m = *KeywordMapFromEntries(entries)
	return nil
}

// ParseKeywordCell splits a comma-separated keyword cell into lowercase phrases.
func ParseKeywordCell(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return []string{}
	}
	return cleanKeywords(strings.Split(cell, ","))
}

func cleanKeywords(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, k := range raw {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
