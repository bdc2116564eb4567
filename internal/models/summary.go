// internal/models/summary.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Summary aggregates a classification pass.
type Summary struct {
	TotalTickets        int                  `json:"total_tickets"`
	CountsPerCategory   CategoryCounts       `json:"counts_per_category"`
	UnclassifiedCount   int                  `json:"unclassified_count"`
	UnclassifiedTickets []UnclassifiedTicket `json:"unclassified_tickets"`
}

func NewSummary() Summary {
	return Summary{UnclassifiedTickets: []UnclassifiedTicket{}}
}

// Record adds one result to the summary. Counts are keyed on the exact assigned
// label, so composite multi-match labels are their own key.
func (s *Summary) Record(r ClassificationResult) {
	s.TotalTickets++
	s.CountsPerCategory.Add(r.AssignedCategory, 1)
	if s.UnclassifiedTickets == nil {
		s.UnclassifiedTickets = []UnclassifiedTicket{}
	}
	if r.Unclassified() {
		s.UnclassifiedTickets = append(s.UnclassifiedTickets, UnclassifiedTicket{
			TicketID:    r.TicketID,
			Description: r.Description,
		})
	}
	s.UnclassifiedCount = s.CountsPerCategory.Get(FallbackCategory)
}

// Merge folds a summary computed over another partition of tickets into s.
func (s *Summary) Merge(other Summary) {
	s.TotalTickets += other.TotalTickets
	for _, key := range other.CountsPerCategory.Keys() {
		s.CountsPerCategory.Add(key, other.CountsPerCategory.Get(key))
	}
	if s.UnclassifiedTickets == nil {
		s.UnclassifiedTickets = []UnclassifiedTicket{}
	}
	s.UnclassifiedTickets = append(s.UnclassifiedTickets, other.UnclassifiedTickets...)
	s.UnclassifiedCount = s.CountsPerCategory.Get(FallbackCategory)
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryCounts is a counter that remembers the order in which keys were first seen.
// It serializes as a JSON object whose keys keep that order.
type CategoryCounts struct {
	order  []string
	counts map[string]int
}

func (c *CategoryCounts) Add(category string, n int) {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	if _, ok := c.counts[category]; !ok {
		c.order = append(c.order, category)
	}
	c.counts[category] += n
}

func (c CategoryCounts) Get(category string) int {
	return c.counts[category]
}

func (c CategoryCounts) Keys() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c CategoryCounts) Len() int {
	return len(c.order)
}

func (c CategoryCounts) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Ranked returns the counts by descending count; ties keep first-seen order.
func (c CategoryCounts) Ranked() []CategoryCount {
	out := make([]CategoryCount, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, CategoryCount{Category: key, Count: c.counts[key]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Map returns a plain copy of the counts.
func (c CategoryCounts) Map() map[string]int {
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

func (c CategoryCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		encoded, err := encodeString(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
		fmt.Fprintf(&buf, ":%d", c.counts[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *CategoryCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	*c = CategoryCounts{}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("counts_per_category: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("counts_per_category: unexpected key %v", keyTok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("counts_per_category[%s]: %w", key, err)
		}
		c.Add(key, n)
	}
	_, err = dec.Token()
	return err
}

// encodeString JSON-encodes s without HTML escaping so category names are written verbatim.
func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
