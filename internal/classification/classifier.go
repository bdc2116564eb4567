// internal/classification/classifier.go
package classification

import (
	"strings"

	"ticket-classifier/internal/models"
)

// CompositeSeparator joins matched categories when first-match resolution is off.
const CompositeSeparator = ";"

type Options struct {
	// PreferFirstMatch assigns the earliest declared matching category. When
	// false all matched categories are joined into one composite label.
	PreferFirstMatch bool
}

func DefaultOptions() Options {
	return Options{PreferFirstMatch: true}
}

type Classifier struct {
	matcher *Matcher
	opts    Options
}

func New(km *KeywordMap, opts Options) *Classifier {
	return &Classifier{matcher: NewMatcher(km), opts: opts}
}

func (c *Classifier) Options() Options {
	return c.opts
}

// Classify normalizes the ticket description, matches it and resolves the label.
func (c *Classifier) Classify(ticket models.Ticket) models.ClassificationResult {
	normalized := Normalize(ticket.Description)
	matches := c.matcher.Match(normalized)
	return models.ClassificationResult{
		TicketID:              ticket.ID,
		Description:           ticket.Description,
		NormalizedDescription: normalized,
		AssignedCategory:      c.resolve(matches),
		MatchedCategories:     matches,
	}
}

func (c *Classifier) resolve(matches []string) string {
	switch {
	case len(matches) == 0:
		return models.FallbackCategory
	case c.opts.PreferFirstMatch:
		return matches[0]
	default:
		return strings.Join(matches, CompositeSeparator)
	}
}

// ClassifyAll classifies tickets in input order. Tickets without an id get a
// positional one.
func (c *Classifier) ClassifyAll(tickets []models.Ticket) ([]models.ClassificationResult, models.Summary) {
	results := make([]models.ClassificationResult, 0, len(tickets))
	summary := models.NewSummary()
	for i, t := range tickets {
		if strings.TrimSpace(t.ID) == "" {
			t.ID = models.PositionalID(i)
		}
		r := c.Classify(t)
		results = append(results, r)
		summary.Record(r)
	}
	return results, summary
}
