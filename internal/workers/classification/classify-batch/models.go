// internal/workers/classification/classify-batch/models.go
package classifybatch

import "ticket-classifier/internal/models"

type TicketInput struct {
	TicketID    interface{} `json:"ticketId,omitempty"`
	Description interface{} `json:"description,omitempty"`
}

// Input carries the tickets of one batch. PreferFirstMatch overrides the
// configured resolution mode when present.
type Input struct {
	Tickets          []TicketInput `json:"tickets"`
	PreferFirstMatch *bool         `json:"preferFirstMatch,omitempty"`
}

type Output struct {
	RunID   string                        `json:"runId"`
	Results []models.ClassificationResult `json:"results"`
	Summary models.Summary                `json:"summary"`
}
