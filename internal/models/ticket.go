// internal/models/ticket.go
package models

import "fmt"

// FallbackCategory is assigned to tickets whose description matched no keyword.
const FallbackCategory = "Others"

// Ticket is one support request as read from the ticket dataset.
type Ticket struct {
	ID          string `json:"ticket_id"`
	Description string `json:"description"`
}

// PositionalID is the identifier used for tickets that carry no id of their own.
func PositionalID(index int) string {
	return fmt.Sprintf("row_%d", index)
}

type ClassificationResult struct {
	TicketID              string   `json:"ticket_id"`
	Description           string   `json:"description"`
	NormalizedDescription string   `json:"cleaned_description"`
	AssignedCategory      string   `json:"assigned_category"`
	MatchedCategories     []string `json:"matched_categories"`
}

// Unclassified reports whether no category matched the ticket.
func (r ClassificationResult) Unclassified() bool {
	return len(r.MatchedCategories) == 0
}

type UnclassifiedTicket struct {
	TicketID    string `json:"ticket_id"`
	Description string `json:"description"`
}
