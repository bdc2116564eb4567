// internal/workers/classification/classify-ticket/models.go
package classifyticket

// Input is one ticket. ticketId may be a string or a number; a missing id is
// replaced by the positional id of rowIndex.
type Input struct {
	TicketID    interface{} `json:"ticketId,omitempty"`
	Description interface{} `json:"description,omitempty"`
	RowIndex    int         `json:"rowIndex,omitempty"`
}

type Output struct {
	TicketID              string   `json:"ticketId"`
	NormalizedDescription string   `json:"normalizedDescription"`
	AssignedCategory      string   `json:"assignedCategory"`
	MatchedCategories     []string `json:"matchedCategories"`
	Unclassified          bool     `json:"unclassified"`
}
