// internal/dataset/tickets.go
package dataset

import (
	"strings"

	"ticket-classifier/internal/common/logger"
	"ticket-classifier/internal/common/metrics"
	"ticket-classifier/internal/models"
)

const datasetTickets = "tickets"

// LoadTickets reads the ticket dataset. Ticket ids are left blank when absent;
// the classifier assigns positional ids.
func LoadTickets(path, sheet string, log logger.Logger) ([]models.Ticket, error) {
	table, err := ReadTable(path, sheet)
	if err != nil {
		return nil, err
	}

	idCol := table.Column("ticket_id", "id")
	descCol := table.Column("description")
	if descCol < 0 {
		log.Warn("ticket dataset has no description column", map[string]interface{}{
			"path":   path,
			"header": table.Header,
		})
	}

	tickets := make([]models.Ticket, 0, len(table.Rows))
	for i, row := range table.Rows {
		t := models.Ticket{
			ID:          strings.TrimSpace(Cell(row, idCol)),
			Description: Cell(row, descCol),
		}
		if t.ID == "" || strings.TrimSpace(t.Description) == "" {
			metrics.MalformedRows.WithLabelValues(datasetTickets).Inc()
			log.Warn("malformed ticket row", map[string]interface{}{
				"row":              i,
				"missingId":        t.ID == "",
				"blankDescription": strings.TrimSpace(t.Description) == "",
			})
		}
		tickets = append(tickets, t)
	}

	log.Info("tickets loaded", map[string]interface{}{"path": path, "count": len(tickets)})
	return tickets, nil
}
