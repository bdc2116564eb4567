// internal/dataset/summary.go
package dataset

import (
	"bytes"
	"encoding/json"

	apperrors "ticket-classifier/internal/common/errors"
	"ticket-classifier/internal/models"
)

// EncodeSummary renders the summary as two-space indented JSON. Non-ASCII text
// and HTML characters are written verbatim.
func EncodeSummary(s models.Summary) ([]byte, error) {
	if s.UnclassifiedTickets == nil {
		s.UnclassifiedTickets = []models.UnclassifiedTicket{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func RenderSummary(path string, s models.Summary) (Artifact, error) {
	data, err := EncodeSummary(s)
	if err != nil {
		return Artifact{}, apperrors.NewOutputWriteFailedError(path, err)
	}
	return Artifact{Path: path, Data: data}, nil
}

func WriteSummary(path string, s models.Summary) error {
	a, err := RenderSummary(path, s)
	if err != nil {
		return err
	}
	return a.Write()
}
