// pkg/registry/activities.go
package registry

import (
	"ticket-classifier/internal/common/errors"
	"ticket-classifier/internal/common/validation"
	classifybatch "ticket-classifier/internal/workers/classification/classify-batch"
	classifyticket "ticket-classifier/internal/workers/classification/classify-ticket"
)

const CategoryClassification = "classification"

var classifyTicketOutputSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"ticketId", "normalizedDescription", "assignedCategory", "matchedCategories", "unclassified"},
	"properties": map[string]interface{}{
		"ticketId":              map[string]interface{}{"type": "string"},
		"normalizedDescription": map[string]interface{}{"type": "string"},
		"assignedCategory":      map[string]interface{}{"type": "string"},
		"matchedCategories":     map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		"unclassified":          map[string]interface{}{"type": "boolean"},
	},
}

func classifyBatchOutputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"runId", "results", "summary"},
		"properties": map[string]interface{}{
			"runId":   map[string]interface{}{"type": "string", "format": "uuid"},
			"results": map[string]interface{}{"type": "array"},
			"summary": validation.SummarySchema.Definition(),
		},
	}
}

func errorCodes(codes ...errors.ErrorCode) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]bool)
	for _, c := range codes {
		bpmn := errors.ConvertToBPMNError(&errors.StandardError{Code: c}).Code
		if !seen[bpmn] {
			seen[bpmn] = true
			out = append(out, bpmn)
		}
	}
	return out
}

// Classification describes the workers registered by the worker manager.
func Classification() []Activity {
	return []Activity{
		{
			ID:                   classifyticket.TaskType,
			DisplayName:          "Classify Ticket",
			Description:          "Assigns a category to one support ticket by keyword matching",
			Category:             CategoryClassification,
			Version:              "1.0.0",
			TaskType:             classifyticket.TaskType,
			ImplementationStatus: StatusCompleted,
			InputSchema:          validation.ClassifyTicketInputSchema.Definition(),
			OutputSchema:         classifyTicketOutputSchema,
			ErrorCodes: errorCodes(
				errors.ErrCodeInvalidJobInput,
				errors.ErrCodeKeywordSourceFailed,
				errors.ErrCodeQueryExecutionFailed,
			),
			Timeout:   classifyticket.DefaultConfig().Timeout.String(),
			Retries:   errors.GetRetryCount(errors.ErrCodeKeywordSourceFailed),
			Workflows: []string{},
			Tags:      []string{"tickets", "keywords"},
		},
		{
			ID:                   classifybatch.TaskType,
			DisplayName:          "Classify Ticket Batch",
			Description:          "Classifies a list of tickets and returns per-ticket results with an aggregate summary",
			Category:             CategoryClassification,
			Version:              "1.0.0",
			TaskType:             classifybatch.TaskType,
			ImplementationStatus: StatusCompleted,
			InputSchema:          validation.ClassifyBatchInputSchema.Definition(),
			OutputSchema:         classifyBatchOutputSchema(),
			ErrorCodes: errorCodes(
				errors.ErrCodeInvalidJobInput,
				errors.ErrCodeKeywordSourceFailed,
				errors.ErrCodeQueryExecutionFailed,
				errors.ErrCodeSummaryValidationFailed,
			),
			Timeout:   classifybatch.DefaultConfig().Timeout.String(),
			Retries:   errors.GetRetryCount(errors.ErrCodeKeywordSourceFailed),
			Workflows: []string{},
			Tags:      []string{"tickets", "keywords", "summary"},
		},
	}
}
