// internal/common/validation/schemas.go
package validation

const summarySchemaJSON = `{
  "type": "object",
  "required": ["total_tickets", "counts_per_category", "unclassified_count", "unclassified_tickets"],
  "properties": {
    "total_tickets": {"type": "integer", "minimum": 0},
    "counts_per_category": {
      "type": "object",
      "additionalProperties": {"type": "integer", "minimum": 0}
    },
    "unclassified_count": {"type": "integer", "minimum": 0},
    "unclassified_tickets": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["ticket_id", "description"],
        "properties": {
          "ticket_id": {"type": "string", "minLength": 1},
          "description": {"type": "string"}
        }
      }
    }
  }
}`

const classifyTicketInputSchemaJSON = `{
  "type": "object",
  "properties": {
    "ticketId": {"type": ["string", "number", "null"]},
    "description": {"type": ["string", "number", "boolean", "null"]},
    "rowIndex": {"type": "integer", "minimum": 0}
  }
}`

const classifyBatchInputSchemaJSON = `{
  "type": "object",
  "required": ["tickets"],
  "properties": {
    "tickets": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "ticketId": {"type": ["string", "number", "null"]},
          "description": {"type": ["string", "number", "boolean", "null"]}
        }
      }
    },
    "preferFirstMatch": {"type": "boolean"}
  }
}`

var (
	SummarySchema             = MustCompile("summary", summarySchemaJSON)
	ClassifyTicketInputSchema = MustCompile("classify-ticket-input", classifyTicketInputSchemaJSON)
	ClassifyBatchInputSchema  = MustCompile("classify-batch-input", classifyBatchInputSchemaJSON)
)
