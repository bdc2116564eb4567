// Package errors provides standardized error handling for the classifier and its workflow workers.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMissingInput            ErrorCode = "MISSING_INPUT"
	ErrCodeInputReadFailed         ErrorCode = "INPUT_READ_FAILED"
	ErrCodeKeywordSourceFailed     ErrorCode = "KEYWORD_SOURCE_FAILED"
	ErrCodeOutputWriteFailed       ErrorCode = "OUTPUT_WRITE_FAILED"
	ErrCodeSummaryValidationFailed ErrorCode = "SUMMARY_VALIDATION_FAILED"
	ErrCodeInvalidJobInput         ErrorCode = "INVALID_JOB_INPUT"
	ErrCodeCacheUnavailable        ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT_ERROR"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches another StandardError by code so callers can test with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	return ok && t.Code == e.Code
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	e := &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// NewMissingInputError reports every required input path that does not exist.
func NewMissingInputError(paths ...string) *StandardError {
	e := newError(ErrCodeMissingInput, "Required input file not found", nil, false)
	e.Details = strings.Join(paths, ", ")
	e.Metadata = map[string]interface{}{"paths": paths}
	return e
}

// NewInputReadFailedError wraps a failure to open or parse a dataset.
func NewInputReadFailedError(path string, err error) *StandardError {
	e := newError(ErrCodeInputReadFailed, fmt.Sprintf("Failed to read input %s", path), err, false)
	e.Metadata = map[string]interface{}{"path": path}
	return e
}

// NewKeywordSourceFailedError is retryable: the source is usually a database.
func NewKeywordSourceFailedError(source string, err error) *StandardError {
	e := newError(ErrCodeKeywordSourceFailed, fmt.Sprintf("Failed to load keywords from %s", source), err, true)
	e.Metadata = map[string]interface{}{"source": source}
	return e
}

func NewOutputWriteFailedError(path string, err error) *StandardError {
	e := newError(ErrCodeOutputWriteFailed, fmt.Sprintf("Failed to write output %s", path), err, false)
	e.Metadata = map[string]interface{}{"path": path}
	return e
}

func NewSummaryValidationFailedError(details string) *StandardError {
	e := newError(ErrCodeSummaryValidationFailed, "Summary document failed schema validation", nil, false)
	e.Details = details
	return e
}

func NewInvalidJobInputError(details string) *StandardError {
	e := newError(ErrCodeInvalidJobInput, "Invalid job input", nil, false)
	e.Details = details
	return e
}

func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Keyword cache unavailable", err, true)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err, true)
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(query string, err error) *StandardError {
	e := newError(ErrCodeQueryExecutionFailed, "Database query execution error", err, true)
	e.Metadata = map[string]interface{}{"query": query}
	return e
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(query string, err error) *StandardError {
	e := newError(ErrCodeQueryTimeout, "Database query timeout", err, true)
	e.Metadata = map[string]interface{}{"query": query}
	return e
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err, true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err, true)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the BPMN error codes modelled in the process.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeMissingInput:             "MISSING_INPUT",
	ErrCodeInputReadFailed:          "INPUT_READ_FAILED",
	ErrCodeKeywordSourceFailed:      "KEYWORD_SOURCE_FAILED",
	ErrCodeOutputWriteFailed:        "OUTPUT_WRITE_FAILED",
	ErrCodeSummaryValidationFailed:  "SUMMARY_VALIDATION_FAILED",
	ErrCodeInvalidJobInput:          "INVALID_JOB_INPUT",
	ErrCodeCacheUnavailable:         "CACHE_UNAVAILABLE",
	ErrCodeDatabaseConnectionFailed: "KEYWORD_SOURCE_FAILED",
	ErrCodeQueryExecutionFailed:     "KEYWORD_SOURCE_FAILED",
	ErrCodeQueryTimeout:             "KEYWORD_SOURCE_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeKeywordSourceFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeCacheUnavailable,
		ErrCodeTimeout:
		return 2

	default:
		return 0 // input and validation errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError finds a StandardError in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "INPUT") || strings.HasPrefix(codeStr, "MISSING"):
		return "INPUT"
	case strings.HasPrefix(codeStr, "OUTPUT"):
		return "OUTPUT"
	case strings.Contains(codeStr, "KEYWORD") || strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "KEYWORDS"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "EXTERNAL") || strings.Contains(codeStr, "TIMEOUT"):
		return "INFRASTRUCTURE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
