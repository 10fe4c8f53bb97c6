package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput    ErrorCode = "INVALID_INPUT"
	CodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	CodeMovieNotFound   ErrorCode = "MOVIE_NOT_FOUND"

	// Quiz parse errors
	CodeNoJSONFound        ErrorCode = "NO_JSON_FOUND"
	CodeMalformedJSON      ErrorCode = "MALFORMED_JSON"
	CodeSchemaViolation    ErrorCode = "SCHEMA_VIOLATION"
	CodeAnswerNotInOptions ErrorCode = "ANSWER_NOT_IN_OPTIONS"
	CodeNoQuestionsParsed  ErrorCode = "NO_QUESTIONS_PARSED"

	// Session usage errors
	CodeIndexOutOfRange         ErrorCode = "INDEX_OUT_OF_RANGE"
	CodeSessionAlreadySubmitted ErrorCode = "SESSION_ALREADY_SUBMITTED"
	CodeNotSubmitted            ErrorCode = "NOT_SUBMITTED"

	// Upstream collaborator errors
	CodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	CodeUpstreamMalformed   ErrorCode = "UPSTREAM_MALFORMED"

	// Request validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithContext attaches diagnostic context to the error and returns it.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Helper constructors for common errors

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(CodeSessionNotFound, fmt.Sprintf("Session not found with ID: %s", sessionID), nil)
}

// Parse errors carry the offending raw model output in Context for
// diagnostic display; they are never coerced into an empty quiz.

func NewNoJSONFoundError(raw string) *DomainError {
	return NewError(CodeNoJSONFound, "No JSON object found in model output", nil).
		WithContext("raw", raw)
}

func NewMalformedJSONError(raw string, cause error) *DomainError {
	return NewError(CodeMalformedJSON, "Model output is not valid JSON", cause).
		WithContext("raw", raw)
}

func NewSchemaViolationError(message string, raw string) *DomainError {
	return NewError(CodeSchemaViolation, message, nil).WithContext("raw", raw)
}

func NewAnswerNotInOptionsError(answer string, raw string) *DomainError {
	return NewError(CodeAnswerNotInOptions,
		fmt.Sprintf("Answer %q does not match any option label", answer), nil).
		WithContext("raw", raw)
}

func NewNoQuestionsParsedError(raw string) *DomainError {
	return NewError(CodeNoQuestionsParsed, "No well-formed question blocks in model output", nil).
		WithContext("raw", raw)
}

// Session usage errors are caller contract violations, always recoverable
// by the caller correcting its call.

func NewIndexOutOfRangeError(index, total int) *DomainError {
	return NewError(CodeIndexOutOfRange,
		fmt.Sprintf("Question index %d out of range [0, %d)", index, total), nil)
}

func NewSessionAlreadySubmittedError() *DomainError {
	return NewError(CodeSessionAlreadySubmitted, "Session already submitted; answers are frozen", nil)
}

func NewNotSubmittedError() *DomainError {
	return NewError(CodeNotSubmitted, "Session must be submitted before grading", nil)
}

// Upstream errors are opaque: "got no text" (unavailable) is never conflated
// with "got text that did not parse" (the parse errors above).

func NewUpstreamUnavailableError(cause error) *DomainError {
	return NewError(CodeUpstreamUnavailable, "Upstream model service unavailable", cause)
}

func NewUpstreamMalformedError(message string) *DomainError {
	return NewError(CodeUpstreamMalformed, message, nil)
}

// ValidationError represents a single request validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates validation failures for one request.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0].Error()
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "is required"}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("has invalid format: %q", value)}
}

func NewOutOfRangeError(field string, got, min, max int) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("must be between %d and %d, got %d", min, max, got)}
}
