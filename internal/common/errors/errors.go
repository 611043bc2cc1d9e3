// Package errors provides the standardized error taxonomy of the assistant
// core: understanding failures degrade, configuration errors are fatal,
// external-service failures are absorbed, orchestration failures apologize.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Input-understanding failures: always degraded, never surfaced raw.
	ErrCodeUtteranceNotUnderstood ErrorCode = "UTTERANCE_NOT_UNDERSTOOD"
	ErrCodeEmptyUtterance         ErrorCode = "EMPTY_UTTERANCE"

	// Configuration errors: programmer errors, fatal at startup.
	ErrCodeTemplateNotFound       ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodeIndustryProfileMissing ErrorCode = "INDUSTRY_PROFILE_MISSING"

	// External-service failures: absorbed into canned fallback text.
	ErrCodeLLMTimeout      ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMUnavailable  ErrorCode = "LLM_UNAVAILABLE"
	ErrCodeEmptyCompletion ErrorCode = "EMPTY_COMPLETION"

	// Orchestration-level failures.
	ErrCodeSessionStoreFailed  ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeTurnProcessingError ErrorCode = "TURN_PROCESSING_ERROR"

	// Workflow contract failures.
	ErrCodeInvalidWorkflowJSON ErrorCode = "INVALID_WORKFLOW_JSON"
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
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the cause so errors.Is keeps matching package sentinels
// through a StandardError.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying error and returns the receiver.
func (e *StandardError) WithCause(err error) *StandardError {
	e.cause = err
	return e
}

// NewTemplateNotFoundError creates a non-retryable configuration error.
func NewTemplateNotFoundError(templateID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateNotFound,
		Message:   "Prompt template not found in registry",
		Details:   fmt.Sprintf("templateId: %s", templateID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable LLM timeout error.
func NewLLMTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "LLM completion timeout",
		Details:   "completion call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMUnavailableError creates a retryable provider error.
func NewLLMUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMUnavailable,
		Message:   "LLM provider error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyCompletionError creates a retryable empty-completion error.
func NewEmptyCompletionError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyCompletion,
		Message:   "LLM returned no completion text",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStoreFailedError creates a retryable store error.
func NewSessionStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Session store operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTurnProcessingError wraps an unexpected failure inside a turn.
func NewTurnProcessingError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTurnProcessingError,
		Message:   "Conversation turn processing failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidWorkflowJSONError creates a non-retryable contract error.
func NewInvalidWorkflowJSONError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidWorkflowJSON,
		Message:   "Generated workflow violates the JSON contract",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsConfigurationError reports whether the code marks a fatal setup problem
// rather than a per-request condition.
func IsConfigurationError(code ErrorCode) bool {
	switch code {
	case ErrCodeTemplateNotFound, ErrCodeIndustryProfileMissing:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the taxonomy bucket for the code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "UTTERANCE"):
		return "UNDERSTANDING"
	case strings.Contains(codeStr, "TEMPLATE") || strings.Contains(codeStr, "PROFILE"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "LLM") || strings.Contains(codeStr, "COMPLETION"):
		return "EXTERNAL_SERVICE"
	case strings.Contains(codeStr, "WORKFLOW"):
		return "CONTRACT"
	default:
		return "ORCHESTRATION"
	}
}
