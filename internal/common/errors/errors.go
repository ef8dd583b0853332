// Package errors provides the relay's error taxonomy and its mapping to failure outcomes.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeRateLimited    ErrorCode = "RATE_LIMITED"

	ErrCodeCandidateCreationFailed     ErrorCode = "CANDIDATE_CREATION_FAILED"
	ErrCodeApplicationSubmissionFailed ErrorCode = "APPLICATION_SUBMISSION_FAILED"
	ErrCodeDeleteFailed                ErrorCode = "DELETE_FAILED"

	ErrCodeRemoteNotConfigured ErrorCode = "REMOTE_NOT_CONFIGURED"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// Failure categories surfaced to the client in the "error" field.
const (
	CategoryInvalidRequest        = "invalid request"
	CategoryRateLimited           = "rate limit exceeded"
	CategoryCandidateCreation     = "candidate creation failed"
	CategoryApplicationSubmission = "application submission failed"
	CategoryDelete                = "delete failed"
	CategoryInternal              = "internal server error"
)

// StandardError represents a structured relay error.
//
// Status is the HTTP status returned to the caller. Details is client-safe
// diagnostic data (validation messages or a sanitized remote body); Cause is
// kept for operator logs only and is never serialized.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Status    int                    `json:"status"`
	Details   interface{}            `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *StandardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("StandardError[%s/%d]: %s: %v", e.Code, e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("StandardError[%s/%d]: %s", e.Code, e.Status, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

// WithMetadata attaches an operator-facing key/value and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidRequestError is returned before any outbound call is attempted.
func NewInvalidRequestError(details interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   CategoryInvalidRequest,
		Status:    http.StatusBadRequest,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRateLimitedError rejects an inbound request over the per-client budget.
func NewRateLimitedError(retryAfter time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   CategoryRateLimited,
		Status:    http.StatusTooManyRequests,
		Retryable: true,
		Metadata:  map[string]interface{}{"retryAfterSeconds": int(retryAfter.Seconds())},
		Timestamp: time.Now().UTC(),
	}
}

// NewCandidateCreationFailedError propagates a non-2xx status from step 1.
func NewCandidateCreationFailedError(status int, details interface{}) *StandardError {
	return newRemoteError(ErrCodeCandidateCreationFailed, CategoryCandidateCreation, status, details)
}

// NewApplicationSubmissionFailedError propagates a non-2xx status from step 2.
func NewApplicationSubmissionFailedError(status int, details interface{}) *StandardError {
	return newRemoteError(ErrCodeApplicationSubmissionFailed, CategoryApplicationSubmission, status, details)
}

// NewDeleteFailedError propagates a non-2xx status from the delete call.
func NewDeleteFailedError(status int, details interface{}) *StandardError {
	return newRemoteError(ErrCodeDeleteFailed, CategoryDelete, status, details)
}

func newRemoteError(code ErrorCode, category string, status int, details interface{}) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   category,
		Status:    status,
		Details:   details,
		Retryable: status >= http.StatusInternalServerError || status == http.StatusTooManyRequests,
		Timestamp: time.Now().UTC(),
	}
}

// NewRemoteNotConfiguredError signals missing outbound credentials.
func NewRemoteNotConfiguredError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRemoteNotConfigured,
		Message:   CategoryInternal,
		Status:    http.StatusInternalServerError,
		Retryable: false,
		Metadata:  map[string]interface{}{"reason": details},
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError hides cause from the client; it is only logged.
func NewInternalError(cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   CategoryInternal,
		Status:    http.StatusInternalServerError,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     cause,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsRemoteFailure reports whether code came from a non-2xx remote response.
func IsRemoteFailure(code ErrorCode) bool {
	switch code {
	case ErrCodeCandidateCreationFailed, ErrCodeApplicationSubmissionFailed, ErrCodeDeleteFailed:
		return true
	}
	return false
}

// GetErrorCategory groups codes for metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch {
	case code == ErrCodeInvalidRequest:
		return "client"
	case code == ErrCodeRateLimited:
		return "throttle"
	case IsRemoteFailure(code):
		return "remote"
	default:
		return "internal"
	}
}
