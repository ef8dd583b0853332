package errors

import (
	stderrors "errors"
	"time"
)

// FailureOutcome is the JSON body of every failed relay response.
type FailureOutcome struct {
	Error   string      `json:"error"`
	Status  int         `json:"status"`
	Details interface{} `json:"details,omitempty"`
}

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler turns any error into the status and body returned to the client.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle normalizes err, logs it and returns the failure outcome.
func (h *ErrorHandler) Handle(err error, fields map[string]interface{}) (int, FailureOutcome) {
	stdErr := Normalize(err)
	h.logError(stdErr, fields)
	return stdErr.Status, ToFailureOutcome(stdErr)
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		if stdErr.Status == 0 {
			stdErr.Status = 500
		}
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   CategoryInternal,
		Status:    500,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// ToFailureOutcome strips operator-only data.
func ToFailureOutcome(stdErr *StandardError) FailureOutcome {
	return FailureOutcome{
		Error:   stdErr.Message,
		Status:  stdErr.Status,
		Details: stdErr.Details,
	}
}

func (h *ErrorHandler) logError(stdErr *StandardError, fields map[string]interface{}) {
	if h.logger == nil {
		return
	}

	logFields := map[string]interface{}{
		"errorCode": stdErr.Code,
		"status":    stdErr.Status,
		"category":  GetErrorCategory(stdErr.Code),
		"retryable": stdErr.Retryable,
	}
	for k, v := range stdErr.Metadata {
		logFields[k] = v
	}
	for k, v := range fields {
		logFields[k] = v
	}
	if stdErr.Cause != nil {
		logFields["cause"] = stdErr.Cause.Error()
	}

	if stdErr.Status >= 500 {
		h.logger.Error("request failed", logFields)
		return
	}
	h.logger.Warn("request failed", logFields)
}
