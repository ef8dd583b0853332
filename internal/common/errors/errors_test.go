package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	warns  []map[string]interface{}
	errors []map[string]interface{}
}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.warns = append(l.warns, fields)
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.errors = append(l.errors, fields)
}

func TestRemoteErrorConstructors(t *testing.T) {
	tests := []struct {
		name      string
		err       *StandardError
		code      ErrorCode
		category  string
		status    int
		retryable bool
	}{
		{
			name:     "candidate creation 422",
			err:      NewCandidateCreationFailedError(422, map[string]interface{}{"errors": []string{"email taken"}}),
			code:     ErrCodeCandidateCreationFailed,
			category: CategoryCandidateCreation,
			status:   422,
		},
		{
			name:      "application submission 503",
			err:       NewApplicationSubmissionFailedError(503, nil),
			code:      ErrCodeApplicationSubmissionFailed,
			category:  CategoryApplicationSubmission,
			status:    503,
			retryable: true,
		},
		{
			name:     "delete 404",
			err:      NewDeleteFailedError(404, "not found"),
			code:     ErrCodeDeleteFailed,
			category: CategoryDelete,
			status:   404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.category, tt.err.Message)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.True(t, IsRemoteFailure(tt.err.Code))
			assert.Equal(t, "remote", GetErrorCategory(tt.err.Code))
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Run("plain error becomes internal", func(t *testing.T) {
		stdErr := Normalize(fmt.Errorf("dial tcp: connection refused"))
		assert.Equal(t, ErrCodeInternal, stdErr.Code)
		assert.Equal(t, http.StatusInternalServerError, stdErr.Status)
		assert.Nil(t, stdErr.Details)
	})

	t.Run("wrapped standard error is unwrapped", func(t *testing.T) {
		inner := NewInvalidRequestError([]string{"job_id: required"})
		stdErr := Normalize(fmt.Errorf("parse: %w", inner))
		assert.Same(t, inner, stdErr)
	})
}

func TestErrorHandler_Handle(t *testing.T) {
	t.Run("internal error hides cause from client", func(t *testing.T) {
		log := &recordingLogger{}
		h := NewErrorHandler(log)

		status, body := h.Handle(NewInternalError(fmt.Errorf("Authorization: Basic c2VjcmV0Og==")), map[string]interface{}{"requestId": "r1"})

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, CategoryInternal, body.Error)
		assert.Nil(t, body.Details)
		require.Len(t, log.errors, 1)
		assert.Equal(t, "r1", log.errors[0]["requestId"])
		assert.Contains(t, log.errors[0]["cause"], "Authorization")
	})

	t.Run("remote failure keeps status and details", func(t *testing.T) {
		log := &recordingLogger{}
		h := NewErrorHandler(log)

		status, body := h.Handle(NewCandidateCreationFailedError(422, map[string]interface{}{"errors": []interface{}{"email taken"}}), nil)

		assert.Equal(t, 422, status)
		assert.Equal(t, "candidate creation failed", body.Error)
		assert.Equal(t, 422, body.Status)
		assert.NotNil(t, body.Details)
		assert.Len(t, log.warns, 1)
		assert.Empty(t, log.errors)
	})
}

func TestWithMetadata(t *testing.T) {
	err := NewApplicationSubmissionFailedError(400, nil).WithMetadata("orphanCandidateId", int64(123))
	assert.Equal(t, int64(123), err.Metadata["orphanCandidateId"])
}
