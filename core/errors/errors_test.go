package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDB(t *testing.T) {
	passthrough := New(ErrStateConflict, "slot taken")

	tests := []struct {
		name      string
		err       error
		code      ErrorCode
		retryable bool
	}{
		{"unique violation", &pq.Error{Code: "23505"}, ErrAlreadyExists, false},
		{"exclusion violation", &pq.Error{Code: "23P01"}, ErrConcurrencyConflict, true},
		{"serialization failure", &pq.Error{Code: "40001"}, ErrConcurrencyConflict, true},
		{"deadlock", &pq.Error{Code: "40P01"}, ErrConcurrencyConflict, true},
		{"check violation", &pq.Error{Code: "23514"}, ErrStateConflict, false},
		{"foreign key violation", &pq.Error{Code: "23503"}, ErrNotFound, false},
		{"wrapped exclusion", fmt.Errorf("insert event: %w", &pq.Error{Code: "23P01"}), ErrConcurrencyConflict, true},
		{"other pq code", &pq.Error{Code: "42P01"}, ErrInternalServer, false},
		{"plain error", stderrors.New("connection refused"), ErrInternalServer, false},
		{"app error", passthrough, ErrStateConflict, false},
		{"wrapped app error", fmt.Errorf("tx: %w", passthrough), ErrStateConflict, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDB(tt.err, "Failed to create event")
			require.NotNil(t, appErr)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.retryable, appErr.Retryable())
		})
	}
}

func TestFromDBKeepsCause(t *testing.T) {
	cause := &pq.Error{Code: "23P01"}
	appErr := FromDB(cause, "Failed to create event")

	var pqErr *pq.Error
	require.True(t, stderrors.As(appErr, &pqErr))
	assert.Equal(t, cause, pqErr)
	assert.Contains(t, appErr.Message, "Failed to create event")
}

func TestFromDBPassesAppErrorThrough(t *testing.T) {
	original := New(ErrUnauthorized, "nope")
	assert.Same(t, original, FromDB(original, "ignored"))
	assert.Nil(t, FromDB(nil, "ignored"))
}
