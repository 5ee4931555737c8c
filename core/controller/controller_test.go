package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mentor-scheduler/core/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		code      errors.ErrorCode
		retryable bool
	}{
		{"not found", errors.New(errors.ErrNotFound, "Event not found"), http.StatusNotFound, errors.ErrNotFound, false},
		{"validation", errors.NewValidationError([]errors.FieldError{{Field: "title", Message: "is required"}}), http.StatusUnprocessableEntity, errors.ErrValidationFailed, false},
		{"state conflict", errors.New(errors.ErrStateConflict, "too late"), http.StatusConflict, errors.ErrStateConflict, false},
		{"concurrency", errors.New(errors.ErrConcurrencyConflict, "retry"), http.StatusConflict, errors.ErrConcurrencyConflict, true},
		{"unauthorized", errors.New(errors.ErrUnauthorized, "no role"), http.StatusUnauthorized, errors.ErrUnauthorized, false},
		{"plain error", assert.AnError, http.StatusInternalServerError, errors.ErrInternalServer, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, NewBaseController().ErrorResponse(c, tt.err))
			assert.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.retryable, body.Retryable)
		})
	}
}

func TestErrorResponseHidesInternalMessage(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	err := errors.NewAppError(errors.ErrInternalServer, "pq: connection refused", assert.AnError)
	require.NoError(t, NewBaseController().ErrorResponse(c, err))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Message)
}
