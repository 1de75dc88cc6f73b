package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidation("days must be between 1 and 365"), http.StatusBadRequest},
		{"not found", NewNotFound("Post not found"), http.StatusNotFound},
		{"conflict", NewConflict("Account already exists"), http.StatusConflict},
		{"internal", NewInternal("query failed", stderrors.New("disk")), http.StatusInternalServerError},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("service: %w", NewNotFound("Account not found")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWrapPreservesType(t *testing.T) {
	err := Wrap(NewNotFound("Post not found"), "publish")
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "publish: Post not found")

	cause := stderrors.New("connection reset")
	wrapped := Wrap(cause, "load stats")
	assert.True(t, IsInternal(wrapped))
	assert.ErrorIs(t, wrapped, cause)

	assert.Nil(t, Wrap(nil, "noop"))
}

func TestErrorHandlerHidesInternalDetails(t *testing.T) {
	h := NewErrorHandler(nil, false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/dashboard", nil)

	h.Handle(rec, req, stderrors.New("sql: database is closed"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "database is closed")
	assert.Contains(t, rec.Body.String(), `"type":"INTERNAL"`)
}

func TestErrorHandlerClientErrors(t *testing.T) {
	h := NewErrorHandler(nil, false)
	rec := httptest.NewRecorder()
	rec.Header().Set("X-Request-ID", "req-1")
	req := httptest.NewRequest(http.MethodPost, "/api/accounts", nil)

	h.Handle(rec, req, NewConflict("Account already exists"))

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t,
		`{"error":true,"type":"CONFLICT","message":"Account already exists","request_id":"req-1"}`,
		rec.Body.String())
}
