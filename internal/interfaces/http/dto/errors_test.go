package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/erp/customers/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeInvalidJSON, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestDomainCodesAreMapped(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(shared.CodeValidation))
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(shared.CodeNotFound))
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(http.StatusUnsupportedMediaType, "Content-Type must be application/json", "req-1")

	assert.Equal(t, 415, resp.Status)
	assert.Equal(t, "Unsupported Media Type", resp.Error)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"status": 415,
		"error": "Unsupported Media Type",
		"message": "Content-Type must be application/json",
		"request_id": "req-1"
	}`, string(raw))
}

func TestNewErrorResponse_OmitsEmptyRequestID(t *testing.T) {
	raw, err := json.Marshal(NewErrorResponse(http.StatusNotFound, "gone", ""))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "request_id")
}
