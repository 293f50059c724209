package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := New("WHK_001", "Webhook URL must start with http:// or https://", http.StatusBadRequest)
	assert.Equal(t, "[WHK_001] Webhook URL must start with http:// or https://", err.Error())
}

func TestAppError_Error_Wrapped(t *testing.T) {
	inner := errors.New("connection refused")
	err := Wrap("SYS_001", "Database error", http.StatusInternalServerError, inner)
	assert.Contains(t, err.Error(), "SYS_001")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := ErrDatabaseError(inner)
	assert.True(t, errors.Is(err, inner))
}

func TestAppError_As(t *testing.T) {
	var appErr *AppError
	wrapped := fmt.Errorf("publishing: %w", ErrInvalidEnvelope("empty event_type"))
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "EVT_001", appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
}

func TestEndpointErrors_Status(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, ErrInvalidWebhookURL().HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, ErrNoEventTypes().HTTPStatus)
	assert.Equal(t, http.StatusNotFound, ErrEndpointNotFound(42).HTTPStatus)
	assert.Equal(t, http.StatusConflict, ErrEventNotRequeueable("abc").HTTPStatus)
}
