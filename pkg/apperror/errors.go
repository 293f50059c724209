package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses on the admin
// surface while staying a plain error for internal callers.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to clients)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Event publishing (EVT) ----

func ErrInvalidEnvelope(detail string) *AppError {
	return New("EVT_001", "Event must have type, aggregate_type and aggregate_id: "+detail, http.StatusBadRequest)
}

func ErrEventNotFound(eventID string) *AppError {
	return New("EVT_002", fmt.Sprintf("Event %s not found", eventID), http.StatusNotFound)
}

func ErrEventNotRequeueable(eventID string) *AppError {
	return New("EVT_003", fmt.Sprintf("Event %s is not in a requeueable state", eventID), http.StatusConflict)
}

// ---- Webhook endpoint configuration (WHK) ----

func ErrInvalidWebhookURL() *AppError {
	return New("WHK_001", "Webhook URL must start with http:// or https://", http.StatusBadRequest)
}

func ErrNoEventTypes() *AppError {
	return New("WHK_002", "At least one event type must be specified", http.StatusBadRequest)
}

func ErrEndpointNotFound(id int64) *AppError {
	return New("WHK_003", fmt.Sprintf("Webhook endpoint %d not found", id), http.StatusNotFound)
}

// ---- Validation (VAL) ----

func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Database error", http.StatusInternalServerError, err)
}

func InternalError(err error) *AppError {
	return Wrap("SYS_002", "Internal server error", http.StatusInternalServerError, err)
}
