package utils

import (
	"errors"
	"net/http"
)

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	ErrContactNotFound = errors.New("contact_not_found")
	ErrEventNotFound   = errors.New("event_not_found")
	ErrInvalidCode     = errors.New("invalid_code")
	ErrInvalidID       = errors.New("invalid_id")
	ErrPhoneExists     = errors.New("phone_exists")
	ErrRsvpExists      = errors.New("rsvp_exists")

	// For rate limiting
	ErrRateLimitExceeded = errors.New("rate_limit_exceeded")
)

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError wraps one of the not-found sentinels for the HTTP layer.
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Code: ErrCodeNotFound, Message: message, Err: err}
}

func NewValidationError(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: ErrCodeValidation, Message: message, Err: err}
}

func NewInvalidCodeError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: ErrCodeInvalidCode, Message: message, Err: ErrInvalidCode}
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
	} else {
		// Fallback for unexpected error types
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
