package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid client configuration")

	// ErrConnection is returned when the server cannot be reached
	ErrConnection = errors.New("could not reach the registration server")

	// ErrSessionNotFound is returned when the server no longer knows the session
	ErrSessionNotFound = errors.New("registration session not found or expired")

	// ErrNoDocumentsAttached is returned when a document upload carries no files
	ErrNoDocumentsAttached = errors.New("no documents attached")

	// ErrTransitionInFlight is returned when a step transition is already running
	ErrTransitionInFlight = errors.New("a step transition is already in progress")

	// ErrAlreadyCompleted is returned when the wizard has reached its terminal state
	ErrAlreadyCompleted = errors.New("registration already completed")

	// ErrValidationFailed is returned when a step is blocked by local validation
	ErrValidationFailed = errors.New("step validation failed")

	// ErrVerificationPending is returned when Next is called on the
	// verification step; that step finishes through CompleteVerification
	ErrVerificationPending = errors.New("verification step requires the OTP code")
)

// APIError is a structured error response from the onboarding API.
type APIError struct {
	StatusCode int               `json:"-"`
	Code       string            `json:"error"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s (%d): %s", e.Code, e.StatusCode, e.Message)
}
