package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`   // error code (see codes.go)
	Message string `json:"message"` // human readable message
}

// RespondWithError writes the standard envelope.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Shortcuts for the common responses.

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Something went wrong, please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// SessionNotFound is the canonical response for a missing or expired
// registration session.
func SessionNotFound(c *gin.Context) {
	RespondWithError(c, http.StatusNotFound, RegSessionNotFound, "Registration session not found or expired")
}

// ValidationError carries per-field failure messages alongside the envelope.
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	RespondWithFields(c, http.StatusBadRequest, ValidationInvalidInput, "Validation failed", fields)
}

// RespondWithFields writes the envelope with per-field messages attached,
// under a caller-chosen error code.
func RespondWithFields(c *gin.Context, statusCode int, errorCode, message string, fields map[string]string) {
	c.JSON(statusCode, ValidationError{
		Error:   errorCode,
		Message: message,
		Fields:  fields,
	})
}
