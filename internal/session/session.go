// Package session holds the in-progress registration state. Sessions live
// in Redis under a sliding TTL and disappear either on expiry or when the
// registration completes.
package session

import (
	"errors"
	"time"

	"github.com/rapex-ph/onboarding-backend/pkg/onboarding"
)

var (
	// ErrNotFound is returned when a session is missing or expired.
	ErrNotFound = errors.New("registration session not found")

	// ErrOTPNotFound is returned when no verification code is pending.
	ErrOTPNotFound = errors.New("no verification code issued")
)

// StagedDocument is an uploaded file parked in object storage while its
// session is still open. It is promoted to a MerchantDocument on completion.
type StagedDocument struct {
	ObjectKey        string `json:"object_key"`
	URL              string `json:"url"`
	OriginalFilename string `json:"original_filename"`
	MimeType         string `json:"mime_type"`
	SizeBytes        int64  `json:"size_bytes"`
}

// Session is one in-progress merchant registration.
type Session struct {
	ID          string                    `json:"id"`
	CurrentStep int                       `json:"current_step"` // count of completed steps
	General     *onboarding.GeneralInfo   `json:"general,omitempty"`
	Location    *onboarding.Location      `json:"location,omitempty"`
	Documents   map[string]StagedDocument `json:"documents,omitempty"` // slot key -> staged file
	OTPSent     bool                      `json:"otp_sent"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// Category returns the declared registration category, defaulting to
// Unregistered until the first step is saved.
func (s *Session) Category() onboarding.RegistrationCategory {
	if s.General == nil {
		return onboarding.CategoryUnregistered
	}
	return s.General.RegistrationCategory
}

// OTPRecord is a pending verification code. Only the bcrypt hash of the
// code is stored; the plaintext goes out by email and is never persisted.
type OTPRecord struct {
	Hash     string    `json:"hash"`
	IssuedAt time.Time `json:"issued_at"`
}
