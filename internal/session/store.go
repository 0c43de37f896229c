package session

import "context"

// Store persists registration sessions and their pending verification
// codes. Saving a session refreshes its TTL, so an active applicant keeps
// the session alive; issuing a new OTP replaces any previous one.
type Store interface {
	// Create assigns an ID to the session and persists it.
	Create(ctx context.Context, sess *Session) error

	// Get returns the session or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Save persists an existing session and refreshes its TTL.
	Save(ctx context.Context, sess *Session) error

	// Delete removes the session and any pending OTP.
	Delete(ctx context.Context, id string) error

	// SetOTP stores the hash of a freshly issued verification code,
	// replacing any previous code for the session.
	SetOTP(ctx context.Context, id string, record *OTPRecord) error

	// GetOTP returns the pending code record or ErrOTPNotFound.
	GetOTP(ctx context.Context, id string) (*OTPRecord, error)

	// DeleteOTP discards the pending code.
	DeleteOTP(ctx context.Context, id string) error
}
