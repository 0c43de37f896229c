package wizard

import "github.com/rapex-ph/onboarding-backend/pkg/onboarding"

// SaveStepRequest persists one wizard step to the server. Step numbers on the
// wire are 1-based; the Data payload is the step's JSON body.
type SaveStepRequest struct {
	SessionID string      `json:"session_id,omitempty"`
	Step      int         `json:"step"`
	Data      interface{} `json:"data"`
}

// SaveStepResponse acknowledges a saved step. The first save mints the
// session ID; later saves echo it back.
type SaveStepResponse struct {
	SessionID   string `json:"session_id"`
	CurrentStep int    `json:"current_step"`
}

// DocumentUpload is one file attached to a document slot.
type DocumentUpload struct {
	Filename string
	MimeType string
	Content  []byte
}

// UploadDocumentsResponse acknowledges a document upload. OTPSent reports
// whether the verification code was dispatched as part of the upload.
type UploadDocumentsResponse struct {
	SessionID string `json:"session_id"`
	OTPSent   bool   `json:"otp_sent"`
}

// RequestOTPResponse acknowledges an OTP issue or reissue.
type RequestOTPResponse struct {
	SessionID string `json:"session_id"`
	OTPSent   bool   `json:"otp_sent"`
}

// CompleteRequest submits the verification code to finish registration.
type CompleteRequest struct {
	SessionID string `json:"session_id"`
	OTPCode   string `json:"otp_code"`
}

// CompleteResponse is the successful terminal response: the created merchant
// and a token pair for the new account.
type CompleteResponse struct {
	MerchantID   uint   `json:"merchant_id"`
	Status       string `json:"status"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// StatusResponse reports the server-side view of a session.
type StatusResponse struct {
	SessionID     string                  `json:"session_id"`
	CurrentStep   int                     `json:"current_step"`
	General       *onboarding.GeneralInfo `json:"general_info,omitempty"`
	Location      *onboarding.Location    `json:"location,omitempty"`
	UploadedSlots []string                `json:"uploaded_slots,omitempty"`
	OTPSent       bool                    `json:"otp_sent"`
}

// AvailabilityResponse answers a username or email uniqueness probe.
type AvailabilityResponse struct {
	Available bool `json:"available"`
}
