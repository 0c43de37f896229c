package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// Clients map these codes to their own display messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong username/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed token

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // bad input
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // bad identifier
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // bad format
	ValidationRequired      = "VALIDATION_REQUIRED"       // missing required field

	// ==================== Registration session (REG_) ====================
	RegSessionNotFound     = "REG_SESSION_NOT_FOUND"     // session missing or expired
	RegInvalidStep         = "REG_INVALID_STEP"          // step number out of range
	RegStepNotReady        = "REG_STEP_NOT_READY"        // earlier step not saved yet
	RegUsernameExists      = "REG_USERNAME_EXISTS"       // username taken
	RegEmailExists         = "REG_EMAIL_EXISTS"          // email taken
	RegDocumentMissing     = "REG_DOCUMENT_MISSING"      // required document slot empty
	RegUnknownSlot         = "REG_UNKNOWN_SLOT"          // unrecognized document slot
	RegNoDocumentsAttached = "REG_NO_DOCUMENTS_ATTACHED" // upload without any files

	// ==================== Verification codes (OTP_) ====================
	OTPCodeInvalid   = "OTP_CODE_INVALID"    // wrong code
	OTPCodeExpired   = "OTP_CODE_EXPIRED"    // code past its 10 minute window
	OTPNotIssued     = "OTP_NOT_ISSUED"      // complete before any code was sent
	OTPResendTooSoon = "OTP_RESEND_TOO_SOON" // resend inside the cooldown window

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "INVALID_FILE_TYPE" // disallowed extension or mime type
	UploadFileTooLarge    = "FILE_TOO_LARGE"    // over the 2 MB limit
	UploadFailed          = "UPLOAD_FAILED"     // storage write failed

	// ==================== Catalog (CATALOG_) ====================
	CatalogCategoryNotFound = "CATALOG_CATEGORY_NOT_FOUND" // unknown business category
	CatalogTypeNotFound     = "CATALOG_TYPE_NOT_FOUND"     // unknown business type

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // generic missing resource
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // generic duplicate

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // unexpected failure
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // database failure
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // external service failure
)
