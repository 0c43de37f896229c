// Package onboarding holds the pure rules of the merchant registration
// pipeline: the step sequence, the per-step payloads, the document
// requirement table and the upload constraints. It performs no I/O of its
// own; network-backed checks are injected through interfaces.
package onboarding

// Step identifies one stage of the registration wizard.
type Step int

const (
	StepGeneralInfo Step = iota
	StepLocation
	StepDocuments
	StepVerification
	// StepCompleted is the terminal state after successful OTP verification.
	StepCompleted
)

func (s Step) String() string {
	switch s {
	case StepGeneralInfo:
		return "general_info"
	case StepLocation:
		return "location"
	case StepDocuments:
		return "documents"
	case StepVerification:
		return "verification"
	case StepCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// RegistrationCategory is the applicant-declared business registration
// classification. It determines which documents are mandatory.
type RegistrationCategory int

const (
	CategoryVATRegistered    RegistrationCategory = 0 // Registered (VAT Included)
	CategoryNonVATRegistered RegistrationCategory = 1 // Registered (NON-VAT)
	CategoryUnregistered     RegistrationCategory = 2 // Unregistered
)

func (c RegistrationCategory) String() string {
	switch c {
	case CategoryVATRegistered:
		return "vat_registered"
	case CategoryNonVATRegistered:
		return "non_vat_registered"
	case CategoryUnregistered:
		return "unregistered"
	default:
		return "unknown"
	}
}

// GeneralInfo is the payload of the first wizard step.
type GeneralInfo struct {
	BusinessName         string               `json:"business_name"`
	OwnerName            string               `json:"owner_name"`
	Username             string               `json:"username"`
	Email                string               `json:"email"`
	Password             string               `json:"password"`
	ConfirmPassword      string               `json:"confirm_password"`
	Phone                string               `json:"phone"`
	BusinessCategoryID   uint                 `json:"business_category_id"`
	BusinessTypeID       uint                 `json:"business_type_id"`
	RegistrationCategory RegistrationCategory `json:"business_registration"`
}

// Location is the payload of the second wizard step. The 0/0 coordinate pair
// is the "never selected" sentinel, not a valid coordinate for this domain.
type Location struct {
	Zipcode          string  `json:"zipcode"`
	Province         string  `json:"province"`
	CityMunicipality string  `json:"city_municipality"`
	Barangay         string  `json:"barangay"`
	StreetName       string  `json:"street_name"`
	HouseNumber      string  `json:"house_number"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
}

// UploadCandidate describes a file selected for a document slot. Only the
// metadata is modeled here; the binary content travels separately.
type UploadCandidate struct {
	Filename  string `json:"filename"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// Documents maps document slot keys to the file selected for each slot.
type Documents map[string]UploadCandidate

// DocumentRequirement is one entry of the resolved requirement list for a
// registration category.
type DocumentRequirement struct {
	SlotKey  string `json:"slot_key"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// FieldError is a field-scoped validation failure. Err carries the upload
// policy sentinel (ErrFileTooLarge, ErrInvalidFileType) when one applies, so
// callers can map the failure to a wire error code.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}
