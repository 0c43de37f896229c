package onboarding

import (
	"context"
	"regexp"
	"strings"

	"github.com/rapex-ph/onboarding-backend/pkg/util"
)

// phonePattern matches a Philippine mobile number: the +63 country prefix
// followed by a 9-prefixed ten digit subscriber number.
var phonePattern = regexp.MustCompile(`^\+639\d{9}$`)

// emailPattern is a basic local@domain shape check; real deliverability is
// the mail provider's problem.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// otpPattern matches a six digit verification code.
var otpPattern = regexp.MustCompile(`^\d{6}$`)

// AvailabilityChecker answers the username/email uniqueness questions that
// need a server round-trip. A transport failure must be reported as an
// error, never as availability.
type AvailabilityChecker interface {
	UsernameAvailable(ctx context.Context, username string) (bool, error)
	EmailAvailable(ctx context.Context, email string) (bool, error)
}

// Validator is the per-step validation engine. All local rules are
// synchronous; uniqueness checks go through the injected checker.
type Validator struct {
	checker AvailabilityChecker
}

func NewValidator(checker AvailabilityChecker) *Validator {
	return &Validator{checker: checker}
}

// ValidateGeneralInfo checks the first step. Uniqueness failures and
// "could not verify" transport failures both block the step: unknown is
// never treated as available.
func (v *Validator) ValidateGeneralInfo(ctx context.Context, info GeneralInfo) []FieldError {
	var errs []FieldError

	required := []struct {
		field, value string
	}{
		{"business_name", info.BusinessName},
		{"owner_name", info.OwnerName},
		{"username", info.Username},
		{"email", info.Email},
		{"password", info.Password},
		{"confirm_password", info.ConfirmPassword},
		{"phone", info.Phone},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, FieldError{Field: r.field, Message: "This field is required"})
		}
	}
	if info.BusinessCategoryID == 0 {
		errs = append(errs, FieldError{Field: "business_category_id", Message: "This field is required"})
	}
	if info.BusinessTypeID == 0 {
		errs = append(errs, FieldError{Field: "business_type_id", Message: "This field is required"})
	}
	if len(errs) > 0 {
		return errs
	}

	if !phonePattern.MatchString(info.Phone) {
		errs = append(errs, FieldError{
			Field:   "phone",
			Message: "Phone must be a +63 mobile number with 10 digits (e.g. +639171234567)",
		})
	}

	if !emailPattern.MatchString(info.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Enter a valid email address"})
	}

	if err := util.ValidatePasswordStrength(info.Password); err != nil {
		errs = append(errs, FieldError{Field: "password", Message: err.Error()})
	} else if info.Password != info.ConfirmPassword {
		errs = append(errs, FieldError{Field: "confirm_password", Message: "Passwords do not match"})
	}

	if len(errs) > 0 {
		return errs
	}

	if v.checker != nil {
		available, err := v.checker.UsernameAvailable(ctx, info.Username)
		switch {
		case err != nil:
			errs = append(errs, FieldError{Field: "username", Message: "Could not verify username availability, please try again"})
		case !available:
			errs = append(errs, FieldError{Field: "username", Message: "Username already exists"})
		}

		available, err = v.checker.EmailAvailable(ctx, info.Email)
		switch {
		case err != nil:
			errs = append(errs, FieldError{Field: "email", Message: "Could not verify email availability, please try again"})
		case !available:
			errs = append(errs, FieldError{Field: "email", Message: "Email already exists"})
		}
	}

	return errs
}

// ValidateLocation checks the second step.
func (v *Validator) ValidateLocation(loc Location) []FieldError {
	var errs []FieldError

	required := []struct {
		field, value string
	}{
		{"zipcode", loc.Zipcode},
		{"province", loc.Province},
		{"city_municipality", loc.CityMunicipality},
		{"barangay", loc.Barangay},
		{"street_name", loc.StreetName},
		{"house_number", loc.HouseNumber},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, FieldError{Field: r.field, Message: "This field is required"})
		}
	}

	// 0/0 means the map pin was never placed
	if loc.Latitude == 0 || loc.Longitude == 0 {
		errs = append(errs, FieldError{Field: "location", Message: "Pin your business location on the map"})
	}

	return errs
}

// ValidateDocuments checks the third step: every required slot for the
// category must carry a file, and every attached file must pass the
// document upload policy. An empty requirement list with no attached files
// is trivially valid.
func (v *Validator) ValidateDocuments(docs Documents, category RegistrationCategory) []FieldError {
	var errs []FieldError

	for _, req := range ResolveDocumentRequirements(category) {
		if !req.Required {
			continue
		}
		if _, ok := docs[req.SlotKey]; !ok {
			errs = append(errs, FieldError{
				Field:   req.SlotKey,
				Message: req.Label + " is required",
			})
		}
	}

	for slot, candidate := range docs {
		if !KnownSlot(slot) {
			errs = append(errs, FieldError{Field: slot, Message: "Unknown document slot"})
			continue
		}
		if err := ValidateUpload(candidate, DocumentUploadPolicy); err != nil {
			errs = append(errs, FieldError{Field: slot, Message: err.Error(), Err: err})
		}
	}

	return errs
}

// ValidateOTP checks the verification code shape. Whether the code is
// actually correct is decided by the server.
func (v *Validator) ValidateOTP(code string) []FieldError {
	if !otpPattern.MatchString(code) {
		return []FieldError{{Field: "otp_code", Message: "Enter the 6-digit verification code"}}
	}
	return nil
}
