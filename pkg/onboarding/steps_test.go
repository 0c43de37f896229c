package onboarding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubChecker is a canned AvailabilityChecker for validator tests.
type stubChecker struct {
	usernameFree bool
	emailFree    bool
	err          error
}

func (s *stubChecker) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	return s.usernameFree, s.err
}

func (s *stubChecker) EmailAvailable(ctx context.Context, email string) (bool, error) {
	return s.emailFree, s.err
}

func validGeneralInfo() GeneralInfo {
	return GeneralInfo{
		BusinessName:         "Aling Nena's Sari-Sari Store",
		OwnerName:            "Nena Dela Cruz",
		Username:             "alingnena",
		Email:                "nena@example.com",
		Password:             "Str0ng!Pass",
		ConfirmPassword:      "Str0ng!Pass",
		Phone:                "+639171234567",
		BusinessCategoryID:   1,
		BusinessTypeID:       2,
		RegistrationCategory: CategoryUnregistered,
	}
}

func fieldsOf(errs []FieldError) []string {
	var fields []string
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestValidateGeneralInfo(t *testing.T) {
	checker := &stubChecker{usernameFree: true, emailFree: true}
	v := NewValidator(checker)

	tests := []struct {
		name       string
		mutate     func(*GeneralInfo)
		wantFields []string
	}{
		{
			name:   "valid info passes",
			mutate: func(i *GeneralInfo) {},
		},
		{
			name: "missing required fields reported together",
			mutate: func(i *GeneralInfo) {
				i.BusinessName = ""
				i.Phone = "   "
				i.BusinessTypeID = 0
			},
			wantFields: []string{"business_name", "phone", "business_type_id"},
		},
		{
			name:       "phone without country code",
			mutate:     func(i *GeneralInfo) { i.Phone = "09171234567" },
			wantFields: []string{"phone"},
		},
		{
			name:       "phone with wrong subscriber length",
			mutate:     func(i *GeneralInfo) { i.Phone = "+63917123456" },
			wantFields: []string{"phone"},
		},
		{
			name:       "phone with landline prefix",
			mutate:     func(i *GeneralInfo) { i.Phone = "+632123456789" },
			wantFields: []string{"phone"},
		},
		{
			name:       "malformed email",
			mutate:     func(i *GeneralInfo) { i.Email = "not-an-email" },
			wantFields: []string{"email"},
		},
		{
			name: "weak password",
			mutate: func(i *GeneralInfo) {
				i.Password = "alllowercase1!"
				i.ConfirmPassword = "alllowercase1!"
			},
			wantFields: []string{"password"},
		},
		{
			name:       "password mismatch",
			mutate:     func(i *GeneralInfo) { i.ConfirmPassword = "Str0ng!Pass2" },
			wantFields: []string{"confirm_password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := validGeneralInfo()
			tt.mutate(&info)

			errs := v.ValidateGeneralInfo(context.Background(), info)
			assert.Equal(t, tt.wantFields, fieldsOf(errs))
		})
	}
}

func TestValidateGeneralInfoUniqueness(t *testing.T) {
	t.Run("taken username and email both reported", func(t *testing.T) {
		v := NewValidator(&stubChecker{usernameFree: false, emailFree: false})
		errs := v.ValidateGeneralInfo(context.Background(), validGeneralInfo())

		assert.Equal(t, []string{"username", "email"}, fieldsOf(errs))
		assert.Equal(t, "Username already exists", errs[0].Message)
		assert.Equal(t, "Email already exists", errs[1].Message)
	})

	t.Run("checker failure blocks the step", func(t *testing.T) {
		v := NewValidator(&stubChecker{err: errors.New("connection refused")})
		errs := v.ValidateGeneralInfo(context.Background(), validGeneralInfo())

		assert.Equal(t, []string{"username", "email"}, fieldsOf(errs))
		assert.Contains(t, errs[0].Message, "Could not verify")
	})

	t.Run("uniqueness skipped while local errors remain", func(t *testing.T) {
		checker := &stubChecker{err: errors.New("must not be called")}
		v := NewValidator(checker)

		info := validGeneralInfo()
		info.Phone = "invalid"
		errs := v.ValidateGeneralInfo(context.Background(), info)

		assert.Equal(t, []string{"phone"}, fieldsOf(errs))
	})
}

func TestValidateLocation(t *testing.T) {
	v := NewValidator(nil)

	valid := Location{
		Zipcode:          "1000",
		Province:         "Metro Manila",
		CityMunicipality: "Manila",
		Barangay:         "Barangay 659",
		StreetName:       "Taft Avenue",
		HouseNumber:      "123",
		Latitude:         14.5995,
		Longitude:        120.9842,
	}

	t.Run("valid location passes", func(t *testing.T) {
		assert.Empty(t, v.ValidateLocation(valid))
	})

	t.Run("missing address fields", func(t *testing.T) {
		loc := valid
		loc.Province = ""
		loc.Barangay = ""
		assert.Equal(t, []string{"province", "barangay"}, fieldsOf(v.ValidateLocation(loc)))
	})

	t.Run("unpinned map coordinates rejected", func(t *testing.T) {
		loc := valid
		loc.Latitude = 0
		loc.Longitude = 0
		assert.Equal(t, []string{"location"}, fieldsOf(v.ValidateLocation(loc)))
	})

	t.Run("single zero axis still rejected", func(t *testing.T) {
		loc := valid
		loc.Longitude = 0
		assert.Equal(t, []string{"location"}, fieldsOf(v.ValidateLocation(loc)))
	})
}

func TestValidateDocuments(t *testing.T) {
	v := NewValidator(nil)

	pdf := UploadCandidate{Filename: "doc.pdf", MimeType: "application/pdf", SizeBytes: 1024}

	t.Run("unregistered with no files is valid", func(t *testing.T) {
		assert.Empty(t, v.ValidateDocuments(Documents{}, CategoryUnregistered))
	})

	t.Run("vat registered requires all three", func(t *testing.T) {
		docs := Documents{SlotCertificateOfRegistration: pdf}
		errs := v.ValidateDocuments(docs, CategoryVATRegistered)
		assert.Equal(t, []string{SlotDTISECCertificate, SlotBusinessPermit}, fieldsOf(errs))
	})

	t.Run("non-vat optional slots may be omitted", func(t *testing.T) {
		docs := Documents{
			SlotBarangayPermit:    pdf,
			SlotDTISECCertificate: pdf,
		}
		assert.Empty(t, v.ValidateDocuments(docs, CategoryNonVATRegistered))
	})

	t.Run("oversized file reported on its slot", func(t *testing.T) {
		docs := Documents{
			SlotBarangayPermit:    {Filename: "big.pdf", MimeType: "application/pdf", SizeBytes: MaxDocumentSizeBytes + 1},
			SlotDTISECCertificate: pdf,
		}
		errs := v.ValidateDocuments(docs, CategoryNonVATRegistered)
		assert.Equal(t, []string{SlotBarangayPermit}, fieldsOf(errs))
		assert.ErrorIs(t, errs[0].Err, ErrFileTooLarge)
	})

	t.Run("wrong file type carries its sentinel", func(t *testing.T) {
		docs := Documents{
			SlotBarangayPermit:    {Filename: "permit.docx", MimeType: "application/msword", SizeBytes: 1024},
			SlotDTISECCertificate: pdf,
		}
		errs := v.ValidateDocuments(docs, CategoryNonVATRegistered)
		assert.Equal(t, []string{SlotBarangayPermit}, fieldsOf(errs))
		assert.ErrorIs(t, errs[0].Err, ErrInvalidFileType)
	})

	t.Run("unknown slot rejected", func(t *testing.T) {
		docs := Documents{"selfie_with_id": pdf}
		errs := v.ValidateDocuments(docs, CategoryUnregistered)
		assert.Equal(t, []string{"selfie_with_id"}, fieldsOf(errs))
	})
}

func TestValidateOTP(t *testing.T) {
	v := NewValidator(nil)

	assert.Empty(t, v.ValidateOTP("123456"))
	assert.NotEmpty(t, v.ValidateOTP("12345"))
	assert.NotEmpty(t, v.ValidateOTP("1234567"))
	assert.NotEmpty(t, v.ValidateOTP("12345a"))
	assert.NotEmpty(t, v.ValidateOTP(""))
}
