package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rapex-ph/onboarding-backend/config"
	"github.com/rapex-ph/onboarding-backend/internal/app/model"
	"github.com/rapex-ph/onboarding-backend/internal/app/repository"
	"github.com/rapex-ph/onboarding-backend/internal/session"
	"github.com/rapex-ph/onboarding-backend/internal/storage"
	"github.com/rapex-ph/onboarding-backend/pkg/logger"
	"github.com/rapex-ph/onboarding-backend/pkg/onboarding"
	"github.com/rapex-ph/onboarding-backend/pkg/util"
)

// Wire step numbers. The API counts steps from 1.
const (
	WireStepGeneralInfo = 1
	WireStepLocation    = 2
)

var (
	ErrSessionNotFound     = session.ErrNotFound
	ErrInvalidStep         = errors.New("invalid registration step")
	ErrStepNotReady        = errors.New("a previous step has not been completed")
	ErrNoDocumentsAttached = errors.New("no documents attached")
	ErrUploadFailed        = errors.New("failed to store document")
	ErrOTPNotIssued        = errors.New("no verification code has been issued")
	ErrOTPExpired          = errors.New("verification code has expired")
	ErrOTPInvalid          = errors.New("verification code is incorrect")
	ErrOTPResendTooSoon    = errors.New("verification code was requested too recently")
)

// ValidationFailedError carries per-field messages for a rejected payload.
type ValidationFailedError struct {
	Fields []onboarding.FieldError
}

func (e *ValidationFailedError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// FieldMap converts the field errors into the response envelope shape.
func (e *ValidationFailedError) FieldMap() map[string]string {
	fields := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := fields[f.Field]; !ok {
			fields[f.Field] = f.Message
		}
	}
	return fields
}

// PolicyViolation returns the first upload policy sentinel carried by the
// field errors, or nil when the failure is plain field validation.
func (e *ValidationFailedError) PolicyViolation() error {
	for _, f := range e.Fields {
		if f.Err != nil {
			return f.Err
		}
	}
	return nil
}

// DocumentFile is one uploaded document as received by the API.
type DocumentFile struct {
	Slot      string
	Filename  string
	MimeType  string
	SizeBytes int64
	Content   io.Reader
}

// CompletionResult is the outcome of a successful registration.
type CompletionResult struct {
	Merchant *model.Merchant
	Tokens   *util.TokenPair
}

type RegistrationService interface {
	SaveStep(ctx context.Context, sessionID string, step int, data json.RawMessage) (*session.Session, error)
	UploadDocuments(ctx context.Context, sessionID string, files []DocumentFile) (*session.Session, error)
	RequestOTP(ctx context.Context, sessionID string) (*session.Session, error)
	Complete(ctx context.Context, sessionID, otpCode string) (*CompletionResult, error)
	Status(ctx context.Context, sessionID string) (*session.Session, error)
	CheckUsername(ctx context.Context, username string) (bool, error)
	CheckEmail(ctx context.Context, email string) (bool, error)
}

// RegistrationConfig carries the knobs the registration flow needs.
type RegistrationConfig struct {
	JWTSecret      string
	AccessExpiry   time.Duration
	RefreshExpiry  time.Duration
	OTPResendFloor time.Duration
	SMTP           config.SMTPConfig
}

type registrationService struct {
	merchantRepo repository.MerchantRepository
	catalogRepo  repository.CatalogRepository
	sessions     session.Store
	documents    storage.DocumentStorage
	validator    *onboarding.Validator
	cfg          RegistrationConfig
}

func NewRegistrationService(
	merchantRepo repository.MerchantRepository,
	catalogRepo repository.CatalogRepository,
	sessions session.Store,
	documents storage.DocumentStorage,
	cfg RegistrationConfig,
) RegistrationService {
	svc := &registrationService{
		merchantRepo: merchantRepo,
		catalogRepo:  catalogRepo,
		sessions:     sessions,
		documents:    documents,
		cfg:          cfg,
	}
	svc.validator = onboarding.NewValidator(&repoAvailabilityChecker{repo: merchantRepo})
	return svc
}

// repoAvailabilityChecker answers uniqueness checks from the merchants table.
type repoAvailabilityChecker struct {
	repo repository.MerchantRepository
}

func (c *repoAvailabilityChecker) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	exists, err := c.repo.ExistsByUsername(username)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (c *repoAvailabilityChecker) EmailAvailable(ctx context.Context, email string) (bool, error) {
	exists, err := c.repo.ExistsByEmail(email)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// SaveStep validates and persists one wizard step. An empty session ID on
// the first step mints a new session; every other call requires one.
func (s *registrationService) SaveStep(ctx context.Context, sessionID string, step int, data json.RawMessage) (*session.Session, error) {
	switch step {
	case WireStepGeneralInfo:
		return s.saveGeneralInfo(ctx, sessionID, data)
	case WireStepLocation:
		return s.saveLocation(ctx, sessionID, data)
	default:
		return nil, ErrInvalidStep
	}
}

func (s *registrationService) saveGeneralInfo(ctx context.Context, sessionID string, data json.RawMessage) (*session.Session, error) {
	var info onboarding.GeneralInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStep, err)
	}

	if errs := s.validator.ValidateGeneralInfo(ctx, info); len(errs) > 0 {
		return nil, &ValidationFailedError{Fields: errs}
	}
	if errs := s.validateCatalogRefs(info); len(errs) > 0 {
		return nil, &ValidationFailedError{Fields: errs}
	}

	if sessionID == "" {
		sess := &session.Session{
			CurrentStep: 1,
			General:     &info,
		}
		if err := s.sessions.Create(ctx, sess); err != nil {
			return nil, err
		}
		logger.Info("Registration session started", map[string]interface{}{
			"session_id": sess.ID,
			"username":   info.Username,
			"category":   info.RegistrationCategory.String(),
		})
		return sess, nil
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.General = &info
	if sess.CurrentStep < 1 {
		sess.CurrentStep = 1
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// validateCatalogRefs checks the declared category and type against the
// catalog. A type must belong to the chosen category.
func (s *registrationService) validateCatalogRefs(info onboarding.GeneralInfo) []onboarding.FieldError {
	if s.catalogRepo == nil {
		return nil
	}

	var errs []onboarding.FieldError
	if _, err := s.catalogRepo.FindCategoryByID(info.BusinessCategoryID); err != nil {
		errs = append(errs, onboarding.FieldError{Field: "business_category_id", Message: "Business category not found"})
	}

	businessType, err := s.catalogRepo.FindTypeByID(info.BusinessTypeID)
	if err != nil {
		errs = append(errs, onboarding.FieldError{Field: "business_type_id", Message: "Business type not found"})
	} else if businessType.BusinessCategoryID != info.BusinessCategoryID {
		errs = append(errs, onboarding.FieldError{Field: "business_type_id", Message: "Business type does not belong to the chosen category"})
	}
	return errs
}

func (s *registrationService) saveLocation(ctx context.Context, sessionID string, data json.RawMessage) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.General == nil {
		return nil, ErrStepNotReady
	}

	var loc onboarding.Location
	if err := json.Unmarshal(data, &loc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStep, err)
	}

	if errs := s.validator.ValidateLocation(loc); len(errs) > 0 {
		return nil, &ValidationFailedError{Fields: errs}
	}

	sess.Location = &loc
	if sess.CurrentStep < 2 {
		sess.CurrentStep = 2
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// UploadDocuments stages the uploaded files and issues the verification
// code. An empty upload is rejected; applicants with nothing to upload go
// through RequestOTP instead.
func (s *registrationService) UploadDocuments(ctx context.Context, sessionID string, files []DocumentFile) (*session.Session, error) {
	if len(files) == 0 {
		return nil, ErrNoDocumentsAttached
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.General == nil || sess.Location == nil {
		return nil, ErrStepNotReady
	}

	candidates := make(onboarding.Documents, len(files))
	for _, f := range files {
		candidates[f.Slot] = onboarding.UploadCandidate{
			Filename:  f.Filename,
			MimeType:  f.MimeType,
			SizeBytes: f.SizeBytes,
		}
	}
	if errs := s.validator.ValidateDocuments(candidates, sess.Category()); len(errs) > 0 {
		return nil, &ValidationFailedError{Fields: errs}
	}

	if sess.Documents == nil {
		sess.Documents = make(map[string]session.StagedDocument)
	}
	for _, f := range files {
		obj, err := s.documents.PutStaged(ctx, sess.ID, f.Slot, f.Filename, f.MimeType, f.Content)
		if err != nil {
			logger.Error("Failed to stage document", err, map[string]interface{}{
				"session_id": sess.ID,
				"slot":       f.Slot,
			})
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}

		// Replacing a slot discards the previously staged file.
		if prev, ok := sess.Documents[f.Slot]; ok {
			if err := s.documents.Delete(ctx, prev.ObjectKey); err != nil {
				logger.Warn("Failed to delete replaced staged document", map[string]interface{}{
					"session_id": sess.ID,
					"key":        prev.ObjectKey,
					"error":      err.Error(),
				})
			}
		}

		sess.Documents[f.Slot] = session.StagedDocument{
			ObjectKey:        obj.Key,
			URL:              obj.URL,
			OriginalFilename: f.Filename,
			MimeType:         f.MimeType,
			SizeBytes:        f.SizeBytes,
		}
	}

	if sess.CurrentStep < 3 {
		sess.CurrentStep = 3
	}

	if err := s.issueOTP(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	logger.Info("Registration documents staged", map[string]interface{}{
		"session_id": sess.ID,
		"slots":      len(sess.Documents),
	})
	return sess, nil
}

// RequestOTP issues or reissues the verification code. Reissuing
// invalidates any previous code. A resend inside the cooldown window is
// rejected.
func (s *registrationService) RequestOTP(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.General == nil || sess.Location == nil {
		return nil, ErrStepNotReady
	}

	// Applicants with mandatory documents must upload them first.
	required := onboarding.RequiredSlots(sess.Category())
	for _, slot := range required {
		if _, ok := sess.Documents[slot]; !ok {
			return nil, ErrStepNotReady
		}
	}

	if record, err := s.sessions.GetOTP(ctx, sessionID); err == nil {
		if time.Since(record.IssuedAt) < s.cfg.OTPResendFloor {
			return nil, ErrOTPResendTooSoon
		}
	}

	if sess.CurrentStep < 3 {
		sess.CurrentStep = 3
	}
	if err := s.issueOTP(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *registrationService) issueOTP(ctx context.Context, sess *session.Session) error {
	code, err := util.GenerateVerificationCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	hash, err := util.HashPassword(code)
	if err != nil {
		return fmt.Errorf("failed to hash verification code: %w", err)
	}

	record := &session.OTPRecord{
		Hash:     hash,
		IssuedAt: time.Now().UTC(),
	}
	if err := s.sessions.SetOTP(ctx, sess.ID, record); err != nil {
		return err
	}

	if err := util.SendVerificationEmail(s.cfg.SMTP, sess.General.Email, sess.General.OwnerName, code); err != nil {
		logger.Error("Failed to send verification email", err, map[string]interface{}{
			"session_id": sess.ID,
		})
		return err
	}

	sess.OTPSent = true
	logger.Info("Verification code issued", map[string]interface{}{
		"session_id": sess.ID,
	})
	return nil
}

// Complete verifies the code and commits the registration: the merchant
// and its documents are written in one transaction, the staged files are
// promoted, and the session is destroyed. A session is single-use; a second
// Complete finds nothing.
func (s *registrationService) Complete(ctx context.Context, sessionID, otpCode string) (*CompletionResult, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.General == nil || sess.Location == nil {
		return nil, ErrStepNotReady
	}

	if errs := s.validator.ValidateOTP(otpCode); len(errs) > 0 {
		return nil, ErrOTPInvalid
	}

	record, err := s.sessions.GetOTP(ctx, sessionID)
	if errors.Is(err, session.ErrOTPNotFound) {
		if sess.OTPSent {
			return nil, ErrOTPExpired
		}
		return nil, ErrOTPNotIssued
	}
	if err != nil {
		return nil, err
	}
	if !util.VerifyPassword(record.Hash, otpCode) {
		return nil, ErrOTPInvalid
	}

	// Required documents must still be in place.
	for _, slot := range onboarding.RequiredSlots(sess.Category()) {
		if _, ok := sess.Documents[slot]; !ok {
			return nil, ErrStepNotReady
		}
	}

	hashedPassword, err := util.HashPassword(sess.General.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	merchant := &model.Merchant{
		BusinessName:         sess.General.BusinessName,
		OwnerName:            sess.General.OwnerName,
		Username:             sess.General.Username,
		Email:                sess.General.Email,
		PasswordHash:         hashedPassword,
		Phone:                sess.General.Phone,
		BusinessCategoryID:   sess.General.BusinessCategoryID,
		BusinessTypeID:       sess.General.BusinessTypeID,
		BusinessRegistration: model.BusinessRegistration(sess.General.RegistrationCategory),
		Status:               model.StatusUnverified,
		Zipcode:              sess.Location.Zipcode,
		Province:             sess.Location.Province,
		CityMunicipality:     sess.Location.CityMunicipality,
		Barangay:             sess.Location.Barangay,
		StreetName:           sess.Location.StreetName,
		HouseNumber:          sess.Location.HouseNumber,
		Latitude:             sess.Location.Latitude,
		Longitude:            sess.Location.Longitude,
	}

	documents := make([]model.MerchantDocument, 0, len(sess.Documents))
	for slot, staged := range sess.Documents {
		documents = append(documents, model.MerchantDocument{
			SlotKey:          slot,
			FileURL:          staged.URL,
			OriginalFilename: staged.OriginalFilename,
			MimeType:         staged.MimeType,
			SizeBytes:        staged.SizeBytes,
		})
	}

	if err := s.merchantRepo.CreateWithDocuments(merchant, documents); err != nil {
		return nil, err
	}

	// Move staged files to the merchant's permanent prefix. A promote
	// failure is logged but does not undo the committed registration; the
	// staged copy keeps serving the stored URL until the sweep.
	for slot, staged := range sess.Documents {
		if _, err := s.documents.Promote(ctx, staged.ObjectKey, merchant.ID); err != nil {
			logger.Warn("Failed to promote staged document", map[string]interface{}{
				"merchant_id": merchant.ID,
				"slot":        slot,
				"error":       err.Error(),
			})
		}
	}

	if err := s.merchantRepo.MarkVerified(merchant.ID, now); err != nil {
		return nil, err
	}
	merchant.Status = model.StatusPending
	merchant.VerifiedAt = &now

	tokens, err := util.GenerateTokenPair(
		merchant.ID,
		merchant.Email,
		"merchant",
		s.cfg.JWTSecret,
		s.cfg.AccessExpiry,
		s.cfg.RefreshExpiry,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		logger.Warn("Failed to delete completed session", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	logger.Info("Merchant registration completed", map[string]interface{}{
		"merchant_id": merchant.ID,
		"username":    merchant.Username,
		"status":      merchant.Status.String(),
	})

	return &CompletionResult{Merchant: merchant, Tokens: tokens}, nil
}

func (s *registrationService) Status(ctx context.Context, sessionID string) (*session.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

func (s *registrationService) CheckUsername(ctx context.Context, username string) (bool, error) {
	exists, err := s.merchantRepo.ExistsByUsername(username)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (s *registrationService) CheckEmail(ctx context.Context, email string) (bool, error) {
	exists, err := s.merchantRepo.ExistsByEmail(email)
	if err != nil {
		return false, err
	}
	return !exists, nil
}
