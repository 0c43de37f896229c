package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rapex-ph/onboarding-backend/internal/app/service"
	apperrors "github.com/rapex-ph/onboarding-backend/internal/errors"
	"github.com/rapex-ph/onboarding-backend/internal/middleware"
	"github.com/rapex-ph/onboarding-backend/internal/session"
	"github.com/rapex-ph/onboarding-backend/pkg/logger"
	"github.com/rapex-ph/onboarding-backend/pkg/onboarding"
)

type RegistrationController struct {
	registrationService service.RegistrationService
}

func NewRegistrationController(registrationService service.RegistrationService) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
	}
}

type SaveStepRequest struct {
	SessionID string          `json:"session_id"`
	Step      int             `json:"step" binding:"required"`
	Data      json.RawMessage `json:"data" binding:"required"`
}

type RequestOTPRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type CompleteRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	OTPCode   string `json:"otp_code" binding:"required"`
}

// wireStep converts the session's completed-step count into the 1-based
// step the applicant is currently on.
func wireStep(sess *session.Session) int {
	return sess.CurrentStep + 1
}

// SaveStep persists one wizard step.
// POST /api/v1/registration/step
func (ctrl *RegistrationController) SaveStep(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SaveStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid step request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	sess, err := ctrl.registrationService.SaveStep(c.Request.Context(), req.SessionID, req.Step, req.Data)
	if err != nil {
		ctrl.respondError(c, log, err, "save registration step")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":   sess.ID,
		"current_step": wireStep(sess),
	})
}

// UploadDocuments receives the registration documents as a multipart form.
// Each file part is named after its document slot.
// POST /api/v1/registration/documents
func (ctrl *RegistrationController) UploadDocuments(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		log.Warn("Invalid multipart form", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid multipart form")
		return
	}

	sessionID := c.PostForm("session_id")
	if sessionID == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "session_id is required")
		return
	}

	var files []service.DocumentFile
	var openers []interface{ Close() error }
	defer func() {
		for _, f := range openers {
			f.Close()
		}
	}()

	for slot, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		header := headers[0]

		file, err := header.Open()
		if err != nil {
			log.Error("Failed to open uploaded file", err, map[string]interface{}{
				"slot": slot,
			})
			apperrors.InternalError(c, "Could not read the uploaded file")
			return
		}
		openers = append(openers, file)

		files = append(files, service.DocumentFile{
			Slot:      slot,
			Filename:  header.Filename,
			MimeType:  header.Header.Get("Content-Type"),
			SizeBytes: header.Size,
			Content:   file,
		})
	}

	sess, err := ctrl.registrationService.UploadDocuments(c.Request.Context(), sessionID, files)
	if err != nil {
		ctrl.respondError(c, log, err, "upload registration documents")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"otp_sent":   sess.OTPSent,
	})
}

// RequestOTP issues or reissues the verification code.
// POST /api/v1/registration/otp
func (ctrl *RegistrationController) RequestOTP(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	sess, err := ctrl.registrationService.RequestOTP(c.Request.Context(), req.SessionID)
	if err != nil {
		ctrl.respondError(c, log, err, "request verification code")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"otp_sent":   sess.OTPSent,
	})
}

// Complete verifies the OTP code and finishes the registration.
// POST /api/v1/registration/complete
func (ctrl *RegistrationController) Complete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	result, err := ctrl.registrationService.Complete(c.Request.Context(), req.SessionID, req.OTPCode)
	if err != nil {
		ctrl.respondError(c, log, err, "complete registration")
		return
	}

	log.Info("Registration completed", map[string]interface{}{
		"merchant_id": result.Merchant.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"merchant_id":   result.Merchant.ID,
		"status":        result.Merchant.Status.String(),
		"access_token":  result.Tokens.AccessToken,
		"refresh_token": result.Tokens.RefreshToken,
	})
}

// Status reports the server-side view of a session.
// GET /api/v1/registration/status
func (ctrl *RegistrationController) Status(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID := c.Query("session_id")
	if sessionID == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "session_id is required")
		return
	}

	sess, err := ctrl.registrationService.Status(c.Request.Context(), sessionID)
	if err != nil {
		ctrl.respondError(c, log, err, "fetch registration status")
		return
	}

	uploadedSlots := make([]string, 0, len(sess.Documents))
	for slot := range sess.Documents {
		uploadedSlots = append(uploadedSlots, slot)
	}

	resp := gin.H{
		"session_id":   sess.ID,
		"current_step": wireStep(sess),
		"otp_sent":     sess.OTPSent,
	}
	if sess.General != nil {
		// The password never travels back to the client.
		general := *sess.General
		general.Password = ""
		general.ConfirmPassword = ""
		resp["general_info"] = general
	}
	if sess.Location != nil {
		resp["location"] = sess.Location
	}
	if len(uploadedSlots) > 0 {
		resp["uploaded_slots"] = uploadedSlots
	}

	c.JSON(http.StatusOK, resp)
}

type CheckUsernameRequest struct {
	Username string `json:"username" binding:"required"`
}

type CheckEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// CheckUsername answers a username availability probe.
// POST /api/v1/registration/check-username
func (ctrl *RegistrationController) CheckUsername(c *gin.Context) {
	var req CheckUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "username is required")
		return
	}

	available, err := ctrl.registrationService.CheckUsername(c.Request.Context(), req.Username)
	if err != nil {
		logger.Error("Username availability check failed", err, map[string]interface{}{
			"username": req.Username,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}

// CheckEmail answers an email availability probe.
// POST /api/v1/registration/check-email
func (ctrl *RegistrationController) CheckEmail(c *gin.Context) {
	var req CheckEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "email is required")
		return
	}

	available, err := ctrl.registrationService.CheckEmail(c.Request.Context(), req.Email)
	if err != nil {
		logger.Error("Email availability check failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}

// respondError maps the service errors onto the error envelope.
func (ctrl *RegistrationController) respondError(c *gin.Context, log *logger.Logger, err error, context string) {
	var vErr *service.ValidationFailedError
	if errors.As(err, &vErr) {
		log.Warn("Validation failed", map[string]interface{}{
			"fields": vErr.FieldMap(),
		})
		// Upload policy failures carry their own wire codes.
		switch cause := vErr.PolicyViolation(); {
		case errors.Is(cause, onboarding.ErrFileTooLarge):
			apperrors.RespondWithFields(c, http.StatusBadRequest, apperrors.UploadFileTooLarge,
				"File exceeds the 2 MB limit", vErr.FieldMap())
		case errors.Is(cause, onboarding.ErrInvalidFileType):
			apperrors.RespondWithFields(c, http.StatusBadRequest, apperrors.UploadInvalidFileType,
				"File must be a PDF, JPG or PNG", vErr.FieldMap())
		default:
			apperrors.RespondWithValidationError(c, vErr.FieldMap())
		}
		return
	}

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		apperrors.SessionNotFound(c)
	case errors.Is(err, service.ErrInvalidStep):
		apperrors.BadRequest(c, apperrors.RegInvalidStep, "Unknown registration step")
	case errors.Is(err, service.ErrStepNotReady):
		apperrors.BadRequest(c, apperrors.RegStepNotReady, "Complete the previous steps first")
	case errors.Is(err, service.ErrNoDocumentsAttached):
		apperrors.BadRequest(c, apperrors.RegNoDocumentsAttached, "Attach at least one document")
	case errors.Is(err, service.ErrOTPInvalid):
		apperrors.BadRequest(c, apperrors.OTPCodeInvalid, "Verification code is incorrect")
	case errors.Is(err, service.ErrOTPExpired):
		apperrors.BadRequest(c, apperrors.OTPCodeExpired, "Verification code has expired, request a new one")
	case errors.Is(err, service.ErrOTPNotIssued):
		apperrors.BadRequest(c, apperrors.OTPNotIssued, "Request a verification code first")
	case errors.Is(err, service.ErrOTPResendTooSoon):
		apperrors.RespondWithError(c, http.StatusTooManyRequests, apperrors.OTPResendTooSoon, "Please wait before requesting another code")
	case errors.Is(err, service.ErrUploadFailed):
		log.Error("Document storage failed", err, nil)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Upload failed, please try again later")
	default:
		log.Error("Registration request failed", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}
