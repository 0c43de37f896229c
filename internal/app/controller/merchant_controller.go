package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rapex-ph/onboarding-backend/internal/app/service"
	apperrors "github.com/rapex-ph/onboarding-backend/internal/errors"
	"github.com/rapex-ph/onboarding-backend/internal/middleware"
)

type MerchantController struct {
	merchantService service.MerchantService
}

func NewMerchantController(merchantService service.MerchantService) *MerchantController {
	return &MerchantController{
		merchantService: merchantService,
	}
}

// GetProfile returns the authenticated merchant with its documents.
// GET /api/v1/merchant/me
func (ctrl *MerchantController) GetProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	merchantID, ok := middleware.GetMerchantID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	merchant, err := ctrl.merchantService.GetProfile(merchantID)
	if err != nil {
		log.Error("Failed to load merchant profile", err, map[string]interface{}{
			"merchant_id": merchantID,
		})
		apperrors.ParseAndRespond(c, http.StatusNotFound, err, "merchant profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"merchant": merchant})
}
