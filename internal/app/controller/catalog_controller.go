package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rapex-ph/onboarding-backend/internal/app/service"
	apperrors "github.com/rapex-ph/onboarding-backend/internal/errors"
	"github.com/rapex-ph/onboarding-backend/internal/middleware"
	"github.com/rapex-ph/onboarding-backend/pkg/onboarding"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// ListCategories returns the business categories for the wizard's pick list.
// GET /api/v1/catalog/categories
func (ctrl *CatalogController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.catalogService.ListCategories()
	if err != nil {
		log.Error("Failed to list business categories", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ListTypes returns the business types, optionally scoped to a category.
// GET /api/v1/catalog/types?category_id=1
func (ctrl *CatalogController) ListTypes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var categoryID uint
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "category_id must be a number")
			return
		}
		categoryID = uint(parsed)
	}

	types, err := ctrl.catalogService.ListTypes(categoryID)
	if err != nil {
		log.Error("Failed to list business types", err, map[string]interface{}{
			"category_id": categoryID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list types")
		return
	}

	c.JSON(http.StatusOK, gin.H{"types": types})
}

// DocumentRequirements returns the document slots for a registration
// category so the wizard can render the upload form.
// GET /api/v1/catalog/document-requirements?business_registration=1
func (ctrl *CatalogController) DocumentRequirements(c *gin.Context) {
	raw := c.Query("business_registration")
	if raw == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "business_registration is required")
		return
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "business_registration must be a number")
		return
	}

	requirements := ctrl.catalogService.DocumentRequirements(onboarding.RegistrationCategory(parsed))
	if requirements == nil {
		requirements = []onboarding.DocumentRequirement{}
	}

	c.JSON(http.StatusOK, gin.H{"requirements": requirements})
}
