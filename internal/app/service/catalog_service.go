package service

import (
	"github.com/rapex-ph/onboarding-backend/internal/app/model"
	"github.com/rapex-ph/onboarding-backend/internal/app/repository"
	"github.com/rapex-ph/onboarding-backend/pkg/onboarding"
)

// CatalogService serves the wizard's pick lists: business categories,
// their types, and the per-category document requirements.
type CatalogService interface {
	ListCategories() ([]model.BusinessCategory, error)
	ListTypes(categoryID uint) ([]model.BusinessType, error)
	DocumentRequirements(category onboarding.RegistrationCategory) []onboarding.DocumentRequirement
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
}

func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo}
}

func (s *catalogService) ListCategories() ([]model.BusinessCategory, error) {
	return s.catalogRepo.ListCategories()
}

func (s *catalogService) ListTypes(categoryID uint) ([]model.BusinessType, error) {
	return s.catalogRepo.ListTypes(categoryID)
}

func (s *catalogService) DocumentRequirements(category onboarding.RegistrationCategory) []onboarding.DocumentRequirement {
	return onboarding.ResolveDocumentRequirements(category)
}
