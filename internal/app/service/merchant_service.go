package service

import (
	"github.com/rapex-ph/onboarding-backend/internal/app/model"
	"github.com/rapex-ph/onboarding-backend/internal/app/repository"
)

// MerchantService serves the authenticated merchant surface.
type MerchantService interface {
	GetProfile(id uint) (*model.Merchant, error)
}

type merchantService struct {
	merchantRepo repository.MerchantRepository
}

func NewMerchantService(merchantRepo repository.MerchantRepository) MerchantService {
	return &merchantService{merchantRepo: merchantRepo}
}

func (s *merchantService) GetProfile(id uint) (*model.Merchant, error) {
	return s.merchantRepo.FindByIDWithDocuments(id)
}
