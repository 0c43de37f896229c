package repository

import (
	"time"

	"github.com/rapex-ph/onboarding-backend/internal/app/model"
	"github.com/rapex-ph/onboarding-backend/pkg/logger"
	"gorm.io/gorm"
)

type MerchantRepository interface {
	Create(merchant *model.Merchant) error
	CreateWithDocuments(merchant *model.Merchant, documents []model.MerchantDocument) error
	FindByID(id uint) (*model.Merchant, error)
	FindByIDWithDocuments(id uint) (*model.Merchant, error)
	FindByUsername(username string) (*model.Merchant, error)
	FindByEmail(email string) (*model.Merchant, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	UpdateStatus(id uint, status model.MerchantStatus) error
	MarkVerified(id uint, verifiedAt time.Time) error
}

type merchantRepository struct {
	db *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) MerchantRepository {
	return &merchantRepository{db: db}
}

func (r *merchantRepository) Create(merchant *model.Merchant) error {
	logger.Debug("Creating merchant in database", map[string]interface{}{
		"username": merchant.Username,
		"email":    merchant.Email,
	})

	if err := r.db.Create(merchant).Error; err != nil {
		logger.Error("Failed to create merchant in database", err, map[string]interface{}{
			"username": merchant.Username,
		})
		return err
	}

	logger.Debug("Merchant created in database", map[string]interface{}{
		"merchant_id": merchant.ID,
		"username":    merchant.Username,
	})
	return nil
}

// CreateWithDocuments creates the merchant and its documents in one
// transaction. Either everything commits or nothing does.
func (r *merchantRepository) CreateWithDocuments(merchant *model.Merchant, documents []model.MerchantDocument) error {
	logger.Debug("Creating merchant with documents in database", map[string]interface{}{
		"username":       merchant.Username,
		"document_count": len(documents),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(merchant).Error; err != nil {
			return err
		}
		for i := range documents {
			documents[i].MerchantID = merchant.ID
			if err := tx.Create(&documents[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to create merchant with documents", err, map[string]interface{}{
			"username": merchant.Username,
		})
		return err
	}

	logger.Debug("Merchant with documents created in database", map[string]interface{}{
		"merchant_id":    merchant.ID,
		"document_count": len(documents),
	})
	return nil
}

func (r *merchantRepository) FindByID(id uint) (*model.Merchant, error) {
	var merchant model.Merchant
	err := r.db.First(&merchant, id).Error
	if err != nil {
		logger.Error("Failed to find merchant by ID in database", err, map[string]interface{}{
			"merchant_id": id,
		})
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepository) FindByIDWithDocuments(id uint) (*model.Merchant, error) {
	var merchant model.Merchant
	err := r.db.
		Preload("Documents").
		Preload("BusinessCategory").
		Preload("BusinessType").
		First(&merchant, id).Error
	if err != nil {
		logger.Error("Failed to find merchant with documents in database", err, map[string]interface{}{
			"merchant_id": id,
		})
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepository) FindByUsername(username string) (*model.Merchant, error) {
	var merchant model.Merchant
	err := r.db.Where("username = ?", username).First(&merchant).Error
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepository) FindByEmail(email string) (*model.Merchant, error) {
	var merchant model.Merchant
	err := r.db.Where("email = ?", email).First(&merchant).Error
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *merchantRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Merchant{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		logger.Error("Failed to check username existence", err, map[string]interface{}{
			"username": username,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *merchantRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Merchant{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		logger.Error("Failed to check email existence", err, map[string]interface{}{
			"email": email,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *merchantRepository) UpdateStatus(id uint, status model.MerchantStatus) error {
	logger.Debug("Updating merchant status", map[string]interface{}{
		"merchant_id": id,
		"status":      status.String(),
	})

	result := r.db.Model(&model.Merchant{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update merchant status", result.Error, map[string]interface{}{
			"merchant_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkVerified moves a merchant out of the unverified state once the OTP
// check passes. The merchant lands in pending review.
func (r *merchantRepository) MarkVerified(id uint, verifiedAt time.Time) error {
	result := r.db.Model(&model.Merchant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      model.StatusPending,
			"verified_at": verifiedAt,
		})
	if result.Error != nil {
		logger.Error("Failed to mark merchant verified", result.Error, map[string]interface{}{
			"merchant_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
