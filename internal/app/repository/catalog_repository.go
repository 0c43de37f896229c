package repository

import (
	"github.com/rapex-ph/onboarding-backend/internal/app/model"
	"gorm.io/gorm"
)

type CatalogRepository interface {
	ListCategories() ([]model.BusinessCategory, error)
	ListTypes(categoryID uint) ([]model.BusinessType, error)
	FindCategoryByID(id uint) (*model.BusinessCategory, error)
	FindTypeByID(id uint) (*model.BusinessType, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListCategories() ([]model.BusinessCategory, error) {
	var categories []model.BusinessCategory
	err := r.db.Order("sort_order ASC, name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *catalogRepository) ListTypes(categoryID uint) ([]model.BusinessType, error) {
	var types []model.BusinessType
	query := r.db.Order("sort_order ASC, name ASC")
	if categoryID != 0 {
		query = query.Where("business_category_id = ?", categoryID)
	}
	err := query.Find(&types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

func (r *catalogRepository) FindCategoryByID(id uint) (*model.BusinessCategory, error) {
	var category model.BusinessCategory
	err := r.db.First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *catalogRepository) FindTypeByID(id uint) (*model.BusinessType, error) {
	var businessType model.BusinessType
	err := r.db.First(&businessType, id).Error
	if err != nil {
		return nil, err
	}
	return &businessType, nil
}
