package db

import (
	"github.com/rapex-ph/onboarding-backend/internal/app/model"
	"github.com/rapex-ph/onboarding-backend/pkg/logger"
	"gorm.io/gorm"
)

// SeedBusinessCatalog inserts the business categories and types offered in
// the registration wizard. Seeding is idempotent: an already populated
// catalog is left alone.
func SeedBusinessCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.BusinessCategory{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Business catalog already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding business catalog...")

	catalog := []struct {
		category model.BusinessCategory
		types    []string
	}{
		{
			category: model.BusinessCategory{Name: "Food & Beverage", SortOrder: 1},
			types:    []string{"Restaurant", "Carinderia", "Cafe", "Bakery", "Food Stall"},
		},
		{
			category: model.BusinessCategory{Name: "Retail", SortOrder: 2},
			types:    []string{"Sari-Sari Store", "Grocery", "Clothing & Apparel", "Hardware", "Pharmacy"},
		},
		{
			category: model.BusinessCategory{Name: "Services", SortOrder: 3},
			types:    []string{"Salon & Barbershop", "Laundry", "Repair Shop", "Water Refilling Station", "Internet Cafe"},
		},
		{
			category: model.BusinessCategory{Name: "Agriculture", SortOrder: 4},
			types:    []string{"Farm Produce", "Livestock & Poultry", "Fishery"},
		},
		{
			category: model.BusinessCategory{Name: "Transport & Logistics", SortOrder: 5},
			types:    []string{"Tricycle & Jeepney Operator", "Delivery Service", "Courier"},
		},
	}

	totalCategories := 0
	totalTypes := 0
	for _, entry := range catalog {
		category := entry.category
		if err := db.Create(&category).Error; err != nil {
			logger.Error("Failed to create business category", err, map[string]interface{}{
				"category": category.Name,
			})
			return err
		}
		totalCategories++

		for i, typeName := range entry.types {
			businessType := model.BusinessType{
				BusinessCategoryID: category.ID,
				Name:               typeName,
				SortOrder:          i + 1,
			}
			if err := db.Create(&businessType).Error; err != nil {
				logger.Error("Failed to create business type", err, map[string]interface{}{
					"category": category.Name,
					"type":     typeName,
				})
				return err
			}
			totalTypes++
		}
	}

	logger.Info("Business catalog seeded successfully", map[string]interface{}{
		"categories": totalCategories,
		"types":      totalTypes,
	})
	return nil
}

// ImportBusinessCatalog upserts an externally supplied catalog, keyed by
// category name. Existing categories and types are reused, so re-running an
// import does not duplicate rows.
func ImportBusinessCatalog(db *gorm.DB, catalog map[string][]string) error {
	sortOrder := 0
	for categoryName, typeNames := range catalog {
		sortOrder++

		var category model.BusinessCategory
		err := db.Where(model.BusinessCategory{Name: categoryName}).
			Attrs(model.BusinessCategory{SortOrder: sortOrder}).
			FirstOrCreate(&category).Error
		if err != nil {
			logger.Error("Failed to upsert business category", err, map[string]interface{}{
				"category": categoryName,
			})
			return err
		}

		for i, typeName := range typeNames {
			businessType := model.BusinessType{
				BusinessCategoryID: category.ID,
				Name:               typeName,
			}
			err := db.Where(businessType).
				Attrs(model.BusinessType{SortOrder: i + 1}).
				FirstOrCreate(&businessType).Error
			if err != nil {
				logger.Error("Failed to upsert business type", err, map[string]interface{}{
					"category": categoryName,
					"type":     typeName,
				})
				return err
			}
		}
	}

	logger.Info("Business catalog imported", map[string]interface{}{
		"categories": len(catalog),
	})
	return nil
}
