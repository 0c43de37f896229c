package db

import (
	"testing"

	"github.com/rapex-ph/onboarding-backend/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.BusinessCategory{},
		&model.BusinessType{},
		&model.Merchant{},
		&model.MerchantDocument{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// SeedTestCatalog inserts a minimal business catalog and returns the first
// category and type IDs.
func SeedTestCatalog(t *testing.T, db *gorm.DB) (categoryID, typeID uint) {
	t.Helper()

	category := model.BusinessCategory{Name: "Retail", SortOrder: 1}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to seed test category: %v", err)
	}

	businessType := model.BusinessType{
		BusinessCategoryID: category.ID,
		Name:               "Sari-Sari Store",
		SortOrder:          1,
	}
	if err := db.Create(&businessType).Error; err != nil {
		t.Fatalf("failed to seed test type: %v", err)
	}

	return category.ID, businessType.ID
}
