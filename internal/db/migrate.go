package db

import (
	"github.com/rapex-ph/onboarding-backend/internal/app/model"
	"github.com/rapex-ph/onboarding-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.BusinessCategory{},
		&model.BusinessType{},
		&model.Merchant{},
		&model.MerchantDocument{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := SeedBusinessCatalog(DB); err != nil {
		logger.Error("Failed to seed business catalog", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}
