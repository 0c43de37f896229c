package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/rapex-ph/onboarding-backend/config"
	"github.com/rapex-ph/onboarding-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Seeds the business catalog. Without arguments the built-in Philippine
// catalog is inserted. With an XLSX path the catalog is imported from the
// file instead: one row per business type, columns CATEGORY | TYPE, first
// row is the header.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if len(os.Args) < 2 {
		fmt.Println("No XLSX file given, seeding the built-in business catalog")
		if err := db.Seed(); err != nil {
			log.Fatal("Failed to seed catalog:", err)
		}
		fmt.Println("Catalog seeded successfully!")
		return
	}

	filePath := os.Args[1]

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	catalog, err := readCatalogFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	total := 0
	for _, types := range catalog {
		total += len(types)
	}
	fmt.Printf("Categories to import: %d (%d business types)\n", len(catalog), total)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	if err := db.ImportBusinessCatalog(db.GetDB(), catalog); err != nil {
		log.Fatal("Failed to import catalog:", err)
	}

	fmt.Println("Import completed successfully!")
}

// readCatalogFromXLSX returns category name to ordered type names.
func readCatalogFromXLSX(filePath string) (map[string][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	catalog := make(map[string][]string)
	seen := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 2 {
			skippedCount++
			continue
		}

		category := strings.TrimSpace(row[0])
		businessType := strings.TrimSpace(row[1])
		if category == "" || businessType == "" {
			skippedCount++
			continue
		}

		key := category + "|" + businessType
		if seen[key] {
			skippedCount++
			continue
		}
		seen[key] = true

		catalog[category] = append(catalog[category], businessType)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return catalog, nil
}
