package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ikkim/kidsshop-backend/config"
	"github.com/ikkim/kidsshop-backend/internal/app/repository"
	"github.com/ikkim/kidsshop-backend/internal/catalogimport"
	"github.com/ikkim/kidsshop-backend/internal/db"
	"github.com/ikkim/kidsshop-backend/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <catalog.xlsx> [-y]")
	}
	filePath := os.Args[1]
	assumeYes := len(os.Args) > 2 && os.Args[2] == "-y"

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Initialize(logger.Config{
		Level:  "info",
		Format: "console",
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Sizes and colors are seeded here, so sheet values reuse their display order.
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	defer file.Close()

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, skipped, err := catalogimport.ReadRows(file)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Stock rows to import: %d (skipped: %d)\n", len(rows), skipped)

	if !assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	database := db.GetDB()
	importer := catalogimport.NewImporter(
		repository.NewProductRepository(database),
		repository.NewCatalogRepository(database),
	)

	result, err := importer.Import(context.Background(), rows)
	if err != nil {
		log.Fatal("Import failed:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Products created: %d, stock units written: %d\n", result.ProductsCreated, result.StocksUpserted)
}
