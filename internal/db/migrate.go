package db

import (
	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/ikkim/kidsshop-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Category{},
		&model.Color{},
		&model.Size{},
		&model.Product{},
		&model.ProductVariant{},
		&model.ProductStock{},
		&model.Favorite{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := Seed(DB); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

var defaultSizes = []model.Size{
	{Name: "XS", DisplayOrder: 10},
	{Name: "S", DisplayOrder: 20},
	{Name: "M", DisplayOrder: 30},
	{Name: "L", DisplayOrder: 40},
	{Name: "XL", DisplayOrder: 50},
	{Name: "92", DisplayOrder: 100},
	{Name: "98", DisplayOrder: 110},
	{Name: "104", DisplayOrder: 120},
	{Name: "110", DisplayOrder: 130},
	{Name: "116", DisplayOrder: 140},
	{Name: "122", DisplayOrder: 150},
	{Name: "128", DisplayOrder: 160},
	{Name: "134", DisplayOrder: 170},
	{Name: "140", DisplayOrder: 180},
	{Name: "146", DisplayOrder: 190},
	{Name: "152", DisplayOrder: 200},
	{Name: "158", DisplayOrder: 210},
	{Name: "164", DisplayOrder: 220},
}

var defaultColors = []model.Color{
	{Name: "White", Code: "#FFFFFF"},
	{Name: "Black", Code: "#000000"},
	{Name: "Grey", Code: "#808080"},
	{Name: "Navy", Code: "#1F2A44"},
	{Name: "Red", Code: "#D32F2F"},
	{Name: "Pink", Code: "#F48FB1"},
	{Name: "Blue", Code: "#1976D2"},
	{Name: "Green", Code: "#388E3C"},
	{Name: "Beige", Code: "#D7C4A3"},
}

// Seed inserts the size and color dictionaries. Existing rows are left alone.
func Seed(db *gorm.DB) error {
	logger.Info("Seeding initial data...")

	sizes := append([]model.Size(nil), defaultSizes...)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sizes).Error; err != nil {
		logger.Error("Failed to seed sizes", err)
		return err
	}

	colors := append([]model.Color(nil), defaultColors...)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&colors).Error; err != nil {
		logger.Error("Failed to seed colors", err)
		return err
	}

	logger.Info("Initial data seeded successfully", map[string]interface{}{
		"sizes":  len(sizes),
		"colors": len(colors),
	})
	return nil
}
