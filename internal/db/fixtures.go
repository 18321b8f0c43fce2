package db

import (
	"fmt"

	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateTestUser inserts a user with a placeholder password hash
func CreateTestUser(db *gorm.DB, email string) (*model.User, error) {
	user := &model.User{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}
	return user, nil
}

// CreateTestStock inserts a product with one variant and one stock unit.
// salePrice may be empty. The returned unit has Variant.Product loaded.
func CreateTestStock(db *gorm.DB, article, price, salePrice string, quantity int) (*model.ProductStock, error) {
	color := model.Color{Name: "Test Color", Code: "#000000"}
	if err := db.Where(model.Color{Name: color.Name}).FirstOrCreate(&color).Error; err != nil {
		return nil, fmt.Errorf("failed to create test color: %w", err)
	}
	size := model.Size{Name: "M", DisplayOrder: 30}
	if err := db.Where(model.Size{Name: size.Name}).FirstOrCreate(&size).Error; err != nil {
		return nil, fmt.Errorf("failed to create test size: %w", err)
	}

	product := model.Product{
		Title:       "Product " + article,
		Slug:        "product-" + article,
		Article:     article,
		Price:       decimal.RequireFromString(price),
		IsAvailable: true,
	}
	if salePrice != "" {
		product.SalePrice = decimal.NewNullDecimal(decimal.RequireFromString(salePrice))
	}
	if err := db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create test product: %w", err)
	}

	variant := model.ProductVariant{ProductID: product.ID, ColorID: color.ID, IsDefault: true}
	if err := db.Create(&variant).Error; err != nil {
		return nil, fmt.Errorf("failed to create test variant: %w", err)
	}

	stock := model.ProductStock{VariantID: variant.ID, SizeID: size.ID, Quantity: quantity}
	if err := db.Create(&stock).Error; err != nil {
		return nil, fmt.Errorf("failed to create test stock: %w", err)
	}

	variant.Product = product
	variant.Color = color
	stock.Variant = variant
	stock.Size = size
	return &stock, nil
}
