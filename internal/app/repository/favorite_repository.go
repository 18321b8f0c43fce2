package repository

import (
	"context"

	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/ikkim/kidsshop-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository interface {
	FindByUserID(ctx context.Context, userID uint) ([]model.Favorite, error)
	// Add reports whether a new row was inserted
	Add(ctx context.Context, userID, productID uint) (bool, error)
	// Remove reports whether a row was deleted
	Remove(ctx context.Context, userID, productID uint) (bool, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) FindByUserID(ctx context.Context, userID uint) ([]model.Favorite, error) {
	logger.Debug("Finding favorites by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var favorites []model.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Product").
		Order("added_at DESC, id DESC").
		Find(&favorites).Error; err != nil {
		logger.Error("Failed to find favorites by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return favorites, nil
}

func (r *favoriteRepository) Add(ctx context.Context, userID, productID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Favorite{UserID: userID, ProductID: productID})
	if result.Error != nil {
		logger.Error("Failed to add favorite in database", result.Error, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, productID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.Favorite{})
	if result.Error != nil {
		logger.Error("Failed to remove favorite in database", result.Error, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
