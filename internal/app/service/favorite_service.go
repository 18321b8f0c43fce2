package service

import (
	"context"

	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/ikkim/kidsshop-backend/internal/app/repository"
	"github.com/ikkim/kidsshop-backend/pkg/logger"
)

type FavoriteService interface {
	ListFavorites(ctx context.Context, userID uint) ([]model.Favorite, error)
	// Toggle adds the product to favorites, or removes it when already there.
	// It reports whether the product is a favorite afterwards.
	Toggle(ctx context.Context, userID, productID uint) (bool, error)
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	catalog      CatalogService
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, catalog CatalogService) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		catalog:      catalog,
	}
}

func (s *favoriteService) ListFavorites(ctx context.Context, userID uint) ([]model.Favorite, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}

	favorites, err := s.favoriteRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, storageFailure(err)
	}
	return favorites, nil
}

func (s *favoriteService) Toggle(ctx context.Context, userID, productID uint) (bool, error) {
	if userID == 0 {
		return false, ErrUnauthorized
	}

	removed, err := s.favoriteRepo.Remove(ctx, userID, productID)
	if err != nil {
		return false, storageFailure(err)
	}
	if removed {
		logger.Info("Product removed from favorites", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return false, nil
	}

	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return false, err
	}
	if _, err := s.favoriteRepo.Add(ctx, userID, productID); err != nil {
		return false, storageFailure(err)
	}

	logger.Info("Product added to favorites", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return true, nil
}
