package service

import (
	"context"
	"errors"

	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/ikkim/kidsshop-backend/internal/app/repository"
	"github.com/ikkim/kidsshop-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ProductQuery is the catalog listing request. CategorySlug is resolved to an id.
type ProductQuery struct {
	repository.ProductFilter
	CategorySlug string
}

type ProductPage struct {
	Products []model.Product
	Total    int64
	Limit    int
	Offset   int
}

type CatalogService interface {
	ListProducts(ctx context.Context, query ProductQuery) (*ProductPage, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	GetProductVariants(ctx context.Context, productID uint) ([]model.ProductVariant, error)
	ListCategories(ctx context.Context, gender *model.Gender) ([]model.Category, error)
	ListColors(ctx context.Context) ([]model.Color, error)
	ListSizes(ctx context.Context) ([]model.Size, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	catalogRepo repository.CatalogRepository
}

func NewCatalogService(productRepo repository.ProductRepository, catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		catalogRepo: catalogRepo,
	}
}

func (s *catalogService) ListProducts(ctx context.Context, query ProductQuery) (*ProductPage, error) {
	filter := query.ProductFilter
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if query.CategorySlug != "" {
		category, err := s.catalogRepo.FindCategoryBySlug(ctx, query.CategorySlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, storageFailure(err)
		}
		filter.CategoryID = &category.ID
	}

	products, total, err := s.productRepo.FindWithFilter(ctx, filter)
	if err != nil {
		return nil, storageFailure(err)
	}

	logger.Debug("Products listed", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return &ProductPage{
		Products: products,
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, storageFailure(err)
	}
	if !product.IsAvailable {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *catalogService) GetProductVariants(ctx context.Context, productID uint) ([]model.ProductVariant, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	variants, err := s.productRepo.FindVariants(ctx, productID)
	if err != nil {
		return nil, storageFailure(err)
	}
	return variants, nil
}

func (s *catalogService) ListCategories(ctx context.Context, gender *model.Gender) ([]model.Category, error) {
	categories, err := s.catalogRepo.ListCategories(ctx, gender)
	if err != nil {
		return nil, storageFailure(err)
	}
	return categories, nil
}

func (s *catalogService) ListColors(ctx context.Context) ([]model.Color, error) {
	colors, err := s.catalogRepo.ListColors(ctx)
	if err != nil {
		return nil, storageFailure(err)
	}
	return colors, nil
}

func (s *catalogService) ListSizes(ctx context.Context) ([]model.Size, error) {
	sizes, err := s.catalogRepo.ListSizes(ctx)
	if err != nil {
		return nil, storageFailure(err)
	}
	return sizes, nil
}
