package repository

import (
	"context"

	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/ikkim/kidsshop-backend/pkg/logger"
	"gorm.io/gorm"
)

// CatalogRepository serves the category, color and size dictionaries.
type CatalogRepository interface {
	ListCategories(ctx context.Context, gender *model.Gender) ([]model.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*model.Category, error)
	ListColors(ctx context.Context) ([]model.Color, error)
	ListSizes(ctx context.Context) ([]model.Size, error)

	FirstOrCreateCategory(ctx context.Context, category *model.Category) error
	FirstOrCreateColor(ctx context.Context, color *model.Color) error
	FirstOrCreateSize(ctx context.Context, size *model.Size) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// ListCategories returns root categories with their children.
// A gender filter also matches unisex categories.
func (r *catalogRepository) ListCategories(ctx context.Context, gender *model.Gender) ([]model.Category, error) {
	query := r.db.WithContext(ctx).
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Where("parent_id IS NULL").
		Order("name ASC")
	if gender != nil {
		query = query.Where("gender IN ?", []string{string(*gender), string(model.GenderUnisex)})
	}

	var categories []model.Category
	if err := query.Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories in database", err, map[string]interface{}{
			"gender": gender,
		})
		return nil, err
	}
	return categories, nil
}

func (r *catalogRepository) FindCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *catalogRepository) ListColors(ctx context.Context) ([]model.Color, error) {
	var colors []model.Color
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&colors).Error; err != nil {
		logger.Error("Failed to list colors in database", err)
		return nil, err
	}
	return colors, nil
}

func (r *catalogRepository) ListSizes(ctx context.Context) ([]model.Size, error) {
	var sizes []model.Size
	if err := r.db.WithContext(ctx).Order("display_order ASC, id ASC").Find(&sizes).Error; err != nil {
		logger.Error("Failed to list sizes in database", err)
		return nil, err
	}
	return sizes, nil
}

func (r *catalogRepository) FirstOrCreateCategory(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).
		Where(model.Category{Slug: category.Slug}).
		Attrs(model.Category{
			Name:        category.Name,
			Description: category.Description,
			ParentID:    category.ParentID,
			Gender:      category.Gender,
		}).
		FirstOrCreate(category).Error
}

func (r *catalogRepository) FirstOrCreateColor(ctx context.Context, color *model.Color) error {
	return r.db.WithContext(ctx).
		Where(model.Color{Name: color.Name}).
		Attrs(model.Color{Code: color.Code}).
		FirstOrCreate(color).Error
}

func (r *catalogRepository) FirstOrCreateSize(ctx context.Context, size *model.Size) error {
	return r.db.WithContext(ctx).
		Where(model.Size{Name: size.Name}).
		Attrs(model.Size{DisplayOrder: size.DisplayOrder}).
		FirstOrCreate(size).Error
}
