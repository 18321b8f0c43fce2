package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/ikkim/kidsshop-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductSort string

const (
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortTitle     ProductSort = "title"
)

type ProductFilter struct {
	Search        string
	CategoryID    *uint
	Gender        *model.Gender // B or G also match unisex categories
	ColorID       *uint
	SizeID        *uint
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	SortBy        ProductSort
	SortAscending bool
	Limit         int
	Offset        int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindWithFilter(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindByArticle(ctx context.Context, article string) (*model.Product, error)
	FindVariants(ctx context.Context, productID uint) ([]model.ProductVariant, error)
	FindStockByID(ctx context.Context, id uint) (*model.ProductStock, error)
	UpsertVariant(ctx context.Context, variant *model.ProductVariant) error
	UpsertStock(ctx context.Context, stock *model.ProductStock) error
	AddCategories(ctx context.Context, product *model.Product, categories ...model.Category) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"title":   product.Title,
		"article": product.Article,
	})

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"title":   product.Title,
			"article": product.Article,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"article":    product.Article,
	})
	return nil
}

func (r *productRepository) preloadProduct(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Categories").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_variants.is_default DESC, product_variants.id ASC")
		}).
		Preload("Variants.Color").
		Preload("Variants.Stocks.Size")
}

func (r *productRepository) FindWithFilter(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"search":      filter.Search,
		"category_id": filter.CategoryID,
		"gender":      filter.Gender,
		"color_id":    filter.ColorID,
		"size_id":     filter.SizeID,
		"sort_by":     filter.SortBy,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})

	query := r.db.WithContext(ctx).Model(&model.Product{}).Where("products.is_available = ?", true)

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", strings.ToLower(filter.Search))
		query = query.Where(
			"LOWER(products.title) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(products.article) LIKE ?",
			like, like, like,
		)
	}

	if filter.CategoryID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM product_categories pc JOIN categories c ON c.id = pc.category_id "+
				"WHERE pc.product_id = products.id AND (c.id = ? OR c.parent_id = ?))",
			*filter.CategoryID, *filter.CategoryID,
		)
	}

	if filter.Gender != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM product_categories pc JOIN categories c ON c.id = pc.category_id "+
				"WHERE pc.product_id = products.id AND c.gender IN ?)",
			[]string{string(*filter.Gender), string(model.GenderUnisex)},
		)
	}

	if filter.ColorID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM product_variants v WHERE v.product_id = products.id AND v.color_id = ?)",
			*filter.ColorID,
		)
	}

	if filter.SizeID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM product_variants v JOIN product_stocks s ON s.variant_id = v.id "+
				"WHERE v.product_id = products.id AND s.size_id = ? AND s.quantity > 0)",
			*filter.SizeID,
		)
	}

	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count products with filter", err)
		return nil, 0, err
	}

	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}
	switch filter.SortBy {
	case ProductSortPrice:
		query = query.Order("products.price " + direction)
	case ProductSortTitle:
		query = query.Order("products.title " + direction)
	default:
		query = query.Order("products.created_at " + direction)
	}
	query = query.Order("products.id DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.
		Preload("Categories").
		Preload("Variants.Color").
		Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.preloadProduct(ctx).First(&product, id).Error; err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByArticle(ctx context.Context, article string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Where("article = ?", article).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindVariants(ctx context.Context, productID uint) ([]model.ProductVariant, error) {
	var variants []model.ProductVariant
	if err := r.db.WithContext(ctx).
		Preload("Color").
		Preload("Stocks.Size").
		Where("product_id = ?", productID).
		Order("is_default DESC, id ASC").
		Find(&variants).Error; err != nil {
		logger.Error("Failed to find product variants in database", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	for i := range variants {
		stocks := variants[i].Stocks
		sort.SliceStable(stocks, func(a, b int) bool {
			return stocks[a].Size.DisplayOrder < stocks[b].Size.DisplayOrder
		})
	}
	return variants, nil
}

// FindStockByID loads a stock unit with the product chain needed for pricing
func (r *productRepository) FindStockByID(ctx context.Context, id uint) (*model.ProductStock, error) {
	var stock model.ProductStock
	if err := r.db.WithContext(ctx).
		Preload("Variant.Product").
		Preload("Variant.Color").
		Preload("Size").
		First(&stock, id).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

// UpsertVariant finds the (product, color) variant or creates it
func (r *productRepository) UpsertVariant(ctx context.Context, variant *model.ProductVariant) error {
	return r.db.WithContext(ctx).
		Where(model.ProductVariant{ProductID: variant.ProductID, ColorID: variant.ColorID}).
		Attrs(model.ProductVariant{IsDefault: variant.IsDefault}).
		FirstOrCreate(variant).Error
}

// UpsertStock sets the stock counter of the (variant, size) unit
func (r *productRepository) UpsertStock(ctx context.Context, stock *model.ProductStock) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "variant_id"}, {Name: "size_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
	}).Create(stock).Error
}

// AddCategories links the product to categories; existing links are kept.
func (r *productRepository) AddCategories(ctx context.Context, product *model.Product, categories ...model.Category) error {
	if len(categories) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(product).Association("Categories").Append(categories)
}
