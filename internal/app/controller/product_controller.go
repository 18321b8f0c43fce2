package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/ikkim/kidsshop-backend/internal/app/repository"
	"github.com/ikkim/kidsshop-backend/internal/app/service"
	apperrors "github.com/ikkim/kidsshop-backend/internal/errors"
	"github.com/ikkim/kidsshop-backend/internal/middleware"
	"github.com/shopspring/decimal"
)

type ProductController struct {
	catalogService service.CatalogService
}

func NewProductController(catalogService service.CatalogService) *ProductController {
	return &ProductController{
		catalogService: catalogService,
	}
}

// ListProductsQuery is bound from the query string of GET /products.
// Ordering takes a field name, prefixed with "-" for descending.
type ListProductsQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Gender   string `form:"gender" binding:"omitempty,oneof=B G U"`
	Color    uint   `form:"color"`
	Size     uint   `form:"size"`
	MinPrice string `form:"min_price"`
	MaxPrice string `form:"max_price"`
	Ordering string `form:"ordering" binding:"omitempty,oneof=price -price created_at -created_at title -title"`
	Limit    int    `form:"limit" binding:"omitempty,min=1"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
}

func parseGender(raw string) *model.Gender {
	if raw == "" {
		return nil
	}
	g := model.Gender(raw)
	return &g
}

func parsePrice(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (q ListProductsQuery) toServiceQuery() (service.ProductQuery, error) {
	query := service.ProductQuery{CategorySlug: q.Category}
	query.Search = strings.TrimSpace(q.Search)
	query.Gender = parseGender(q.Gender)
	query.Limit = q.Limit
	query.Offset = q.Offset

	if q.Color != 0 {
		color := q.Color
		query.ColorID = &color
	}
	if q.Size != 0 {
		size := q.Size
		query.SizeID = &size
	}

	var err error
	if query.MinPrice, err = parsePrice(q.MinPrice); err != nil {
		return query, err
	}
	if query.MaxPrice, err = parsePrice(q.MaxPrice); err != nil {
		return query, err
	}

	if q.Ordering != "" {
		query.SortAscending = !strings.HasPrefix(q.Ordering, "-")
		query.SortBy = repository.ProductSort(strings.TrimPrefix(q.Ordering, "-"))
	}
	return query, nil
}

// ListProducts returns available products matching the filters
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var params ListProductsQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		log.Warn("Invalid product list query", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product filters")
		return
	}

	query, err := params.toServiceQuery()
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Prices must be decimal numbers")
		return
	}

	page, err := ctrl.catalogService.ListProducts(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err, "List products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": page.Products,
		"count":    len(page.Products),
		"total":    page.Total,
		"limit":    page.Limit,
		"offset":   page.Offset,
	})
}

// GetProductByID returns a product with its variants and stock
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Get product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// GetProductVariants returns the color variants of a product with sizes in stock order
// GET /api/v1/products/:id/variants
func (ctrl *ProductController) GetProductVariants(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	variants, err := ctrl.catalogService.GetProductVariants(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Get product variants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variants": variants,
		"count":    len(variants),
	})
}

// ListCategories returns root categories with children
// GET /api/v1/categories?gender=B
func (ctrl *ProductController) ListCategories(c *gin.Context) {
	raw := c.Query("gender")
	if raw != "" && raw != string(model.GenderBoys) && raw != string(model.GenderGirls) && raw != string(model.GenderUnisex) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "gender must be B, G or U")
		return
	}

	categories, err := ctrl.catalogService.ListCategories(c.Request.Context(), parseGender(raw))
	if err != nil {
		respondServiceError(c, err, "List categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// ListColors returns the color dictionary
// GET /api/v1/colors
func (ctrl *ProductController) ListColors(c *gin.Context) {
	colors, err := ctrl.catalogService.ListColors(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "List colors")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"colors": colors,
	})
}

// ListSizes returns sizes in display order
// GET /api/v1/sizes
func (ctrl *ProductController) ListSizes(c *gin.Context) {
	sizes, err := ctrl.catalogService.ListSizes(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "List sizes")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sizes": sizes,
	})
}
