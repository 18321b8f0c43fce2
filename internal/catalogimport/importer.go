// Package catalogimport loads products, variants and stock counters from an
// XLSX sheet. One row is one stock unit: a product article in one color and size.
package catalogimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/ikkim/kidsshop-backend/internal/app/repository"
	"github.com/ikkim/kidsshop-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Columns recognised in the header row. Header names are case insensitive.
const (
	ColArticle     = "article"
	ColTitle       = "title"
	ColPrice       = "price"
	ColSalePrice   = "sale_price"
	ColCategory    = "category" // "Parent/Child" creates both levels
	ColGender      = "gender"
	ColColor       = "color"
	ColColorCode   = "color_code"
	ColSize        = "size"
	ColQuantity    = "quantity"
	ColDescription = "description"
	ColComposition = "composition"
)

var requiredColumns = []string{ColArticle, ColTitle, ColPrice, ColColor, ColSize}

// unknownSizeOrder puts sizes missing from the seeded dictionary last.
const unknownSizeOrder = 999

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// Row is one parsed sheet line.
type Row struct {
	Line        int
	Article     string
	Title       string
	Price       decimal.Decimal
	SalePrice   decimal.NullDecimal
	Category    string
	Gender      model.Gender
	Color       string
	ColorCode   string
	Size        string
	Quantity    int
	Description string
	Composition string
}

// Result counts what an import touched.
type Result struct {
	ProductsCreated int
	StocksUpserted  int
}

// ReadRows parses the first sheet of an XLSX workbook. Rows that fail to parse
// are logged and counted in skipped rather than aborting the read.
func ReadRows(r io.Reader) (rows []Row, skipped int, err error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, errors.New("no sheets found in XLSX file")
	}

	raw, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(raw) == 0 {
		return nil, 0, errors.New("no data found in XLSX file")
	}

	columns := make(map[string]int, len(raw[0]))
	for i, name := range raw[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, 0, fmt.Errorf("missing required column %q", name)
		}
	}

	for i, cells := range raw[1:] {
		line := i + 2
		cell := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[idx])
		}

		row, err := parseRow(line, cell)
		if err != nil {
			logger.Warn("Skipping catalog row", map[string]interface{}{
				"line":  line,
				"error": err.Error(),
			})
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

func parseRow(line int, cell func(string) string) (Row, error) {
	row := Row{
		Line:        line,
		Article:     cell(ColArticle),
		Title:       cell(ColTitle),
		Category:    cell(ColCategory),
		Color:       cell(ColColor),
		ColorCode:   cell(ColColorCode),
		Size:        cell(ColSize),
		Description: cell(ColDescription),
		Composition: cell(ColComposition),
		Gender:      model.GenderUnisex,
	}
	if row.Article == "" || row.Title == "" || row.Color == "" || row.Size == "" {
		return row, errors.New("article, title, color and size are required")
	}

	price, err := decimal.NewFromString(cell(ColPrice))
	if err != nil || price.IsNegative() {
		return row, fmt.Errorf("invalid price %q", cell(ColPrice))
	}
	row.Price = price

	if raw := cell(ColSalePrice); raw != "" {
		sale, err := decimal.NewFromString(raw)
		if err != nil || sale.IsNegative() {
			return row, fmt.Errorf("invalid sale price %q", raw)
		}
		row.SalePrice = decimal.NewNullDecimal(sale)
	}

	if raw := cell(ColQuantity); raw != "" {
		qty, err := strconv.Atoi(raw)
		if err != nil || qty < 0 {
			return row, fmt.Errorf("invalid quantity %q", raw)
		}
		row.Quantity = qty
	}

	if raw := strings.ToUpper(cell(ColGender)); raw != "" {
		switch g := model.Gender(raw); g {
		case model.GenderBoys, model.GenderGirls, model.GenderUnisex:
			row.Gender = g
		default:
			return row, fmt.Errorf("invalid gender %q", raw)
		}
	}
	return row, nil
}

type Importer struct {
	productRepo repository.ProductRepository
	catalogRepo repository.CatalogRepository
}

func NewImporter(productRepo repository.ProductRepository, catalogRepo repository.CatalogRepository) *Importer {
	return &Importer{
		productRepo: productRepo,
		catalogRepo: catalogRepo,
	}
}

// Import writes rows to the catalog. It is idempotent: products are matched
// by article and stock counters are overwritten with the sheet quantity.
func (im *Importer) Import(ctx context.Context, rows []Row) (Result, error) {
	var result Result
	for _, row := range rows {
		created, err := im.importRow(ctx, row)
		if err != nil {
			return result, fmt.Errorf("line %d (%s): %w", row.Line, row.Article, err)
		}
		if created {
			result.ProductsCreated++
		}
		result.StocksUpserted++
	}

	logger.Info("Catalog import finished", map[string]interface{}{
		"products_created": result.ProductsCreated,
		"stocks_upserted":  result.StocksUpserted,
	})
	return result, nil
}

func (im *Importer) importRow(ctx context.Context, row Row) (bool, error) {
	product, created, err := im.product(ctx, row)
	if err != nil {
		return false, err
	}

	if row.Category != "" {
		category, err := im.category(ctx, row.Category, row.Gender)
		if err != nil {
			return false, err
		}
		if err := im.productRepo.AddCategories(ctx, product, *category); err != nil {
			return false, fmt.Errorf("failed to link category: %w", err)
		}
	}

	color := &model.Color{Name: row.Color, Code: row.ColorCode}
	if err := im.catalogRepo.FirstOrCreateColor(ctx, color); err != nil {
		return false, fmt.Errorf("failed to resolve color: %w", err)
	}
	size := &model.Size{Name: row.Size, DisplayOrder: unknownSizeOrder}
	if err := im.catalogRepo.FirstOrCreateSize(ctx, size); err != nil {
		return false, fmt.Errorf("failed to resolve size: %w", err)
	}

	// The first color imported for a product becomes its default variant.
	variant := &model.ProductVariant{ProductID: product.ID, ColorID: color.ID, IsDefault: created}
	if err := im.productRepo.UpsertVariant(ctx, variant); err != nil {
		return false, fmt.Errorf("failed to upsert variant: %w", err)
	}

	stock := &model.ProductStock{VariantID: variant.ID, SizeID: size.ID, Quantity: row.Quantity}
	if err := im.productRepo.UpsertStock(ctx, stock); err != nil {
		return false, fmt.Errorf("failed to upsert stock: %w", err)
	}
	return created, nil
}

func (im *Importer) product(ctx context.Context, row Row) (*model.Product, bool, error) {
	product, err := im.productRepo.FindByArticle(ctx, row.Article)
	if err == nil {
		return product, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to look up product: %w", err)
	}

	product = &model.Product{
		Title:       row.Title,
		Slug:        slugify(row.Title + " " + row.Article),
		Article:     row.Article,
		Price:       row.Price,
		SalePrice:   row.SalePrice,
		Description: row.Description,
		Composition: row.Composition,
		IsAvailable: true,
	}
	if err := im.productRepo.Create(ctx, product); err != nil {
		return nil, false, fmt.Errorf("failed to create product: %w", err)
	}
	return product, true, nil
}

// category resolves a "Parent/Child" path, creating missing levels.
func (im *Importer) category(ctx context.Context, path string, gender model.Gender) (*model.Category, error) {
	var parent *model.Category
	for _, name := range strings.Split(path, "/") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		slug := slugify(name)
		if parent != nil {
			slug = parent.Slug + "-" + slug
		}
		category := &model.Category{Name: name, Slug: slug, Gender: gender}
		if parent != nil {
			category.ParentID = &parent.ID
		}
		if err := im.catalogRepo.FirstOrCreateCategory(ctx, category); err != nil {
			return nil, fmt.Errorf("failed to resolve category %q: %w", name, err)
		}
		parent = category
	}
	if parent == nil {
		return nil, fmt.Errorf("invalid category %q", path)
	}
	return parent, nil
}
