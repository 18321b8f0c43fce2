package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint                `gorm:"primarykey" json:"id"`
	Title       string              `gorm:"not null" json:"title"`
	Slug        string              `gorm:"uniqueIndex;not null" json:"slug"`
	Article     string              `gorm:"uniqueIndex;not null" json:"article"` // vendor product code
	Price       decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	SalePrice   decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"sale_price"`
	Description string              `gorm:"type:text" json:"description"`
	Composition string              `json:"composition"` // e.g. Cotton 95%, Elastane 5%
	IsAvailable bool                `gorm:"default:true" json:"is_available"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	Categories []Category       `gorm:"many2many:product_categories" json:"categories,omitempty"`
	Variants   []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// EffectivePrice is the sale price when one is set, otherwise the list price.
// A zero sale price counts as unset.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice.Valid && !p.SalePrice.Decimal.IsZero() {
		return p.SalePrice.Decimal
	}
	return p.Price
}

// ProductVariant is one color of a product; its sizes live in ProductStock.
type ProductVariant struct {
	ID        uint `gorm:"primarykey" json:"id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_variants_product_color" json:"product_id"`
	ColorID   uint `gorm:"not null;uniqueIndex:idx_variants_product_color" json:"color_id"`
	IsDefault bool `gorm:"default:false" json:"is_default"`

	Product Product        `gorm:"foreignKey:ProductID" json:"-"`
	Color   Color          `gorm:"foreignKey:ColorID" json:"color"`
	Stocks  []ProductStock `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"stocks,omitempty"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

// ProductStock is the sellable unit: one variant in one size.
type ProductStock struct {
	ID        uint `gorm:"primarykey" json:"id"`
	VariantID uint `gorm:"not null;uniqueIndex:idx_stocks_variant_size" json:"variant_id"`
	SizeID    uint `gorm:"not null;uniqueIndex:idx_stocks_variant_size" json:"size_id"`
	Quantity  int  `gorm:"not null;default:0;check:chk_product_stocks_quantity,quantity >= 0" json:"quantity"`

	Variant ProductVariant `gorm:"foreignKey:VariantID" json:"-"`
	Size    Size           `gorm:"foreignKey:SizeID" json:"size"`
}

func (ProductStock) TableName() string {
	return "product_stocks"
}

// Product returns the owning product; the Variant.Product chain must be preloaded.
func (s *ProductStock) Product() *Product {
	return &s.Variant.Product
}
