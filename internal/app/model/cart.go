package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is owned either by a user or by an anonymous session token, never both.
// Rows are hard-deleted so the unique owner indexes stay usable.
type Cart struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       *uint     `gorm:"uniqueIndex" json:"user_id,omitempty"`                     // registered owner
	SessionToken *string   `gorm:"type:varchar(64);uniqueIndex" json:"-"`                   // anonymous owner
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Cart) TableName() string {
	return "carts"
}

func (c *Cart) IsAnonymous() bool {
	return c.UserID == nil
}

// TotalPrice sums line totals over the loaded items.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].LineTotal())
	}
	return total
}

// ItemCount is the number of units in the cart, not the number of lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// CartItem is one stock unit in a cart. (CartID, ProductStockID) is unique.
type CartItem struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	CartID         uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_stock" json:"cart_id"`
	ProductStockID uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_stock;index" json:"product_stock_id"`
	Quantity       int       `gorm:"not null;default:1;check:chk_cart_items_quantity,quantity > 0" json:"quantity"`
	AddedAt        time.Time `gorm:"autoCreateTime" json:"added_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	ProductStock ProductStock `gorm:"foreignKey:ProductStockID" json:"-"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// UnitPrice reads the current product price. Requires ProductStock.Variant.Product preloaded.
func (i *CartItem) UnitPrice() decimal.Decimal {
	return i.ProductStock.Variant.Product.EffectivePrice()
}

func (i *CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}
