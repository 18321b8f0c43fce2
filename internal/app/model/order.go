package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var ErrInvalidOrderStatus = errors.New("invalid order status")

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped},
	OrderStatusShipped:    {OrderStatusDelivered},
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	UserID     *uint           `gorm:"index" json:"user_id,omitempty"` // nil once the user is deleted
	FullName   string          `gorm:"not null" json:"full_name"`
	Email      string          `gorm:"not null" json:"email"`
	Phone      string          `gorm:"type:varchar(20)" json:"phone"`
	Address    string          `gorm:"type:text;not null" json:"address"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Status     OrderStatus     `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	User  *User       `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeSave(tx *gorm.DB) error {
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	if !o.Status.IsValid() {
		return ErrInvalidOrderStatus
	}
	return nil
}

// OrderItem is a price snapshot taken at checkout; later catalog changes do not touch it.
type OrderItem struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	VariantID uint            `gorm:"not null" json:"variant_id"`
	SizeID    uint            `gorm:"not null" json:"size_id"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity  int             `gorm:"not null;check:chk_order_items_quantity,quantity > 0" json:"quantity"`

	Product Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
	Size    Size           `gorm:"foreignKey:SizeID" json:"size,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
