package controller

import (
	"time"

	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

// ProfileResponse is the single shape a user is rendered in.
type ProfileResponse struct {
	ID        uint           `json:"id"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Phone     string         `json:"phone"`
	Address   string         `json:"address"`
	Role      model.UserRole `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
}

func newProfileResponse(user *model.User) ProfileResponse {
	return ProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Phone:     user.Phone,
		Address:   user.Address,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

type CartItemResponse struct {
	ID             uint            `json:"id"`
	ProductStockID uint            `json:"product_stock_id"`
	ProductID      uint            `json:"product_id"`
	Title          string          `json:"title"`
	Article        string          `json:"article"`
	Color          string          `json:"color"`
	Size           string          `json:"size"`
	Quantity       int             `json:"quantity"`
	InStock        int             `json:"in_stock"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	LineTotal      decimal.Decimal `json:"line_total"`
	AddedAt        time.Time       `json:"added_at"`
}

type CartResponse struct {
	ID         uint               `json:"id"`
	Anonymous  bool               `json:"anonymous"`
	Items      []CartItemResponse `json:"items"`
	ItemCount  int                `json:"item_count"`
	TotalPrice decimal.Decimal    `json:"total_price"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func newCartResponse(cart *model.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	for i := range cart.Items {
		item := &cart.Items[i]
		stock := &item.ProductStock
		items = append(items, CartItemResponse{
			ID:             item.ID,
			ProductStockID: item.ProductStockID,
			ProductID:      stock.Variant.ProductID,
			Title:          stock.Variant.Product.Title,
			Article:        stock.Variant.Product.Article,
			Color:          stock.Variant.Color.Name,
			Size:           stock.Size.Name,
			Quantity:       item.Quantity,
			InStock:        stock.Quantity,
			UnitPrice:      item.UnitPrice(),
			LineTotal:      item.LineTotal(),
			AddedAt:        item.AddedAt,
		})
	}

	return CartResponse{
		ID:         cart.ID,
		Anonymous:  cart.IsAnonymous(),
		Items:      items,
		ItemCount:  cart.ItemCount(),
		TotalPrice: cart.TotalPrice(),
		UpdatedAt:  cart.UpdatedAt,
	}
}
