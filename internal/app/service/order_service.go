package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/ikkim/kidsshop-backend/internal/app/repository"
	"github.com/ikkim/kidsshop-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrNoCart                  = errors.New("no cart to check out")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrInvalidShippingInfo     = errors.New("full name, email and address are required")
	ErrInvalidStatusTransition = errors.New("order status transition not allowed")
)

// ShippingInfo is captured on the order as given, independent of the user profile.
type ShippingInfo struct {
	FullName string
	Email    string
	Phone    string
	Address  string
}

func (i ShippingInfo) validate() error {
	if strings.TrimSpace(i.FullName) == "" ||
		strings.TrimSpace(i.Email) == "" ||
		strings.TrimSpace(i.Address) == "" {
		return ErrInvalidShippingInfo
	}
	return nil
}

type OrderService interface {
	// Checkout turns the user's cart into an order with frozen prices and
	// empties the cart, all in one transaction.
	Checkout(ctx context.Context, userID uint, info ShippingInfo) (*model.Order, error)
	GetUserOrders(ctx context.Context, userID uint) ([]model.Order, error)
	GetOrderByID(ctx context.Context, userID, orderID uint) (*model.Order, error)
	ListOrders(ctx context.Context, status string) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	ledger    StockLedger
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	ledger StockLedger,
) OrderService {
	return &orderService{
		db:        db,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		ledger:    ledger,
	}
}

func (s *orderService) Checkout(ctx context.Context, userID uint, info ShippingInfo) (*model.Order, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}

	logger.Info("Checking out cart", map[string]interface{}{
		"user_id": userID,
	})

	if err := info.validate(); err != nil {
		return nil, err
	}

	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)

		cart, err := cartRepo.FindByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoCart
			}
			return storageFailure(err)
		}
		if _, err := cartRepo.LockByID(ctx, cart.ID); err != nil {
			return storageFailure(err)
		}

		lines, err := cartRepo.FindItems(ctx, cart.ID)
		if err != nil {
			return storageFailure(err)
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		total := decimal.Zero
		items := make([]model.OrderItem, 0, len(lines))
		for i := range lines {
			unit := &lines[i].ProductStock
			if err := s.ledger.CheckAvailable(unit, lines[i].Quantity); err != nil {
				return err
			}

			price := s.ledger.UnitPrice(unit)
			items = append(items, model.OrderItem{
				ProductID: unit.Variant.ProductID,
				VariantID: unit.VariantID,
				SizeID:    unit.SizeID,
				Price:     price,
				Quantity:  lines[i].Quantity,
			})
			total = total.Add(price.Mul(decimal.NewFromInt(int64(lines[i].Quantity))))
		}

		order = &model.Order{
			UserID:     &userID,
			FullName:   strings.TrimSpace(info.FullName),
			Email:      strings.TrimSpace(info.Email),
			Phone:      strings.TrimSpace(info.Phone),
			Address:    strings.TrimSpace(info.Address),
			TotalPrice: total,
			Status:     model.OrderStatusPending,
			Items:      items,
		}
		if err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return storageFailure(err)
		}

		if err := cartRepo.DeleteItems(ctx, cart.ID); err != nil {
			return storageFailure(err)
		}
		if err := cartRepo.Touch(ctx, cart.ID); err != nil {
			return storageFailure(err)
		}
		return nil
	})
	if err != nil {
		logger.Warn("Checkout failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	logger.Info("Order created", map[string]interface{}{
		"user_id":     userID,
		"order_id":    order.ID,
		"total_price": order.TotalPrice.StringFixed(2),
		"item_count":  len(order.Items),
	})

	return s.findOrder(ctx, order.ID)
}

func (s *orderService) findOrder(ctx context.Context, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, storageFailure(err)
	}
	return order, nil
}

func (s *orderService) GetUserOrders(ctx context.Context, userID uint) ([]model.Order, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}

	orders, err := s.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, storageFailure(err)
	}
	return orders, nil
}

// GetOrderByID hides orders of other users behind ErrOrderNotFound.
func (s *orderService) GetOrderByID(ctx context.Context, userID, orderID uint) (*model.Order, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		logger.Warn("Order access denied", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, status string) ([]model.Order, error) {
	if status != "" && !model.OrderStatus(status).IsValid() {
		return nil, model.ErrInvalidOrderStatus
	}

	orders, err := s.orderRepo.FindAll(ctx, status)
	if err != nil {
		return nil, storageFailure(err)
	}
	return orders, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID uint, status model.OrderStatus) (*model.Order, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	if !status.IsValid() {
		return nil, model.ErrInvalidOrderStatus
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		logger.Warn("Order status transition rejected", map[string]interface{}{
			"order_id": orderID,
			"from":     order.Status,
			"to":       status,
		})
		return nil, ErrInvalidStatusTransition
	}

	if err := s.orderRepo.UpdateStatus(ctx, order, status); err != nil {
		return nil, storageFailure(err)
	}
	return order, nil
}
