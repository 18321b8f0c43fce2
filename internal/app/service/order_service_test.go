package service

import (
	"context"
	"testing"

	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/ikkim/kidsshop-backend/internal/app/repository"
	"github.com/ikkim/kidsshop-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderFixture struct {
	db     *gorm.DB
	orders OrderService
	carts  CartService
	user   *model.User
}

func setupOrderServiceTest(t *testing.T, policy StockPolicy) *orderFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	user, err := db.CreateTestUser(testDB, "buyer@example.com")
	require.NoError(t, err)

	cartRepo := repository.NewCartRepository(testDB)
	ledger := NewStockLedger(repository.NewProductRepository(testDB), policy)

	return &orderFixture{
		db:     testDB,
		orders: NewOrderService(testDB, repository.NewOrderRepository(testDB), cartRepo, ledger),
		carts:  NewCartService(testDB, cartRepo, ledger, newMemorySessions()),
		user:   user,
	}
}

func testShipping() ShippingInfo {
	return ShippingInfo{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Phone:    "+1 555 0100",
		Address:  "1 Main St, Springfield",
	}
}

// fillCart puts 3 x 19.99 and 1 x 9.50 (on sale from 15.00) in the user's cart.
func (f *orderFixture) fillCart(t *testing.T) (*model.Cart, *model.ProductStock, *model.ProductStock) {
	ctx := context.Background()

	shirt, err := db.CreateTestStock(f.db, "SHIRT-1", "19.99", "", 10)
	require.NoError(t, err)
	socks, err := db.CreateTestStock(f.db, "SOCKS-1", "15.00", "9.50", 10)
	require.NoError(t, err)

	cart, err := f.carts.ResolveCart(ctx, Identity{UserID: f.user.ID})
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, cart.ID, shirt.ID, 3)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, cart.ID, socks.ID, 1)
	require.NoError(t, err)

	return cart, shirt, socks
}

func linePrices(order *model.Order) map[uint]string {
	out := make(map[uint]string, len(order.Items))
	for _, item := range order.Items {
		out[item.ProductID] = item.Price.StringFixed(2)
	}
	return out
}

func TestOrderService_Checkout(t *testing.T) {
	f := setupOrderServiceTest(t, StockPolicyAdvisory)
	ctx := context.Background()
	cart, shirt, socks := f.fillCart(t)

	order, err := f.orders.Checkout(ctx, f.user.ID, testShipping())
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, "69.47", order.TotalPrice.StringFixed(2))
	assert.Equal(t, "Jane Doe", order.FullName)
	assert.Equal(t, "1 Main St, Springfield", order.Address)
	require.NotNil(t, order.UserID)
	assert.Equal(t, f.user.ID, *order.UserID)

	require.Len(t, order.Items, 2)
	assert.Equal(t, map[uint]string{
		shirt.Variant.ProductID: "19.99",
		socks.Variant.ProductID: "9.50",
	}, linePrices(order))
	for _, item := range order.Items {
		if item.ProductID == shirt.Variant.ProductID {
			assert.Equal(t, 3, item.Quantity)
			assert.Equal(t, shirt.VariantID, item.VariantID)
			assert.Equal(t, shirt.SizeID, item.SizeID)
		}
	}

	emptied, err := f.carts.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, emptied.Items)

	var stock model.ProductStock
	require.NoError(t, f.db.First(&stock, shirt.ID).Error)
	assert.Equal(t, 10, stock.Quantity)
}

func TestOrderService_Checkout_PricesStayFrozen(t *testing.T) {
	f := setupOrderServiceTest(t, StockPolicyAdvisory)
	ctx := context.Background()
	_, shirt, _ := f.fillCart(t)

	order, err := f.orders.Checkout(ctx, f.user.ID, testShipping())
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&model.Product{}).
		Where("id = ?", shirt.Variant.ProductID).
		Update("price", "25.00").Error)

	reloaded, err := f.orders.GetOrderByID(ctx, f.user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "69.47", reloaded.TotalPrice.StringFixed(2))
	assert.Equal(t, "19.99", linePrices(reloaded)[shirt.Variant.ProductID])
}

func TestOrderService_Checkout_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("no cart", func(t *testing.T) {
		f := setupOrderServiceTest(t, StockPolicyAdvisory)
		order, err := f.orders.Checkout(ctx, f.user.ID, testShipping())
		assert.ErrorIs(t, err, ErrNoCart)
		assert.Nil(t, order)
	})

	t.Run("empty cart", func(t *testing.T) {
		f := setupOrderServiceTest(t, StockPolicyAdvisory)
		_, err := f.carts.ResolveCart(ctx, Identity{UserID: f.user.ID})
		require.NoError(t, err)

		order, err := f.orders.Checkout(ctx, f.user.ID, testShipping())
		assert.ErrorIs(t, err, ErrEmptyCart)
		assert.Nil(t, order)

		var count int64
		require.NoError(t, f.db.Model(&model.Order{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		f := setupOrderServiceTest(t, StockPolicyAdvisory)
		_, err := f.orders.Checkout(ctx, 0, testShipping())
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("missing shipping fields", func(t *testing.T) {
		f := setupOrderServiceTest(t, StockPolicyAdvisory)
		f.fillCart(t)

		info := testShipping()
		info.Address = "  "
		_, err := f.orders.Checkout(ctx, f.user.ID, info)
		assert.ErrorIs(t, err, ErrInvalidShippingInfo)
	})

	t.Run("enforced stock shortage rolls back", func(t *testing.T) {
		f := setupOrderServiceTest(t, StockPolicyEnforce)
		cart, shirt, _ := f.fillCart(t)

		require.NoError(t, f.db.Model(&model.ProductStock{}).
			Where("id = ?", shirt.ID).
			Update("quantity", 1).Error)

		_, err := f.orders.Checkout(ctx, f.user.ID, testShipping())
		assert.ErrorIs(t, err, ErrInsufficientStock)

		kept, err := f.carts.GetCart(ctx, cart.ID)
		require.NoError(t, err)
		assert.Len(t, kept.Items, 2)

		var count int64
		require.NoError(t, f.db.Model(&model.Order{}).Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestOrderService_GetOrders(t *testing.T) {
	f := setupOrderServiceTest(t, StockPolicyAdvisory)
	ctx := context.Background()
	f.fillCart(t)

	order, err := f.orders.Checkout(ctx, f.user.ID, testShipping())
	require.NoError(t, err)

	orders, err := f.orders.GetUserOrders(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	found, err := f.orders.GetOrderByID(ctx, f.user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	other, err := db.CreateTestUser(f.db, "other@example.com")
	require.NoError(t, err)
	_, err = f.orders.GetOrderByID(ctx, other.ID, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = f.orders.GetOrderByID(ctx, f.user.ID, 99999)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = f.orders.GetUserOrders(ctx, 0)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	f := setupOrderServiceTest(t, StockPolicyAdvisory)
	ctx := context.Background()
	f.fillCart(t)

	order, err := f.orders.Checkout(ctx, f.user.ID, testShipping())
	require.NoError(t, err)

	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, model.OrderStatus("lost"))
	assert.ErrorIs(t, err, model.ErrInvalidOrderStatus)

	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, model.OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	steps := []model.OrderStatus{
		model.OrderStatusProcessing,
		model.OrderStatusShipped,
		model.OrderStatusDelivered,
	}
	for _, status := range steps {
		updated, err := f.orders.UpdateOrderStatus(ctx, order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, model.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = f.orders.UpdateOrderStatus(ctx, 99999, model.OrderStatusProcessing)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	delivered, err := f.orders.ListOrders(ctx, string(model.OrderStatusDelivered))
	require.NoError(t, err)
	assert.Len(t, delivered, 1)

	pending, err := f.orders.ListOrders(ctx, string(model.OrderStatusPending))
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.orders.ListOrders(ctx, "lost")
	assert.ErrorIs(t, err, model.ErrInvalidOrderStatus)
}
