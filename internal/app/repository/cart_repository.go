package repository

import (
	"context"
	"time"

	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/ikkim/kidsshop-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository

	GetOrCreateByUser(ctx context.Context, userID uint) (*model.Cart, error)
	GetOrCreateBySession(ctx context.Context, sessionToken string) (*model.Cart, error)
	FindByUserID(ctx context.Context, userID uint) (*model.Cart, error)
	FindBySessionToken(ctx context.Context, sessionToken string) (*model.Cart, error)
	FindByID(ctx context.Context, id uint) (*model.Cart, error)
	LockByID(ctx context.Context, id uint) (*model.Cart, error)
	Touch(ctx context.Context, cartID uint) error
	Delete(ctx context.Context, cartID uint) error
	DeleteStaleAnonymous(ctx context.Context, before time.Time) (int64, error)

	FindItems(ctx context.Context, cartID uint) ([]model.CartItem, error)
	FindItem(ctx context.Context, cartID, itemID uint) (*model.CartItem, error)
	FindItemByStock(ctx context.Context, cartID, stockID uint) (*model.CartItem, error)
	UpsertItem(ctx context.Context, cartID, stockID uint, quantity int) (*model.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error
	MoveItem(ctx context.Context, itemID, targetCartID uint) error
	DeleteItem(ctx context.Context, itemID uint) error
	DeleteItems(ctx context.Context, cartID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *cartRepository) WithTx(tx *gorm.DB) CartRepository {
	return &cartRepository{db: tx}
}

// preloadItems loads everything needed to price a line: product, color and size.
func preloadItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("ProductStock.Variant.Product").
		Preload("ProductStock.Variant.Color").
		Preload("ProductStock.Size").
		Order("cart_items.added_at ASC, cart_items.id ASC")
}

func (r *cartRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", preloadItems)
}

func (r *cartRepository) GetOrCreateByUser(ctx context.Context, userID uint) (*model.Cart, error) {
	logger.Debug("Get-or-create cart by user in database", map[string]interface{}{
		"user_id": userID,
	})

	cart := &model.Cart{UserID: &userID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(cart).Error; err != nil {
		logger.Error("Failed to insert cart for user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return r.FindByUserID(ctx, userID)
}

func (r *cartRepository) GetOrCreateBySession(ctx context.Context, sessionToken string) (*model.Cart, error) {
	logger.Debug("Get-or-create cart by session in database")

	cart := &model.Cart{SessionToken: &sessionToken}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(cart).Error; err != nil {
		logger.Error("Failed to insert cart for session", err)
		return nil, err
	}

	return r.FindBySessionToken(ctx, sessionToken)
}

func (r *cartRepository) FindByUserID(ctx context.Context, userID uint) (*model.Cart, error) {
	var cart model.Cart
	if err := r.withItems(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}

	logger.Debug("Cart found by user ID in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": userID,
		"items":   len(cart.Items),
	})
	return &cart, nil
}

func (r *cartRepository) FindBySessionToken(ctx context.Context, sessionToken string) (*model.Cart, error) {
	var cart model.Cart
	if err := r.withItems(ctx).Where("session_token = ?", sessionToken).First(&cart).Error; err != nil {
		return nil, err
	}

	logger.Debug("Cart found by session in database", map[string]interface{}{
		"cart_id": cart.ID,
		"items":   len(cart.Items),
	})
	return &cart, nil
}

func (r *cartRepository) FindByID(ctx context.Context, id uint) (*model.Cart, error) {
	var cart model.Cart
	if err := r.withItems(ctx).First(&cart, id).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// LockByID takes a row lock on the cart for the rest of the transaction.
// Items are not loaded.
func (r *cartRepository) LockByID(ctx context.Context, id uint) (*model.Cart, error) {
	var cart model.Cart
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&cart, id).Error; err != nil {
		logger.Error("Failed to lock cart", err, map[string]interface{}{
			"cart_id": id,
		})
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Touch(ctx context.Context, cartID uint) error {
	return r.db.WithContext(ctx).Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("updated_at", time.Now()).Error
}

// Delete removes the cart and its lines
func (r *cartRepository) Delete(ctx context.Context, cartID uint) error {
	logger.Debug("Deleting cart from database", map[string]interface{}{
		"cart_id": cartID,
	})

	db := r.db.WithContext(ctx)
	if err := db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		return err
	}
	if err := db.Delete(&model.Cart{}, cartID).Error; err != nil {
		logger.Error("Failed to delete cart from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	return nil
}

// DeleteStaleAnonymous removes anonymous carts not touched since before.
func (r *cartRepository) DeleteStaleAnonymous(ctx context.Context, before time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale := tx.Model(&model.Cart{}).
			Select("id").
			Where("user_id IS NULL AND updated_at < ?", before)

		if err := tx.Where("cart_id IN (?)", stale).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		result := tx.Where("user_id IS NULL AND updated_at < ?", before).Delete(&model.Cart{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete stale anonymous carts", err, map[string]interface{}{
			"before": before,
		})
		return 0, err
	}

	logger.Debug("Stale anonymous carts deleted", map[string]interface{}{
		"before":  before,
		"deleted": deleted,
	})
	return deleted, nil
}

func (r *cartRepository) FindItems(ctx context.Context, cartID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := preloadItems(r.db.WithContext(ctx)).
		Where("cart_id = ?", cartID).
		Find(&items).Error; err != nil {
		logger.Error("Failed to find cart items in database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, err
	}
	return items, nil
}

// FindItem looks a line up within one cart, so a foreign line id is not found.
func (r *cartRepository) FindItem(ctx context.Context, cartID, itemID uint) (*model.CartItem, error) {
	var item model.CartItem
	if err := preloadItems(r.db.WithContext(ctx)).
		Where("cart_id = ? AND id = ?", cartID, itemID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) FindItemByStock(ctx context.Context, cartID, stockID uint) (*model.CartItem, error) {
	var item model.CartItem
	if err := preloadItems(r.db.WithContext(ctx)).
		Where("cart_id = ? AND product_stock_id = ?", cartID, stockID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpsertItem adds quantity to the (cart, stock) line, creating it if absent.
// The increment happens in one statement so concurrent adds never lose an update.
func (r *cartRepository) UpsertItem(ctx context.Context, cartID, stockID uint, quantity int) (*model.CartItem, error) {
	logger.Debug("Upserting cart item in database", map[string]interface{}{
		"cart_id":          cartID,
		"product_stock_id": stockID,
		"quantity":         quantity,
	})

	item := &model.CartItem{
		CartID:         cartID,
		ProductStockID: stockID,
		Quantity:       quantity,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_stock_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": time.Now(),
		}),
	}).Create(item).Error
	if err != nil {
		logger.Error("Failed to upsert cart item in database", err, map[string]interface{}{
			"cart_id":          cartID,
			"product_stock_id": stockID,
		})
		return nil, err
	}

	return r.FindItemByStock(ctx, cartID, stockID)
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	logger.Debug("Updating cart item quantity in database", map[string]interface{}{
		"cart_item_id": itemID,
		"quantity":     quantity,
	})

	return r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		}).Error
}

// MoveItem re-parents a line into another cart
func (r *cartRepository) MoveItem(ctx context.Context, itemID, targetCartID uint) error {
	return r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"cart_id":    targetCartID,
			"updated_at": time.Now(),
		}).Error
}

func (r *cartRepository) DeleteItem(ctx context.Context, itemID uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_item_id": itemID,
	})
	return r.db.WithContext(ctx).Delete(&model.CartItem{}, itemID).Error
}

func (r *cartRepository) DeleteItems(ctx context.Context, cartID uint) error {
	logger.Debug("Deleting cart items from database", map[string]interface{}{
		"cart_id": cartID,
	})
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error
}
