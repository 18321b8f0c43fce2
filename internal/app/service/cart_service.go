package service

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/ikkim/kidsshop-backend/internal/app/repository"
	"github.com/ikkim/kidsshop-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
)

type CartService interface {
	// ResolveCart returns the single cart of the identity, creating it on first use.
	// Anonymous callers without a known session token get a freshly minted one,
	// readable from the returned cart's SessionToken.
	ResolveCart(ctx context.Context, identity Identity) (*model.Cart, error)
	GetCart(ctx context.Context, cartID uint) (*model.Cart, error)
	AddItem(ctx context.Context, cartID, stockUnitID uint, quantity int) (*model.CartItem, error)
	// UpdateItem sets the line quantity; zero removes the line and reports removed.
	UpdateItem(ctx context.Context, cartID, itemID uint, quantity int) (item *model.CartItem, removed bool, err error)
	RemoveItem(ctx context.Context, cartID, itemID uint) error
	ClearCart(ctx context.Context, cartID uint) error
	MergeOnLogin(ctx context.Context, sessionToken string, userID uint) (*model.Cart, error)
	PurgeStaleAnonymousCarts(ctx context.Context, idleFor time.Duration) (int64, error)
}

type cartService struct {
	db       *gorm.DB
	cartRepo repository.CartRepository
	ledger   StockLedger
	sessions SessionProvider
}

func NewCartService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	ledger StockLedger,
	sessions SessionProvider,
) CartService {
	return &cartService{
		db:       db,
		cartRepo: cartRepo,
		ledger:   ledger,
		sessions: sessions,
	}
}

func (s *cartService) ResolveCart(ctx context.Context, identity Identity) (*model.Cart, error) {
	if identity.IsAuthenticated() {
		cart, err := s.cartRepo.GetOrCreateByUser(ctx, identity.UserID)
		if err != nil {
			logger.Error("Failed to resolve user cart", err, map[string]interface{}{
				"user_id": identity.UserID,
			})
			return nil, storageFailure(err)
		}
		return cart, nil
	}

	token, err := s.sessionToken(ctx, identity.SessionToken)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreateBySession(ctx, token)
	if err != nil {
		logger.Error("Failed to resolve anonymous cart", err)
		return nil, storageFailure(err)
	}

	// The stale cart purge keys on updated_at, so reads count as activity
	// for as long as the session itself stays alive.
	if err := s.cartRepo.Touch(ctx, cart.ID); err != nil {
		logger.Warn("Failed to touch anonymous cart", map[string]interface{}{
			"cart_id": cart.ID,
			"error":   err.Error(),
		})
	}
	return cart, nil
}

// sessionToken keeps a token the provider knows and mints one otherwise.
func (s *cartService) sessionToken(ctx context.Context, token string) (string, error) {
	if token != "" {
		known, err := s.sessions.Exists(ctx, token)
		if err != nil {
			logger.Error("Failed to check session token", err)
			return "", storageFailure(err)
		}
		if known {
			return token, nil
		}
		logger.Debug("Unknown session token, minting a new one")
	}

	minted, err := s.sessions.Create(ctx)
	if err != nil {
		logger.Error("Failed to create session", err)
		return "", storageFailure(err)
	}
	logger.Info("Anonymous session created")
	return minted, nil
}

func (s *cartService) GetCart(ctx context.Context, cartID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, storageFailure(err)
	}
	return cart, nil
}

// lockCart runs fn with the cart row locked and bumps updated_at on success.
func (s *cartService) lockCart(ctx context.Context, cartID uint, fn func(repo repository.CartRepository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.cartRepo.WithTx(tx)
		if _, err := repo.LockByID(ctx, cartID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartNotFound
			}
			return storageFailure(err)
		}
		if err := fn(repo); err != nil {
			return err
		}
		if err := repo.Touch(ctx, cartID); err != nil {
			return storageFailure(err)
		}
		return nil
	})
}

func (s *cartService) AddItem(ctx context.Context, cartID, stockUnitID uint, quantity int) (*model.CartItem, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"cart_id":          cartID,
		"product_stock_id": stockUnitID,
		"quantity":         quantity,
	})

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	unit, err := s.ledger.GetStockUnit(ctx, stockUnitID)
	if err != nil {
		return nil, err
	}

	var item *model.CartItem
	err = s.lockCart(ctx, cartID, func(repo repository.CartRepository) error {
		if s.ledger.Policy() == StockPolicyEnforce {
			resulting := quantity
			existing, err := repo.FindItemByStock(ctx, cartID, stockUnitID)
			switch {
			case err == nil:
				resulting += existing.Quantity
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return storageFailure(err)
			}
			if err := s.ledger.CheckAvailable(unit, resulting); err != nil {
				return err
			}
		}

		upserted, err := repo.UpsertItem(ctx, cartID, stockUnitID, quantity)
		if err != nil {
			return storageFailure(err)
		}
		item = upserted
		return nil
	})
	if err != nil {
		logger.Warn("Failed to add item to cart", map[string]interface{}{
			"cart_id":          cartID,
			"product_stock_id": stockUnitID,
			"error":            err.Error(),
		})
		return nil, err
	}

	logger.Info("Cart item added", map[string]interface{}{
		"cart_id":      cartID,
		"cart_item_id": item.ID,
		"quantity":     item.Quantity,
	})
	return item, nil
}

func (s *cartService) UpdateItem(ctx context.Context, cartID, itemID uint, quantity int) (*model.CartItem, bool, error) {
	logger.Info("Updating cart item", map[string]interface{}{
		"cart_id":      cartID,
		"cart_item_id": itemID,
		"quantity":     quantity,
	})

	if quantity < 0 {
		return nil, false, ErrInvalidQuantity
	}

	var (
		item    *model.CartItem
		removed bool
	)
	err := s.lockCart(ctx, cartID, func(repo repository.CartRepository) error {
		found, err := repo.FindItem(ctx, cartID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartItemNotFound
			}
			return storageFailure(err)
		}

		if quantity == 0 {
			if err := repo.DeleteItem(ctx, found.ID); err != nil {
				return storageFailure(err)
			}
			removed = true
			return nil
		}

		if err := s.ledger.CheckAvailable(&found.ProductStock, quantity); err != nil {
			return err
		}
		if err := repo.UpdateItemQuantity(ctx, found.ID, quantity); err != nil {
			return storageFailure(err)
		}
		found.Quantity = quantity
		item = found
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return item, removed, nil
}

func (s *cartService) RemoveItem(ctx context.Context, cartID, itemID uint) error {
	logger.Info("Removing cart item", map[string]interface{}{
		"cart_id":      cartID,
		"cart_item_id": itemID,
	})

	return s.lockCart(ctx, cartID, func(repo repository.CartRepository) error {
		if _, err := repo.FindItem(ctx, cartID, itemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartItemNotFound
			}
			return storageFailure(err)
		}
		if err := repo.DeleteItem(ctx, itemID); err != nil {
			return storageFailure(err)
		}
		return nil
	})
}

func (s *cartService) ClearCart(ctx context.Context, cartID uint) error {
	logger.Info("Clearing cart", map[string]interface{}{
		"cart_id": cartID,
	})

	return s.lockCart(ctx, cartID, func(repo repository.CartRepository) error {
		if err := repo.DeleteItems(ctx, cartID); err != nil {
			return storageFailure(err)
		}
		return nil
	})
}

// MergeOnLogin folds the anonymous cart of sessionToken into the user's cart
// in one transaction. Quantities of shared stock units are summed.
func (s *cartService) MergeOnLogin(ctx context.Context, sessionToken string, userID uint) (*model.Cart, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}

	logger.Info("Merging anonymous cart on login", map[string]interface{}{
		"user_id":     userID,
		"has_session": sessionToken != "",
	})

	var (
		userCartID uint
		merged     bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.cartRepo.WithTx(tx)

		userCart, err := repo.GetOrCreateByUser(ctx, userID)
		if err != nil {
			return storageFailure(err)
		}
		userCartID = userCart.ID

		if sessionToken == "" {
			return nil
		}
		anon, err := repo.FindBySessionToken(ctx, sessionToken)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return storageFailure(err)
		}
		if len(anon.Items) == 0 {
			return nil
		}

		if _, err := repo.LockByID(ctx, userCart.ID); err != nil {
			return storageFailure(err)
		}
		if _, err := repo.LockByID(ctx, anon.ID); err != nil {
			return storageFailure(err)
		}

		userItems, err := repo.FindItems(ctx, userCart.ID)
		if err != nil {
			return storageFailure(err)
		}
		anonItems, err := repo.FindItems(ctx, anon.ID)
		if err != nil {
			return storageFailure(err)
		}

		existing := make(map[uint]model.CartItem, len(userItems))
		for _, item := range userItems {
			existing[item.ProductStockID] = item
		}

		for _, line := range anonItems {
			target, ok := existing[line.ProductStockID]
			if !ok {
				if err := repo.MoveItem(ctx, line.ID, userCart.ID); err != nil {
					return storageFailure(err)
				}
				continue
			}
			if err := repo.UpdateItemQuantity(ctx, target.ID, target.Quantity+line.Quantity); err != nil {
				return storageFailure(err)
			}
			if err := repo.DeleteItem(ctx, line.ID); err != nil {
				return storageFailure(err)
			}
		}

		if err := repo.Delete(ctx, anon.ID); err != nil {
			return storageFailure(err)
		}
		if err := repo.Touch(ctx, userCart.ID); err != nil {
			return storageFailure(err)
		}
		merged = true
		return nil
	})
	if err != nil {
		logger.Error("Failed to merge carts", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if merged {
		if err := s.sessions.Delete(ctx, sessionToken); err != nil {
			logger.Warn("Failed to drop merged session", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
		logger.Info("Anonymous cart merged", map[string]interface{}{
			"user_id": userID,
			"cart_id": userCartID,
		})
	}

	return s.GetCart(ctx, userCartID)
}

func (s *cartService) PurgeStaleAnonymousCarts(ctx context.Context, idleFor time.Duration) (int64, error) {
	deleted, err := s.cartRepo.DeleteStaleAnonymous(ctx, time.Now().Add(-idleFor))
	if err != nil {
		return 0, storageFailure(err)
	}
	if deleted > 0 {
		logger.Info("Purged stale anonymous carts", map[string]interface{}{
			"deleted":  deleted,
			"idle_for": idleFor.String(),
		})
	}
	return deleted, nil
}
