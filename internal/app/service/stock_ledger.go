package service

import (
	"context"
	"errors"

	"github.com/ikkim/kidsshop-backend/internal/app/model"
	"github.com/ikkim/kidsshop-backend/internal/app/repository"
	"github.com/ikkim/kidsshop-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrStockUnitNotFound = errors.New("stock unit not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type StockPolicy string

const (
	// StockPolicyAdvisory never rejects; stock counters are informational.
	StockPolicyAdvisory StockPolicy = "advisory"
	// StockPolicyEnforce rejects line quantities above the stock counter.
	StockPolicyEnforce StockPolicy = "enforce"
)

// StockLedger is the read side of inventory. It resolves stock units and
// their current unit price, and never decrements counters.
type StockLedger interface {
	GetStockUnit(ctx context.Context, id uint) (*model.ProductStock, error)
	UnitPrice(unit *model.ProductStock) decimal.Decimal
	CheckAvailable(unit *model.ProductStock, quantity int) error
	Policy() StockPolicy
}

type stockLedger struct {
	productRepo repository.ProductRepository
	policy      StockPolicy
}

func NewStockLedger(productRepo repository.ProductRepository, policy StockPolicy) StockLedger {
	if policy == "" {
		policy = StockPolicyAdvisory
	}
	return &stockLedger{
		productRepo: productRepo,
		policy:      policy,
	}
}

func (l *stockLedger) Policy() StockPolicy {
	return l.policy
}

func (l *stockLedger) GetStockUnit(ctx context.Context, id uint) (*model.ProductStock, error) {
	unit, err := l.productRepo.FindStockByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Stock unit not found", map[string]interface{}{
				"product_stock_id": id,
			})
			return nil, ErrStockUnitNotFound
		}
		logger.Error("Failed to fetch stock unit", err, map[string]interface{}{
			"product_stock_id": id,
		})
		return nil, storageFailure(err)
	}
	// A unit whose product row is gone cannot be priced.
	if unit.Product().ID == 0 {
		logger.Warn("Stock unit has no product", map[string]interface{}{
			"product_stock_id": id,
		})
		return nil, ErrStockUnitNotFound
	}
	return unit, nil
}

func (l *stockLedger) UnitPrice(unit *model.ProductStock) decimal.Decimal {
	return unit.Product().EffectivePrice()
}

// CheckAvailable applies the stock policy to a resulting line quantity.
func (l *stockLedger) CheckAvailable(unit *model.ProductStock, quantity int) error {
	if quantity <= unit.Quantity {
		return nil
	}
	if l.policy != StockPolicyEnforce {
		logger.Debug("Line quantity exceeds stock (advisory)", map[string]interface{}{
			"product_stock_id": unit.ID,
			"requested":        quantity,
			"available":        unit.Quantity,
		})
		return nil
	}
	logger.Warn("Insufficient stock", map[string]interface{}{
		"product_stock_id": unit.ID,
		"requested":        quantity,
		"available":        unit.Quantity,
	})
	return ErrInsufficientStock
}
