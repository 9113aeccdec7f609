package service

import (
	"context"

	"github.com/rl1809/stock-reserve/internal/core/domain"
	"github.com/rl1809/stock-reserve/internal/port"
)

// InventoryService is the façade core over the stock ledger. It knows nothing
// about orders; it validates input and delegates to the ledger's atomic
// operations.
type InventoryService struct {
	ledger port.StockLedger
}

func NewInventoryService(ledger port.StockLedger) *InventoryService {
	return &InventoryService{ledger: ledger}
}

func (s *InventoryService) GetStock(ctx context.Context, item string) (domain.StockItem, error) {
	qty, err := s.ledger.GetQuantity(ctx, item)
	if err != nil {
		return domain.StockItem{}, err
	}
	return domain.StockItem{Item: item, Quantity: qty}, nil
}

func (s *InventoryService) ListStock(ctx context.Context) ([]domain.StockItem, error) {
	return s.ledger.ListAll(ctx)
}

// ReduceStock conditionally decrements stock. Returns the remaining quantity,
// or the current quantity with domain.ErrInsufficientStock when the decrement
// cannot be applied.
func (s *InventoryService) ReduceStock(ctx context.Context, item string, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	return s.ledger.TryDecrement(ctx, item, qty)
}

// Restock adds quantity back (compensation or replenishment).
func (s *InventoryService) Restock(ctx context.Context, item string, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	return s.ledger.Increment(ctx, item, qty)
}
