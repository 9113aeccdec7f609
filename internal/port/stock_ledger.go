package port

import (
	"context"

	"github.com/rl1809/stock-reserve/internal/core/domain"
)

type StockLedger interface {
	// GetQuantity returns the current quantity for an item.
	// Returns domain.ErrItemNotFound when the item key is absent.
	GetQuantity(ctx context.Context, item string) (int, error)

	// TryDecrement atomically reduces the quantity by qty only if the current
	// quantity is sufficient, as a single conditional write. On success it
	// returns the remaining quantity. On failure it returns the current
	// quantity together with domain.ErrInsufficientStock, or
	// domain.ErrItemNotFound. Each call decrements again; the operation is
	// at-most-once per call, not idempotent.
	TryDecrement(ctx context.Context, item string, qty int) (int, error)

	// Increment restores quantity (restock/compensation) and returns the new
	// quantity. Returns domain.ErrItemNotFound for unknown items.
	Increment(ctx context.Context, item string, qty int) (int, error)

	// ListAll returns every stock item.
	ListAll(ctx context.Context) ([]domain.StockItem, error)
}
