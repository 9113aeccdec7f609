package port

import (
	"context"

	"github.com/rl1809/stock-reserve/internal/core/domain"
)

type OrderLedger interface {
	// CommitOrder inserts the order and applies the conditional stock
	// decrement in a single local transaction. The decrement is re-checked at
	// commit time: if stock changed since the availability check, the
	// transaction rolls back and domain.ErrInsufficientStock (or
	// domain.ErrItemNotFound) is returned with no row persisted.
	CommitOrder(ctx context.Context, order domain.Order) error

	// ListAll returns committed orders, newest first.
	ListAll(ctx context.Context) ([]domain.Order, error)
}
