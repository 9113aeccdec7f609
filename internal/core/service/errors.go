package service

import (
	"errors"
	"fmt"

	"github.com/rl1809/stock-reserve/internal/core/domain"
)

var (
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
	ErrDuplicateRequest     = errors.New("duplicate request")
	ErrInventoryUnavailable = errors.New("inventory service unavailable")
)

// InsufficientStockError reports a rejected reservation. Available is only
// meaningful when AtCommit is false; a commit-time rejection happens after
// stock changed under a concurrent order, and the losing transaction does not
// observe the winner's final quantity.
type InsufficientStockError struct {
	Requested int
	Available int
	AtCommit  bool
}

func (e *InsufficientStockError) Error() string {
	if e.AtCommit {
		return fmt.Sprintf("insufficient stock: stock changed before commit, requested %d", e.Requested)
	}
	return fmt.Sprintf("insufficient stock: requested %d, available %d", e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return domain.ErrInsufficientStock }
