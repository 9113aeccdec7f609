package domain

import (
	"errors"
	"time"
)

var (
	// ErrItemNotFound is returned when an item key has no ledger entry.
	ErrItemNotFound = errors.New("item not found")

	// ErrInsufficientStock is returned when a conditional decrement cannot
	// be applied without driving the quantity negative.
	ErrInsufficientStock = errors.New("insufficient stock")
)

type StockItem struct {
	Item      string
	Quantity  int
	UpdatedAt time.Time
}
