package domain

import "time"

// Order is immutable once committed. Its quantity was decremented from the
// stock ledger in the same transaction that inserted it.
type Order struct {
	ID        string
	Item      string
	Quantity  int
	CreatedAt time.Time
}
