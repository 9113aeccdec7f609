package port

import "context"

type InventoryClient interface {
	// CheckAvailability asks the inventory service for the current stock of
	// an item. Returns domain.ErrItemNotFound if the service reports an
	// unknown item, or a transport-level error (wrapped by the caller as
	// upstream-unavailable) when the service cannot be reached in time.
	CheckAvailability(ctx context.Context, item string) (int, error)
}
