package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rl1809/stock-reserve/internal/core/domain"
	"github.com/rl1809/stock-reserve/internal/port"
)

// OrderService runs the reservation protocol: validate, check availability
// over the network, then commit the order and the stock decrement as one
// local transaction. The availability check is only a fast-rejection
// optimization; admission is decided by the conditional decrement inside
// CommitOrder, re-checked at commit time.
type OrderService struct {
	inventory port.InventoryClient
	orders    port.OrderLedger
	idem      port.IdempotencyStore
}

func NewOrderService(inventory port.InventoryClient, orders port.OrderLedger, idem port.IdempotencyStore) *OrderService {
	return &OrderService{
		inventory: inventory,
		orders:    orders,
		idem:      idem,
	}
}

// PlaceOrder reserves qty units of item and commits an order. requestID is an
// optional idempotency key: a non-empty id is claimed before any other work,
// and a repeat of a claimed id is rejected. Without an id each call stands
// alone and decrements again. Any non-committed outcome releases the claim so
// the caller may retry with the same id.
func (s *OrderService) PlaceOrder(ctx context.Context, requestID, item string, qty int) (*domain.Order, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	claimed := false
	if requestID != "" && s.idem != nil {
		ok, err := s.idem.Reserve(ctx, requestID)
		if err != nil {
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return nil, ErrDuplicateRequest
		}
		claimed = true
	}

	order, err := s.reserve(ctx, item, qty)
	if err != nil && claimed {
		if relErr := s.idem.Release(ctx, requestID); relErr != nil {
			log.Error().Err(relErr).Str("request_id", requestID).
				Msg("failed to release idempotency key after rejected order")
		}
	}
	return order, err
}

func (s *OrderService) reserve(ctx context.Context, item string, qty int) (*domain.Order, error) {
	available, err := s.inventory.CheckAvailability(ctx, item)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return nil, err
		}
		// Transport failure or timeout. Nothing has been mutated; the caller
		// may retry the whole request.
		return nil, fmt.Errorf("%w: %v", ErrInventoryUnavailable, err)
	}
	if available < qty {
		return nil, &InsufficientStockError{Requested: qty, Available: available}
	}

	order := domain.Order{
		ID:        uuid.New().String(),
		Item:      item,
		Quantity:  qty,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.orders.CommitOrder(ctx, order); err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientStock):
			// A concurrent order won the race between check and commit. The
			// transaction rolled back; expected under contention.
			return nil, &InsufficientStockError{Requested: qty, AtCommit: true}
		case errors.Is(err, domain.ErrItemNotFound):
			return nil, err
		default:
			return nil, fmt.Errorf("commit order: %w", err)
		}
	}
	return &order, nil
}

// ListOrders returns committed orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListAll(ctx)
}
