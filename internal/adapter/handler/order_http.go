package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/rl1809/stock-reserve/internal/core/domain"
	"github.com/rl1809/stock-reserve/internal/core/service"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, requestID, item string, qty int) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

type OrderHandler struct {
	svc   OrderService
	token string
}

func NewOrderHandler(svc OrderService, token string) *OrderHandler {
	return &OrderHandler{svc: svc, token: token}
}

func (h *OrderHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("POST /order/{item}/{qty}", BearerAuth(h.token, http.HandlerFunc(h.PlaceOrder)))
	mux.Handle("GET /orders", BearerAuth(h.token, http.HandlerFunc(h.ListOrders)))
}

type orderCommitted struct {
	Status    string    `json:"status"`
	OrderID   string    `json:"order_id"`
	Item      string    `json:"item"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

type orderRejected struct {
	Status    string `json:"status"`
	Reason    string `json:"reason"`
	Item      string `json:"item"`
	Quantity  int    `json:"quantity,omitempty"`
	Available *int   `json:"available,omitempty"`
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	item := r.PathValue("item")
	requestID := r.Header.Get("X-Request-Id")

	qty, err := strconv.Atoi(r.PathValue("qty"))
	if err != nil {
		ordersTotal.WithLabelValues("rejected_validation").Inc()
		writeJSON(w, http.StatusBadRequest, orderRejected{
			Status: "rejected", Reason: "quantity must be an integer", Item: item,
		})
		return
	}

	order, err := h.svc.PlaceOrder(r.Context(), requestID, item, qty)
	if err != nil {
		h.writeOrderError(w, err, item, qty)
		return
	}

	ordersTotal.WithLabelValues("committed").Inc()
	writeJSON(w, http.StatusCreated, orderCommitted{
		Status:    "committed",
		OrderID:   order.ID,
		Item:      order.Item,
		Quantity:  order.Quantity,
		CreatedAt: order.CreatedAt,
	})
}

func (h *OrderHandler) writeOrderError(w http.ResponseWriter, err error, item string, qty int) {
	var insufficient *service.InsufficientStockError

	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		ordersTotal.WithLabelValues("rejected_validation").Inc()
		writeJSON(w, http.StatusBadRequest, orderRejected{
			Status: "rejected", Reason: err.Error(), Item: item, Quantity: qty,
		})

	case errors.Is(err, domain.ErrItemNotFound):
		ordersTotal.WithLabelValues("rejected_not_found").Inc()
		writeJSON(w, http.StatusNotFound, orderRejected{
			Status: "rejected", Reason: "item not found", Item: item, Quantity: qty,
		})

	case errors.As(err, &insufficient):
		ordersTotal.WithLabelValues("rejected_insufficient").Inc()
		resp := orderRejected{
			Status: "rejected", Reason: "insufficient stock", Item: item, Quantity: qty,
		}
		if insufficient.AtCommit {
			resp.Reason = "stock changed before commit"
		} else {
			resp.Available = &insufficient.Available
		}
		writeJSON(w, http.StatusConflict, resp)

	case errors.Is(err, service.ErrDuplicateRequest):
		ordersTotal.WithLabelValues("rejected_duplicate").Inc()
		writeJSON(w, http.StatusConflict, orderRejected{
			Status: "rejected", Reason: "duplicate request", Item: item, Quantity: qty,
		})

	case errors.Is(err, service.ErrInventoryUnavailable):
		ordersTotal.WithLabelValues("failed_unavailable").Inc()
		writeJSON(w, http.StatusServiceUnavailable, orderRejected{
			Status: "failed", Reason: "inventory service unavailable", Item: item, Quantity: qty,
		})

	default:
		ordersTotal.WithLabelValues("failed_store").Inc()
		log.Error().Err(err).Str("item", item).Int("quantity", qty).Msg("order failed")
		writeJSON(w, http.StatusInternalServerError, orderRejected{
			Status: "failed", Reason: "internal error", Item: item, Quantity: qty,
		})
	}
}

type orderEntry struct {
	ID        string    `json:"id"`
	Item      string    `json:"item"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListOrders(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list orders failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	out := make([]orderEntry, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderEntry{ID: o.ID, Item: o.Item, Quantity: o.Quantity, CreatedAt: o.CreatedAt})
	}
	writeJSON(w, http.StatusOK, map[string][]orderEntry{"orders": out})
}

func (h *OrderHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
