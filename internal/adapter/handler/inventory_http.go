package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/rl1809/stock-reserve/internal/core/domain"
	"github.com/rl1809/stock-reserve/internal/core/service"
)

type StockService interface {
	GetStock(ctx context.Context, item string) (domain.StockItem, error)
	ListStock(ctx context.Context) ([]domain.StockItem, error)
	ReduceStock(ctx context.Context, item string, qty int) (int, error)
	Restock(ctx context.Context, item string, qty int) (int, error)
}

type InventoryHandler struct {
	svc StockService
}

func NewInventoryHandler(svc StockService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /stock", h.ListStock)
	mux.HandleFunc("GET /stock/{item}", h.GetStock)
	mux.HandleFunc("POST /stock/{item}/{qty}", h.ReduceStock)
	mux.HandleFunc("POST /stock/{item}/restock/{qty}", h.Restock)
}

type stockResponse struct {
	Item  string `json:"item"`
	Stock int    `json:"stock"`
}

func (h *InventoryHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("item")
	item, err := h.svc.GetStock(r.Context(), name)
	if err != nil {
		h.writeError(w, err, name)
		return
	}
	writeJSON(w, http.StatusOK, stockResponse{Item: item.Item, Stock: item.Quantity})
}

func (h *InventoryHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListStock(r.Context())
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	out := make([]stockResponse, 0, len(items))
	for _, it := range items {
		out = append(out, stockResponse{Item: it.Item, Stock: it.Quantity})
	}
	writeJSON(w, http.StatusOK, map[string][]stockResponse{"items": out})
}

func (h *InventoryHandler) ReduceStock(w http.ResponseWriter, r *http.Request) {
	item := r.PathValue("item")

	qty, err := strconv.Atoi(r.PathValue("qty"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "quantity must be an integer"})
		return
	}

	remaining, err := h.svc.ReduceStock(r.Context(), item, qty)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			writeJSON(w, http.StatusConflict, struct {
				Error string `json:"error"`
				Item  string `json:"item"`
				Stock int    `json:"stock"`
			}{Error: "insufficient stock", Item: item, Stock: remaining})
			return
		}
		h.writeError(w, err, item)
		return
	}
	writeJSON(w, http.StatusOK, stockResponse{Item: item, Stock: remaining})
}

func (h *InventoryHandler) Restock(w http.ResponseWriter, r *http.Request) {
	item := r.PathValue("item")

	qty, err := strconv.Atoi(r.PathValue("qty"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "quantity must be an integer"})
		return
	}

	quantity, err := h.svc.Restock(r.Context(), item, qty)
	if err != nil {
		h.writeError(w, err, item)
		return
	}
	writeJSON(w, http.StatusOK, stockResponse{Item: item, Stock: quantity})
}

func (h *InventoryHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *InventoryHandler) writeError(w http.ResponseWriter, err error, item string) {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "item not found"})
	case errors.Is(err, service.ErrInvalidQuantity):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.Error().Err(err).Str("item", item).Msg("stock request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
