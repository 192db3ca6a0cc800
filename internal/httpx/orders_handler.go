// Package httpx is the HTTP boundary: it translates requests into drafts,
// runs them through the gateway and maps outcomes to status codes.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"order-gateway/internal/downstream"
	"order-gateway/internal/gateway"
	"order-gateway/internal/inventory"
	"order-gateway/internal/orders"
	"order-gateway/internal/redisx"
)

// Gateway is the orchestration surface the handler calls into.
type Gateway interface {
	CreateOrderWithInventory(ctx context.Context, draft orders.Draft) gateway.Outcome
	CreateOrderOnly(ctx context.Context, draft orders.Draft) gateway.Outcome
}

type OrdersHandler struct {
	Gateway Gateway
	Orders  orders.Backend
	Catalog *inventory.Catalog
	// Redis caches order reads; all cache errors are soft and fall
	// through to the backend. May be nil.
	Redis *redis.Client
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Post("/orders/simple", h.createOrderSimple)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/inventory", h.listInventory)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": false, "error_message": msg})
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.Gateway.CreateOrderWithInventory)
}

func (h *OrdersHandler) createOrderSimple(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.Gateway.CreateOrderOnly)
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request, run func(context.Context, orders.Draft) gateway.Outcome) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	draft := req.toDraft()
	if err := draft.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome := run(r.Context(), draft)
	if !outcome.Success {
		writeJSON(w, statusFor(outcome.Category), toCreateOrderResponse(outcome))
		return
	}

	writeJSON(w, http.StatusCreated, toCreateOrderResponse(outcome))
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrder, orderID)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	order, err := h.Orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, downstream.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Error().Err(err).Str("order_id", orderID).Msg("order lookup failed")
		writeError(w, http.StatusInternalServerError, "order lookup failed")
		return
	}

	body, _ := json.Marshal(toOrderDetail(order))
	if h.Redis != nil {
		_ = h.Redis.Set(ctx, key, body, redisx.TTLOrderCache).Err()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *OrdersHandler) listInventory(w http.ResponseWriter, r *http.Request) {
	var recs []inventory.Record
	if ids := r.URL.Query().Get("ids"); ids != "" {
		var productIDs []string
		for _, id := range strings.Split(ids, ",") {
			if t := strings.TrimSpace(id); t != "" {
				productIDs = append(productIDs, t)
			}
		}
		recs = h.Catalog.Snapshot(productIDs)
	} else {
		recs = h.Catalog.List()
	}

	writeJSON(w, http.StatusOK, toStockDTOs(recs))
}

// statusFor maps outcome categories to HTTP status codes.
func statusFor(category string) int {
	switch category {
	case gateway.CategoryUnavailable:
		return http.StatusServiceUnavailable
	case gateway.CategoryValidation:
		return http.StatusBadRequest
	case gateway.CategoryNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
