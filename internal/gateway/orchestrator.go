// Package gateway orchestrates the order and inventory services behind a
// single request: create the order first, then reserve stock against it,
// each call guarded by a circuit breaker and a retry budget, and every
// failure path resolved into one Outcome.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"order-gateway/internal/breaker"
	"order-gateway/internal/inventory"
	"order-gateway/internal/orders"
	"order-gateway/internal/retry"
)

// Downstream service names used for breaker registration and lookup.
const (
	ServiceOrder     = "order-service"
	ServiceInventory = "inventory-service"
)

// InventoryBackend is the reservation contract the orchestrator calls.
type InventoryBackend interface {
	Reserve(ctx context.Context, orderID string, lines []inventory.LineRequest) (*inventory.Reservation, error)
}

// EventSink receives domain events after a request completes. May be nil.
type EventSink interface {
	OrderCreated(o *orders.Order)
	InventoryReserved(r *inventory.Reservation)
}

// Options carries the per-service call settings, one set per downstream.
type Options struct {
	OrderRetry       retry.Policy
	InventoryRetry   retry.Policy
	OrderTimeout     time.Duration
	InventoryTimeout time.Duration
	Events           EventSink
}

const defaultCallTimeout = 5 * time.Second

type Orchestrator struct {
	orders    orders.Backend
	inventory InventoryBackend
	breakers  *breaker.Manager
	opts      Options
}

// New wires an orchestrator. The breaker manager must already have
// ServiceOrder and ServiceInventory registered.
func New(backend orders.Backend, inv InventoryBackend, breakers *breaker.Manager, opts Options) *Orchestrator {
	if opts.OrderTimeout <= 0 {
		opts.OrderTimeout = defaultCallTimeout
	}
	if opts.InventoryTimeout <= 0 {
		opts.InventoryTimeout = defaultCallTimeout
	}

	return &Orchestrator{
		orders:    backend,
		inventory: inv,
		breakers:  breakers,
		opts:      opts,
	}
}

// CreateOrderWithInventory creates the order, then reserves inventory
// keyed by the new order id. The calls are sequential: the reservation
// needs the identifier the first call produces. An inventory failure
// after the order exists degrades the response instead of hiding the
// order; the order is never rolled back.
func (g *Orchestrator) CreateOrderWithInventory(ctx context.Context, draft orders.Draft) Outcome {
	state := g.advance(StateStarted, StateOrderPending)

	order, err := g.createOrder(ctx, draft)
	if err != nil {
		state = g.advance(state, StateOrderFailed)
		log.Error().Err(err).Str("customer", draft.Customer.ID).Msg("order creation failed")

		return Outcome{
			Success:  false,
			State:    state,
			Code:     CodeOrderCreationFailed,
			Category: Categorize(err),
			Message:  err.Error(),
		}
	}
	state = g.advance(state, StateOrderCreated)
	log.Info().Str("order_id", order.ID).Msg("order created")

	state = g.advance(state, StateInventoryPending)

	reqs := make([]inventory.LineRequest, 0, len(draft.Items))
	for _, it := range draft.Items {
		reqs = append(reqs, inventory.LineRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	res, err := g.reserveInventory(ctx, order.ID, reqs)
	if err != nil {
		state = g.advance(state, StateInventoryFailed)
		log.Warn().Err(err).Str("order_id", order.ID).Msg("inventory reservation failed after order creation")

		// The order exists either way; say so instead of failing the
		// whole request.
		return Outcome{
			Success:           true,
			State:             state,
			Order:             order,
			InventoryReserved: false,
			Message:           fmt.Sprintf("order %s created but inventory reservation is unavailable: %v", order.ID, err),
		}
	}
	state = g.advance(state, StateInventoryReserved)
	state = g.advance(state, StateCompleted)

	log.Info().
		Str("order_id", order.ID).
		Str("reservation_id", res.ID).
		Bool("fulfilled", res.Fulfilled).
		Msg("order completed")

	if g.opts.Events != nil {
		g.opts.Events.OrderCreated(order)
		g.opts.Events.InventoryReserved(res)
	}

	return Outcome{
		Success:           true,
		State:             state,
		Order:             order,
		ReservationID:     res.ID,
		Lines:             res.Lines,
		InventoryReserved: res.Fulfilled,
	}
}

// CreateOrderOnly creates the order and skips inventory reservation.
func (g *Orchestrator) CreateOrderOnly(ctx context.Context, draft orders.Draft) Outcome {
	state := g.advance(StateStarted, StateOrderPending)

	order, err := g.createOrder(ctx, draft)
	if err != nil {
		state = g.advance(state, StateOrderFailed)
		log.Error().Err(err).Str("customer", draft.Customer.ID).Msg("order creation failed")

		return Outcome{
			Success:  false,
			State:    state,
			Code:     CodeOrderCreationFailed,
			Category: Categorize(err),
			Message:  err.Error(),
		}
	}
	state = g.advance(state, StateOrderCreated)
	state = g.advance(state, StateCompleted)

	log.Info().Str("order_id", order.ID).Msg("order created without inventory")

	if g.opts.Events != nil {
		g.opts.Events.OrderCreated(order)
	}

	return Outcome{
		Success: true,
		State:   state,
		Order:   order,
	}
}

func (g *Orchestrator) createOrder(ctx context.Context, draft orders.Draft) (*orders.Order, error) {
	return retry.Do(ctx, g.opts.OrderRetry, func(ctx context.Context) (*orders.Order, error) {
		return breaker.Do(g.breakers, ServiceOrder, func() (*orders.Order, error) {
			callCtx, cancel := context.WithTimeout(ctx, g.opts.OrderTimeout)
			defer cancel()
			return g.orders.CreateOrder(callCtx, draft)
		})
	})
}

func (g *Orchestrator) reserveInventory(ctx context.Context, orderID string, reqs []inventory.LineRequest) (*inventory.Reservation, error) {
	return retry.Do(ctx, g.opts.InventoryRetry, func(ctx context.Context) (*inventory.Reservation, error) {
		return breaker.Do(g.breakers, ServiceInventory, func() (*inventory.Reservation, error) {
			callCtx, cancel := context.WithTimeout(ctx, g.opts.InventoryTimeout)
			defer cancel()
			return g.inventory.Reserve(callCtx, orderID, reqs)
		})
	})
}

func (g *Orchestrator) advance(from, to RequestState) RequestState {
	if !CanTransition(from, to) {
		log.Warn().Str("from", string(from)).Str("to", string(to)).Msg("invalid request state transition")
		return from
	}
	return to
}
