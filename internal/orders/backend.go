package orders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"order-gateway/internal/downstream"
)

// Backend is the order service contract the gateway orchestrates against.
// Implementations own marshaling and transport; the gateway only sees
// domain values and classified errors.
type Backend interface {
	CreateOrder(ctx context.Context, draft Draft) (*Order, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
}

const (
	priorityDeliveryDays = 2
	standardDeliveryDays = 5
)

// MemoryBackend simulates the order service in process: confirmed orders,
// computed totals and delivery estimates, retained for later lookup.
type MemoryBackend struct {
	mu       sync.RWMutex
	orders   map[string]*Order
	failWith error
	calls    int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{orders: make(map[string]*Order)}
}

// FailWith makes every subsequent call fail with err until cleared with
// nil. Used to exercise retry and breaker behavior.
func (b *MemoryBackend) FailWith(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failWith = err
}

// Calls returns how many CreateOrder calls reached the backend.
func (b *MemoryBackend) Calls() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.calls
}

func (b *MemoryBackend) CreateOrder(ctx context.Context, draft Draft) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls++
	if b.failWith != nil {
		return nil, b.failWith
	}

	total := decimal.Zero
	for _, it := range draft.Items {
		total = total.Add(it.Total())
	}

	deliveryDays := standardDeliveryDays
	if draft.Priority {
		deliveryDays = priorityDeliveryDays
	}

	now := time.Now().UTC()
	order := &Order{
		ID:                NewOrderID(),
		Customer:          draft.Customer,
		Items:             append([]LineItem(nil), draft.Items...),
		Notes:             draft.Notes,
		Priority:          draft.Priority,
		Status:            StatusConfirmed,
		TotalAmount:       total,
		CreatedAt:         now,
		UpdatedAt:         now,
		EstimatedDelivery: now.AddDate(0, 0, deliveryDays),
	}

	b.orders[order.ID] = order

	copied := *order
	return &copied, nil
}

func (b *MemoryBackend) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failWith != nil {
		return nil, b.failWith
	}

	order, ok := b.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, downstream.ErrNotFound)
	}

	// Reads refresh UpdatedAt; everything else stays frozen after
	// confirmation.
	order.UpdatedAt = time.Now().UTC()

	copied := *order
	copied.Items = append([]LineItem(nil), order.Items...)
	return &copied, nil
}
