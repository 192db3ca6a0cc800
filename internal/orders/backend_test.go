package orders

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-gateway/internal/downstream"
)

var orderIDPattern = regexp.MustCompile(`^ORD-[0-9A-F]{8}$`)

func validDraft() Draft {
	return Draft{
		Customer: Customer{
			ID:    "CUST-42",
			Name:  "Jamie Rivera",
			Email: "jamie@example.com",
			ShippingAddress: Address{
				Street: "1 Main St", City: "Springfield", State: "IL",
				PostalCode: "62701", Country: "US",
			},
		},
		Items: []LineItem{
			{ProductID: "PROD-001", ProductName: "Wireless Headphones", Quantity: 2, UnitPrice: decimal.RequireFromString("49.99")},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	b := NewMemoryBackend()

	order, err := b.CreateOrder(context.Background(), validDraft())
	require.NoError(t, err)

	assert.Regexp(t, orderIDPattern, order.ID)
	assert.Equal(t, StatusConfirmed, order.Status)
	assert.Equal(t, "CUST-42", order.Customer.ID)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("99.98")))
	assert.Equal(t, order.CreatedAt, order.UpdatedAt)
	assert.Equal(t, 1, b.Calls())
}

func TestCreateOrder_LineTotalOverride(t *testing.T) {
	b := NewMemoryBackend()

	draft := validDraft()
	draft.Items = []LineItem{{
		ProductID: "PROD-001",
		Quantity:  2,
		UnitPrice: decimal.RequireFromString("49.99"),
		LineTotal: decimal.RequireFromString("80.00"),
	}}

	order, err := b.CreateOrder(context.Background(), draft)
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("80.00")))
}

func TestCreateOrder_DeliveryEstimate(t *testing.T) {
	b := NewMemoryBackend()

	standard, err := b.CreateOrder(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Equal(t, standard.CreatedAt.AddDate(0, 0, 5), standard.EstimatedDelivery)

	draft := validDraft()
	draft.Priority = true
	priority, err := b.CreateOrder(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, priority.CreatedAt.AddDate(0, 0, 2), priority.EstimatedDelivery)
}

func TestCreateOrder_FailureInjection(t *testing.T) {
	b := NewMemoryBackend()
	boom := downstream.Transient("order-service", errors.New("connection refused"))

	b.FailWith(boom)
	_, err := b.CreateOrder(context.Background(), validDraft())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, b.Calls(), "failed calls still reach and count at the backend")

	b.FailWith(nil)
	_, err = b.CreateOrder(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Equal(t, 2, b.Calls())
}

func TestGetOrder(t *testing.T) {
	b := NewMemoryBackend()

	created, err := b.CreateOrder(context.Background(), validDraft())
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	fetched, err := b.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.CreatedAt, fetched.CreatedAt)
	assert.True(t, fetched.UpdatedAt.After(created.UpdatedAt), "reads refresh UpdatedAt")
}

func TestGetOrder_NotFound(t *testing.T) {
	b := NewMemoryBackend()

	_, err := b.GetOrder(context.Background(), "ORD-DEADBEEF")
	assert.ErrorIs(t, err, downstream.ErrNotFound)
}

func TestCreateOrder_CancelledContext(t *testing.T) {
	b := NewMemoryBackend()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.CreateOrder(ctx, validDraft())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, b.Calls())
}

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draft)
		wantErr string
	}{
		{"valid", func(d *Draft) {}, ""},
		{"missing customer id", func(d *Draft) { d.Customer.ID = "" }, "customer id"},
		{"no items", func(d *Draft) { d.Items = nil }, "at least one line item"},
		{"missing product id", func(d *Draft) { d.Items[0].ProductID = "" }, "product id"},
		{"zero quantity", func(d *Draft) { d.Items[0].Quantity = 0 }, "quantity"},
		{"zero unit price", func(d *Draft) { d.Items[0].UnitPrice = decimal.Zero }, "unit price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			err := d.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusConfirmed))
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusConfirmed, StatusCancelled))
	assert.False(t, CanTransition(StatusConfirmed, StatusPending))
	assert.False(t, CanTransition(StatusCancelled, StatusConfirmed))
}
