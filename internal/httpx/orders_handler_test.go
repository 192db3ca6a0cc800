package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-gateway/internal/gateway"
	"order-gateway/internal/inventory"
	"order-gateway/internal/orders"
)

// stubGateway returns canned outcomes so handler tests cover only the
// boundary mapping.
type stubGateway struct {
	outcome    gateway.Outcome
	lastDraft  orders.Draft
	simpleHits int
}

func (s *stubGateway) CreateOrderWithInventory(_ context.Context, d orders.Draft) gateway.Outcome {
	s.lastDraft = d
	return s.outcome
}

func (s *stubGateway) CreateOrderOnly(_ context.Context, d orders.Draft) gateway.Outcome {
	s.lastDraft = d
	s.simpleHits++
	return s.outcome
}

func successOutcome() gateway.Outcome {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	return gateway.Outcome{
		Success: true,
		State:   gateway.StateCompleted,
		Order: &orders.Order{
			ID:                "ORD-AAAA1111",
			Customer:          orders.Customer{ID: "CUST-42"},
			Status:            orders.StatusConfirmed,
			TotalAmount:       decimal.RequireFromString("179.98"),
			CreatedAt:         now,
			UpdatedAt:         now,
			EstimatedDelivery: now.AddDate(0, 0, 5),
		},
		ReservationID:     "RES-BBBB2222",
		InventoryReserved: true,
		Lines: []inventory.LineResult{
			{ProductID: "PROD-005", Requested: 2, Reserved: 2, Status: inventory.LineReserved, Message: "Fully reserved"},
		},
	}
}

func newTestServer(gw Gateway, backend orders.Backend, catalog *inventory.Catalog) *chi.Mux {
	r := NewRouter()
	h := &OrdersHandler{Gateway: gw, Orders: backend, Catalog: catalog}
	h.Register(r)
	return r
}

const validBody = `{
	"customer": {"customer_id": "CUST-42", "name": "Jamie Rivera", "email": "jamie@example.com"},
	"items": [{"product_id": "PROD-005", "quantity": 2, "unit_price": "89.99"}]
}`

func TestCreateOrder_Created(t *testing.T) {
	gw := &stubGateway{outcome: successOutcome()}
	r := newTestServer(gw, orders.NewMemoryBackend(), inventory.SeedCatalog())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(validBody)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp createOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "ORD-AAAA1111", resp.OrderID)
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.Equal(t, "179.98", resp.TotalAmount)
	assert.Equal(t, "2026-09-05", resp.EstimatedDeliveryDate)
	assert.Equal(t, "RES-BBBB2222", resp.ReservationID)
	assert.True(t, resp.InventoryReserved)
	require.Len(t, resp.Inventory, 1)
	assert.Equal(t, "RESERVED", resp.Inventory[0].Status)

	assert.Equal(t, "CUST-42", gw.lastDraft.Customer.ID)
	require.Len(t, gw.lastDraft.Items, 1)
	assert.Equal(t, 2, gw.lastDraft.Items[0].Quantity)
}

func TestCreateOrderSimple_UsesOrderOnlyPath(t *testing.T) {
	gw := &stubGateway{outcome: successOutcome()}
	r := newTestServer(gw, orders.NewMemoryBackend(), inventory.SeedCatalog())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders/simple", strings.NewReader(validBody)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, gw.simpleHits)
}

func TestCreateOrder_InvalidJSON(t *testing.T) {
	gw := &stubGateway{}
	r := newTestServer(gw, orders.NewMemoryBackend(), inventory.SeedCatalog())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid json")
}

func TestCreateOrder_ValidationFailure(t *testing.T) {
	gw := &stubGateway{}
	r := newTestServer(gw, orders.NewMemoryBackend(), inventory.SeedCatalog())

	body := `{"customer": {"customer_id": ""}, "items": []}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "customer id")
	assert.Empty(t, gw.lastDraft.Customer.ID, "validation failures never reach the gateway")
}

func TestCreateOrder_Unavailable(t *testing.T) {
	gw := &stubGateway{outcome: gateway.Outcome{
		Success:  false,
		State:    gateway.StateOrderFailed,
		Code:     gateway.CodeOrderCreationFailed,
		Category: gateway.CategoryUnavailable,
		Message:  "order-service: transient failure: connection refused",
	}}
	r := newTestServer(gw, orders.NewMemoryBackend(), inventory.SeedCatalog())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(validBody)))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp createOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "ORDER_CREATION_FAILED", resp.ErrorCode)
	assert.Empty(t, resp.OrderID)
}

func TestCreateOrder_DegradedInventoryStillCreated(t *testing.T) {
	out := successOutcome()
	out.ReservationID = ""
	out.Lines = nil
	out.InventoryReserved = false
	out.State = gateway.StateInventoryFailed
	out.Message = "order ORD-AAAA1111 created but inventory reservation is unavailable: circuit open"

	gw := &stubGateway{outcome: out}
	r := newTestServer(gw, orders.NewMemoryBackend(), inventory.SeedCatalog())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(validBody)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp createOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ORD-AAAA1111", resp.OrderID)
	assert.False(t, resp.InventoryReserved)
	assert.Contains(t, resp.Message, "inventory reservation is unavailable")
}

func TestGetOrder(t *testing.T) {
	backend := orders.NewMemoryBackend()
	created, err := backend.CreateOrder(context.Background(), orders.Draft{
		Customer: orders.Customer{ID: "CUST-42"},
		Items:    []orders.LineItem{{ProductID: "PROD-001", Quantity: 1, UnitPrice: decimal.RequireFromString("49.99")}},
	})
	require.NoError(t, err)

	r := newTestServer(&stubGateway{}, backend, inventory.SeedCatalog())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+created.ID, nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp orderDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.OrderID)
	assert.Equal(t, "CUST-42", resp.CustomerID)
	assert.Equal(t, "49.99", resp.TotalAmount)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "PROD-001", resp.Items[0].ProductID)
}

func TestGetOrder_NotFound(t *testing.T) {
	r := newTestServer(&stubGateway{}, orders.NewMemoryBackend(), inventory.SeedCatalog())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/ORD-DEADBEEF", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "order not found")
}

func TestListInventory_All(t *testing.T) {
	r := newTestServer(&stubGateway{}, orders.NewMemoryBackend(), inventory.SeedCatalog())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inventory", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []stockDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 5)
	assert.Equal(t, "PROD-001", resp[0].ProductID)
	assert.Equal(t, 100, resp[0].Available)
	assert.Equal(t, 100, resp[0].FreeToReserve)
}

func TestListInventory_ByIDs(t *testing.T) {
	r := newTestServer(&stubGateway{}, orders.NewMemoryBackend(), inventory.SeedCatalog())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inventory?ids=PROD-005,PROD-404", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []stockDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Webcam", resp[0].ProductName)
	assert.Equal(t, "Unknown", resp[1].ProductName)
	assert.Equal(t, 0, resp[1].Available)
}

func TestHealthz(t *testing.T) {
	r := newTestServer(&stubGateway{}, orders.NewMemoryBackend(), inventory.SeedCatalog())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
