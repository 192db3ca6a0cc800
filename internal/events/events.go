// Package events publishes domain events for completed gateway requests.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"order-gateway/internal/inventory"
	"order-gateway/internal/orders"
)

const (
	EventOrderCreated      = "OrderCreated"
	EventInventoryReserved = "InventoryReserved"
)

// Envelope is the wire wrapper shared by all events. CorrelationID is the
// order id, which is also the partition key so one order's events stay
// ordered.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID     string `json:"order_id"`
	CustomerID  string `json:"customer_id"`
	Status      string `json:"status"`
	TotalAmount string `json:"total_amount"`
	Priority    bool   `json:"priority"`
}

type ReservationLine struct {
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Reserved  int    `json:"reserved"`
	Status    string `json:"status"`
}

type InventoryReservedPayload struct {
	ReservationID string            `json:"reservation_id"`
	OrderID       string            `json:"order_id"`
	Fulfilled     bool              `json:"fulfilled"`
	Lines         []ReservationLine `json:"lines"`
}

// Sink is where marshaled events go; the Kafka producer implements it.
type Sink interface {
	Publish(key, value []byte)
}

// Emitter formats envelopes and hands them to a sink.
type Emitter struct {
	Sink     Sink
	Producer string
}

func (e *Emitter) OrderCreated(o *orders.Order) {
	e.emit(EventOrderCreated, o.ID, OrderCreatedPayload{
		OrderID:     o.ID,
		CustomerID:  o.Customer.ID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount.String(),
		Priority:    o.Priority,
	})
}

func (e *Emitter) InventoryReserved(r *inventory.Reservation) {
	lines := make([]ReservationLine, 0, len(r.Lines))
	for _, ln := range r.Lines {
		lines = append(lines, ReservationLine{
			ProductID: ln.ProductID,
			Requested: ln.Requested,
			Reserved:  ln.Reserved,
			Status:    string(ln.Status),
		})
	}

	e.emit(EventInventoryReserved, r.OrderID, InventoryReservedPayload{
		ReservationID: r.ID,
		OrderID:       r.OrderID,
		Fulfilled:     r.Fulfilled,
		Lines:         lines,
	})
}

func (e *Emitter) emit(eventType, orderID string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("marshal event payload")
		return
	}

	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      e.Producer,
		CorrelationID: orderID,
		Payload:       body,
	}

	value, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("marshal event envelope")
		return
	}

	e.Sink.Publish([]byte(orderID), value)
}
