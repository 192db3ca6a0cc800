package gateway

import (
	"errors"

	"order-gateway/internal/breaker"
	"order-gateway/internal/downstream"
	"order-gateway/internal/inventory"
	"order-gateway/internal/orders"
)

// Failure codes carried by unsuccessful outcomes.
const (
	CodeOrderCreationFailed = "ORDER_CREATION_FAILED"
)

// Categories a boundary adapter maps to transport status indicators.
const (
	CategoryUnavailable = "UNAVAILABLE"
	CategoryValidation  = "VALIDATION"
	CategoryNotFound    = "NOT_FOUND"
	CategoryInternal    = "INTERNAL"
)

// Outcome is the single result shape every orchestration path resolves
// to. Each request builds its outcome from scratch; nothing is carried
// over from a previous attempt.
type Outcome struct {
	Success bool
	State   RequestState

	// Populated on success.
	Order             *orders.Order
	ReservationID     string
	Lines             []inventory.LineResult
	InventoryReserved bool
	Message           string

	// Populated on failure.
	Code     string
	Category string
}

// Categorize maps a downstream error to a boundary category.
func Categorize(err error) string {
	switch {
	case errors.Is(err, breaker.ErrCircuitOpen):
		return CategoryUnavailable
	case downstream.IsRetryable(err):
		// Transient failures that survived the retry budget mean the
		// service is effectively unavailable.
		return CategoryUnavailable
	case errors.Is(err, downstream.ErrNotFound):
		return CategoryNotFound
	default:
		return CategoryInternal
	}
}
