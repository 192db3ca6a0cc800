package inventory

import (
	"fmt"

	"order-gateway/internal/orders"
)

// Allocator turns reservation requests into per-line holds against a
// catalog.
type Allocator struct {
	catalog *Catalog
}

func NewAllocator(c *Catalog) *Allocator {
	return &Allocator{catalog: c}
}

// Reserve allocates each requested line independently: a line gets as much
// of its quantity as is free to reserve, down to zero. Shortfalls are data
// (LOW_STOCK / OUT_OF_STOCK line statuses), never errors, and lines that
// did reserve keep their holds even when a sibling line comes up short.
//
// There is no idempotency key: calling Reserve twice with the same lines
// holds stock twice. Callers must ensure at-most-once invocation per
// logical reservation attempt.
func (a *Allocator) Reserve(orderID string, lines []LineRequest) *Reservation {
	res := &Reservation{
		ID:        "RES-" + orders.IDSuffix(),
		OrderID:   orderID,
		Lines:     make([]LineResult, 0, len(lines)),
		Fulfilled: true,
	}

	for _, ln := range lines {
		got, found := a.catalog.reserve(ln.ProductID, ln.Quantity)

		lr := LineResult{
			ProductID: ln.ProductID,
			Requested: ln.Quantity,
			Reserved:  got,
		}

		switch {
		case !found:
			lr.Status = LineOutOfStock
			lr.Message = "Product not found"
		case got == ln.Quantity:
			lr.Status = LineReserved
			lr.Message = "Fully reserved"
		case got > 0:
			lr.Status = LineLowStock
			lr.Message = fmt.Sprintf("Partially reserved: %d of %d", got, ln.Quantity)
		default:
			lr.Status = LineOutOfStock
			lr.Message = "No stock available"
		}

		if lr.Reserved != lr.Requested {
			res.Fulfilled = false
		}

		res.Lines = append(res.Lines, lr)
	}

	return res
}
