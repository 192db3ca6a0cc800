package inventory

import "github.com/shopspring/decimal"

// Record is one product's stock position. Available and Reserved are
// tracked independently; reserving never decrements Available.
type Record struct {
	ProductID   string
	ProductName string
	Available   int
	Reserved    int
	Warehouse   string
	UnitPrice   decimal.Decimal
}

// FreeToReserve is the quantity still open for new holds.
func (r Record) FreeToReserve() int {
	return r.Available - r.Reserved
}

type LineStatus string

const (
	LineReserved   LineStatus = "RESERVED"
	LineLowStock   LineStatus = "LOW_STOCK"
	LineOutOfStock LineStatus = "OUT_OF_STOCK"
)

// LineRequest asks for a quantity of one product.
type LineRequest struct {
	ProductID string
	Quantity  int
}

// LineResult is the allocation outcome for one requested line.
type LineResult struct {
	ProductID string
	Requested int
	Reserved  int
	Status    LineStatus
	Message   string
}

// Reservation holds per-line outcomes in request order. Fulfilled is true
// only when every line was reserved in full; it is a signal, not a
// transaction, so partial lines keep their holds.
type Reservation struct {
	ID        string
	OrderID   string
	Lines     []LineResult
	Fulfilled bool
}
