package orders

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

type Customer struct {
	ID              string
	Name            string
	Email           string
	ShippingAddress Address
	BillingAddress  Address
}

type LineItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	// LineTotal overrides the computed total when set by the caller.
	LineTotal decimal.Decimal
}

// Total returns the explicit line total when supplied, otherwise
// quantity x unit price.
func (li LineItem) Total() decimal.Decimal {
	if !li.LineTotal.IsZero() {
		return li.LineTotal
	}
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Draft is an order as submitted by a caller, before the order service has
// assigned it an identity.
type Draft struct {
	Customer Customer
	Items    []LineItem
	Notes    string
	Priority bool
}

// Validate checks the field-level rules the gateway enforces at its
// boundary before any downstream call.
func (d Draft) Validate() error {
	if d.Customer.ID == "" {
		return fmt.Errorf("customer id is required")
	}
	if len(d.Items) == 0 {
		return fmt.Errorf("at least one line item is required")
	}
	for i, it := range d.Items {
		if it.ProductID == "" {
			return fmt.Errorf("item %d: product id is required", i)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("item %d: quantity must be >= 1", i)
		}
		if !it.UnitPrice.IsPositive() {
			return fmt.Errorf("item %d: unit price must be > 0", i)
		}
	}
	return nil
}

// Order is immutable after confirmation except Status and UpdatedAt.
type Order struct {
	ID                string
	Customer          Customer
	Items             []LineItem
	Notes             string
	Priority          bool
	Status            Status
	TotalAmount       decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
	EstimatedDelivery time.Time
}
