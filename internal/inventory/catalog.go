// Package inventory owns the in-process stock catalog and the allocation
// algorithm that places reservation holds against it.
package inventory

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// Catalog is the process-wide stock store. Each record carries its own
// lock so reservations against distinct products never contend.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	mu  sync.Mutex
	rec Record
}

func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]*entry)}
}

// Put adds or replaces a record.
func (c *Catalog) Put(rec Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[rec.ProductID] = &entry{rec: rec}
}

// Get returns a snapshot of one record.
func (c *Catalog) Get(productID string) (Record, bool) {
	c.mu.RLock()
	e, ok := c.entries[productID]
	c.mu.RUnlock()

	if !ok {
		return Record{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec, true
}

// Snapshot returns current records for the given product ids, in order.
// Unknown products come back as zero-quantity placeholders so callers see
// one row per requested id.
func (c *Catalog) Snapshot(productIDs []string) []Record {
	out := make([]Record, 0, len(productIDs))
	for _, id := range productIDs {
		rec, ok := c.Get(id)
		if !ok {
			rec = Record{
				ProductID:   id,
				ProductName: "Unknown",
				Warehouse:   "N/A",
				UnitPrice:   decimal.Zero,
			}
		}
		out = append(out, rec)
	}
	return out
}

// List returns snapshots of every record, ordered by product id.
func (c *Catalog) List() []Record {
	c.mu.RLock()
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	c.mu.RUnlock()

	sort.Strings(ids)

	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := c.Get(id); ok {
			out = append(out, rec)
		}
	}
	return out
}

// reserve places a hold of up to want units on a product. The read of the
// free quantity and the increment of Reserved happen under the record's
// lock, so concurrent holds on the same product never lose updates.
// Returns the quantity actually held and whether the product exists.
func (c *Catalog) reserve(productID string, want int) (int, bool) {
	c.mu.RLock()
	e, ok := c.entries[productID]
	c.mu.RUnlock()

	if !ok {
		return 0, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	free := e.rec.FreeToReserve()
	if free <= 0 || want <= 0 {
		return 0, true
	}

	got := want
	if free < got {
		got = free
	}
	e.rec.Reserved += got

	return got, true
}

// SeedCatalog returns the demo catalog the gateway starts with.
func SeedCatalog() *Catalog {
	c := NewCatalog()
	for _, rec := range []Record{
		{ProductID: "PROD-001", ProductName: "Wireless Headphones", Available: 100, Warehouse: "WH-A1", UnitPrice: decimal.RequireFromString("49.99")},
		{ProductID: "PROD-002", ProductName: "Phone Case", Available: 250, Warehouse: "WH-B2", UnitPrice: decimal.RequireFromString("19.99")},
		{ProductID: "PROD-003", ProductName: "USB Cable", Available: 500, Warehouse: "WH-C3", UnitPrice: decimal.RequireFromString("9.99")},
		{ProductID: "PROD-004", ProductName: "Laptop Stand", Available: 25, Warehouse: "WH-A1", UnitPrice: decimal.RequireFromString("79.99")},
		{ProductID: "PROD-005", ProductName: "Webcam", Available: 5, Warehouse: "WH-B2", UnitPrice: decimal.RequireFromString("89.99")},
	} {
		c.Put(rec)
	}
	return c
}
