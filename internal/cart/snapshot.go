package cart

import (
	"slices"

	"github.com/dukerupert/tillcart/internal/domain"
	"github.com/dukerupert/tillcart/internal/stock"
)

// Snapshot is an immutable, ordered set of line items. Reducers never modify
// a Snapshot in place; they return a new one.
type Snapshot struct {
	items []domain.LineItem
}

// NewSnapshot builds a snapshot from items, copying the slice.
func NewSnapshot(items []domain.LineItem) Snapshot {
	return Snapshot{items: slices.Clone(items)}
}

// Items returns a copy of the line items in cart order.
func (s Snapshot) Items() []domain.LineItem {
	return slices.Clone(s.items)
}

// Len returns the number of line items.
func (s Snapshot) Len() int {
	return len(s.items)
}

// Find returns the line item for productID.
func (s Snapshot) Find(productID string) (domain.LineItem, bool) {
	if i := s.indexOf(productID); i >= 0 {
		return s.items[i], true
	}
	return domain.LineItem{}, false
}

func (s Snapshot) indexOf(productID string) int {
	return slices.IndexFunc(s.items, func(li domain.LineItem) bool {
		return li.ProductID == productID
	})
}

// upsert replaces the line for li.ProductID in place, or appends it.
func (s Snapshot) upsert(li domain.LineItem) Snapshot {
	items := slices.Clone(s.items)
	if i := s.indexOf(li.ProductID); i >= 0 {
		items[i] = li
	} else {
		items = append(items, li)
	}
	return Snapshot{items: items}
}

func (s Snapshot) without(productID string) Snapshot {
	i := s.indexOf(productID)
	if i < 0 {
		return s
	}
	items := make([]domain.LineItem, 0, len(s.items)-1)
	items = append(items, s.items[:i]...)
	items = append(items, s.items[i+1:]...)
	return Snapshot{items: items}
}

// Catalog is a lookup view over a catalog snapshot.
type Catalog struct {
	products map[string]domain.Product
}

// NewCatalog indexes products by ID. Later duplicates win.
func NewCatalog(products []domain.Product) Catalog {
	m := make(map[string]domain.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return Catalog{products: m}
}

// Lookup returns the product with id.
func (c Catalog) Lookup(id string) (domain.Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

// Len returns the number of products in the catalog.
func (c Catalog) Len() int {
	return len(c.products)
}

// PricingContext is everything besides quantity that determines a line's price.
type PricingContext struct {
	Customer      *domain.Customer
	WholesaleMode bool
	Catalog       Catalog
}

// Rules bundles the inputs reducers need besides the snapshot itself.
type Rules struct {
	Pricing PricingContext
	Stock   stock.Policy
}
