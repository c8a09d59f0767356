package cart

import (
	"slices"

	"github.com/dukerupert/tillcart/internal/domain"
	"github.com/dukerupert/tillcart/internal/money"
	"github.com/dukerupert/tillcart/internal/pricing"
)

// RecalcResult summarises one recalculation pass.
type RecalcResult struct {
	// Repriced counts lines whose price, discount, total or tier changed.
	Repriced int

	// Refreshed counts lines whose backing product snapshot changed without
	// affecting the price.
	Refreshed int

	// Missing lists products in the cart that the catalog no longer has.
	Missing []string
}

// Changed reports whether the pass produced a new snapshot.
func (r RecalcResult) Changed() bool {
	return r.Repriced > 0 || r.Refreshed > 0
}

// Recalculate reprices every line under pc, keeping quantities and order.
// Lines whose product is missing from the catalog keep their previous price.
// When nothing changes, s itself is returned.
func Recalculate(s Snapshot, pc PricingContext) (Snapshot, RecalcResult) {
	var (
		res   RecalcResult
		items []domain.LineItem
	)

	for i, line := range s.items {
		product, ok := pc.Catalog.Lookup(line.ProductID)
		if !ok {
			res.Missing = append(res.Missing, line.ProductID)
			continue
		}

		q := pricing.Price(product, line.Quantity, pc.Customer, pc.WholesaleMode)
		total := money.MulInt(q.UnitPrice, line.Quantity)

		repriced := q.UnitPrice != line.Price ||
			q.UnitDiscount != line.Discount ||
			total != line.Total ||
			q.Tier != line.Tier
		refreshed := product != line.Product

		if !repriced && !refreshed {
			continue
		}

		if items == nil {
			items = slices.Clone(s.items)
		}

		next := line
		next.Price = q.UnitPrice
		next.Discount = q.UnitDiscount
		next.Total = total
		next.Tier = q.Tier
		next.Product = product
		items[i] = next

		if repriced {
			res.Repriced++
		} else {
			res.Refreshed++
		}
	}

	if items == nil {
		return s, res
	}
	return Snapshot{items: items}, res
}
