package cart

import (
	"testing"

	"github.com/dukerupert/tillcart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wholesaleBeans() domain.Product {
	p := product("beans", 20, 100)
	p.WholesalePrice = domain.Float8(15)
	p.MinWholesaleQty = domain.Int4(10)
	return p
}

func TestRecalculate(t *testing.T) {
	beans := wholesaleBeans()
	mug := product("mug", 12.5, 40)

	s, _ := Add(Snapshot{}, retailRules(), beans, 12)
	s, _ = Add(s, retailRules(), mug, 2)

	t.Run("wholesale mode reprices eligible lines", func(t *testing.T) {
		pc := PricingContext{WholesaleMode: true, Catalog: NewCatalog([]domain.Product{beans, mug})}

		next, res := Recalculate(s, pc)

		assert.Equal(t, 1, res.Repriced)
		assert.Empty(t, res.Missing)

		line, _ := next.Find("beans")
		assert.Equal(t, 15.0, line.Price)
		assert.Equal(t, 180.0, line.Total)
		assert.Equal(t, 12, line.Quantity)
		assert.Equal(t, domain.PriceTierWholesale, line.Tier)

		untouched, _ := next.Find("mug")
		assert.Equal(t, 25.0, untouched.Total)
	})

	t.Run("wholesale customer discount applies to every line", func(t *testing.T) {
		customer := &domain.Customer{
			ID:                "cafe",
			Type:              domain.CustomerTypeWholesale,
			WholesaleDiscount: domain.Float8(10),
		}
		pc := PricingContext{Customer: customer, Catalog: NewCatalog([]domain.Product{beans, mug})}

		next, res := Recalculate(s, pc)

		assert.Equal(t, 2, res.Repriced)
		line, _ := next.Find("mug")
		assert.Equal(t, 11.25, line.Price)
		assert.Equal(t, 1.25, line.Discount)
		assert.Equal(t, 22.5, line.Total)
	})

	t.Run("keeps quantities and order", func(t *testing.T) {
		pc := PricingContext{WholesaleMode: true, Catalog: NewCatalog([]domain.Product{mug, beans})}

		next, _ := Recalculate(s, pc)

		items := next.Items()
		require.Len(t, items, 2)
		assert.Equal(t, "beans", items[0].ProductID)
		assert.Equal(t, 12, items[0].Quantity)
		assert.Equal(t, "mug", items[1].ProductID)
		assert.Equal(t, 2, items[1].Quantity)
	})

	t.Run("unchanged context returns the same snapshot", func(t *testing.T) {
		pc := PricingContext{Catalog: NewCatalog([]domain.Product{beans, mug})}

		next, res := Recalculate(s, pc)

		assert.False(t, res.Changed())
		assert.Equal(t, s, next)
	})

	t.Run("second pass is a no-op", func(t *testing.T) {
		pc := PricingContext{WholesaleMode: true, Catalog: NewCatalog([]domain.Product{beans, mug})}

		once, _ := Recalculate(s, pc)
		twice, res := Recalculate(once, pc)

		assert.False(t, res.Changed())
		assert.Equal(t, once, twice)
	})

	t.Run("product missing from catalog keeps its line", func(t *testing.T) {
		pc := PricingContext{WholesaleMode: true, Catalog: NewCatalog([]domain.Product{mug})}

		next, res := Recalculate(s, pc)

		assert.Equal(t, []string{"beans"}, res.Missing)
		before, _ := s.Find("beans")
		after, ok := next.Find("beans")
		require.True(t, ok)
		assert.Equal(t, before, after)
	})

	t.Run("catalog refresh without price change", func(t *testing.T) {
		restocked := mug
		restocked.StockQuantity = 400
		pc := PricingContext{Catalog: NewCatalog([]domain.Product{beans, restocked})}

		next, res := Recalculate(s, pc)

		assert.Zero(t, res.Repriced)
		assert.Equal(t, 1, res.Refreshed)
		line, _ := next.Find("mug")
		assert.Equal(t, 400, line.Product.StockQuantity)
	})

	t.Run("catalog price change", func(t *testing.T) {
		pricier := mug
		pricier.RetailPrice = 14
		pc := PricingContext{Catalog: NewCatalog([]domain.Product{beans, pricier})}

		next, res := Recalculate(s, pc)

		assert.Equal(t, 1, res.Repriced)
		line, _ := next.Find("mug")
		assert.Equal(t, 28.0, line.Total)
	})

	t.Run("input snapshot is untouched", func(t *testing.T) {
		before := s.Items()
		pc := PricingContext{WholesaleMode: true, Catalog: NewCatalog([]domain.Product{beans, mug})}

		_, _ = Recalculate(s, pc)

		assert.Equal(t, before, s.Items())
	})
}
