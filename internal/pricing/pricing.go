// Package pricing derives the unit price a shopper pays for a product.
package pricing

import (
	"github.com/dukerupert/tillcart/internal/domain"
	"github.com/dukerupert/tillcart/internal/money"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Quote is the per-unit price and discount for a product at a quantity.
type Quote struct {
	UnitPrice    float64
	UnitDiscount float64
	Tier         domain.PriceTier
}

// Price computes the unit price for quantity units of product.
//
// The wholesale price replaces the retail price when wholesale mode is on, the
// product has a wholesale price and the quantity meets the larger of the
// product and customer minimums (or the product sets no minimum at all).
// A wholesale customer's discount percentage then applies on top of whichever
// base price was chosen. customer may be nil.
func Price(product domain.Product, quantity int, customer *domain.Customer, wholesaleMode bool) Quote {
	base := money.Dec(product.RetailPrice)
	tier := domain.PriceTierRetail

	if WholesaleEligible(product, quantity, customer, wholesaleMode) {
		base = money.Dec(product.WholesalePrice.Float64)
		tier = domain.PriceTierWholesale
	}

	var unitDiscount float64
	if customer.IsWholesale() {
		if pct := clampPercent(customer.DiscountPercent()); pct > 0 {
			factor := decimal.NewFromInt(1).Sub(money.Dec(pct).Div(hundred))
			discounted := base.Mul(factor)
			unitDiscount = money.Float(base.Sub(discounted))
			base = discounted
		}
	}

	return Quote{
		UnitPrice:    money.Float(base),
		UnitDiscount: unitDiscount,
		Tier:         tier,
	}
}

// WholesaleEligible reports whether the wholesale price applies.
func WholesaleEligible(product domain.Product, quantity int, customer *domain.Customer, wholesaleMode bool) bool {
	if !wholesaleMode || !product.HasWholesalePrice() {
		return false
	}

	productMin := product.MinWholesaleQuantity()
	if productMin == 0 {
		return true
	}

	return quantity >= max(productMin, customer.MinWholesaleQuantity())
}

// clampPercent keeps discounts within 0..100 so prices never go negative.
func clampPercent(pct float64) float64 {
	return min(max(pct, 0), 100)
}
