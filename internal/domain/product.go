package domain

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// =============================================================================
// CATALOG TYPES
// =============================================================================

// Product is a catalog entry as seen by the cart. The catalog owns and mutates
// products; the cart only ever holds copies.
type Product struct {
	ID   string
	Name string

	// Pricing
	RetailPrice     float64
	WholesalePrice  pgtype.Float8 // Unset or <= 0 disables the wholesale tier
	MinWholesaleQty pgtype.Int4

	// Inventory
	StockQuantity int
	MinStock      pgtype.Int4 // Per-product low stock threshold
}

// HasWholesalePrice reports whether the product defines a usable wholesale price.
func (p Product) HasWholesalePrice() bool {
	return p.WholesalePrice.Valid && p.WholesalePrice.Float64 > 0
}

// MinWholesaleQuantity returns the product's minimum wholesale quantity, 0 when unset.
func (p Product) MinWholesaleQuantity() int {
	if !p.MinWholesaleQty.Valid || p.MinWholesaleQty.Int32 < 0 {
		return 0
	}
	return int(p.MinWholesaleQty.Int32)
}

// CustomerType distinguishes retail shoppers from wholesale accounts.
type CustomerType string

const (
	CustomerTypeRetail    CustomerType = "retail"
	CustomerTypeWholesale CustomerType = "wholesale"
)

// Customer is the shopper currently selected for the cart.
type Customer struct {
	ID                string
	Name              string
	Type              CustomerType
	WholesaleDiscount pgtype.Float8 // Percentage, e.g. 10 for 10%
	MinWholesaleQty   pgtype.Int4
}

// IsWholesale reports whether the customer is a wholesale account.
func (c *Customer) IsWholesale() bool {
	return c != nil && c.Type == CustomerTypeWholesale
}

// DiscountPercent returns the wholesale discount percentage, 0 when unset.
func (c *Customer) DiscountPercent() float64 {
	if c == nil || !c.WholesaleDiscount.Valid {
		return 0
	}
	return c.WholesaleDiscount.Float64
}

// MinWholesaleQuantity returns the customer's minimum wholesale quantity, 0 when unset.
func (c *Customer) MinWholesaleQuantity() int {
	if c == nil || !c.MinWholesaleQty.Valid || c.MinWholesaleQty.Int32 < 0 {
		return 0
	}
	return int(c.MinWholesaleQty.Int32)
}

// Float8 wraps a value as a valid pgtype.Float8.
func Float8(v float64) pgtype.Float8 {
	return pgtype.Float8{Float64: v, Valid: true}
}

// Int4 wraps a value as a valid pgtype.Int4.
func Int4(v int32) pgtype.Int4 {
	return pgtype.Int4{Int32: v, Valid: true}
}
