package tax

import (
	"github.com/dukerupert/tillcart/internal/money"
)

// PercentageCalculator applies one flat rate to the taxable base.
type PercentageCalculator struct {
	rate float64 // e.g., 0.16 for 16%
	name string
}

// NewPercentageCalculator creates a new percentage-based tax calculator.
func NewPercentageCalculator(rate float64) Calculator {
	return &PercentageCalculator{rate: rate, name: "Sales tax"}
}

// Rate returns the configured rate.
func (c *PercentageCalculator) Rate() float64 {
	return c.rate
}

// CalculateTax computes round2(taxableBase * rate).
func (c *PercentageCalculator) CalculateTax(taxableBase float64) TaxResult {
	if taxableBase <= 0 || c.rate <= 0 {
		return TaxResult{}
	}

	amount := money.Mul(taxableBase, c.rate)

	return TaxResult{
		Amount: amount,
		Breakdown: []TaxBreakdown{
			{Name: c.name, Rate: c.rate, Amount: amount},
		},
	}
}
