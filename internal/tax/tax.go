package tax

// Calculator computes tax on an amount that has already had discounts taken off.
// Implementations: PercentageCalculator, NoTaxCalculator
type Calculator interface {
	// Rate returns the effective rate as a fraction (0.16 for 16%).
	Rate() float64

	// CalculateTax returns the tax owed on taxableBase, rounded to cents.
	// Non-positive bases owe no tax.
	CalculateTax(taxableBase float64) TaxResult
}

// TaxResult contains the calculated tax amount and breakdown.
type TaxResult struct {
	Amount    float64
	Breakdown []TaxBreakdown
}

// TaxBreakdown represents tax for a single named rate.
type TaxBreakdown struct {
	Name   string  // e.g., "Sales tax"
	Rate   float64 // e.g., 0.16 for 16%
	Amount float64
}

// RateFromPercent converts a configured percentage (16) to a fraction (0.16).
func RateFromPercent(percent float64) float64 {
	return percent / 100
}
