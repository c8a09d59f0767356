package tax

// NoTaxCalculator returns zero tax for all calculations.
// Used when tax collection is switched off in configuration.
type NoTaxCalculator struct{}

// NewNoTaxCalculator creates a new no-tax calculator.
func NewNoTaxCalculator() Calculator {
	return &NoTaxCalculator{}
}

// Rate always returns zero.
func (c *NoTaxCalculator) Rate() float64 {
	return 0
}

// CalculateTax always returns zero tax.
func (c *NoTaxCalculator) CalculateTax(taxableBase float64) TaxResult {
	return TaxResult{}
}
