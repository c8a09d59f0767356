package cart

import (
	"github.com/dukerupert/tillcart/internal/domain"
	"github.com/dukerupert/tillcart/internal/money"
	"github.com/dukerupert/tillcart/internal/tax"
)

// Totals derives the money summary for items with a flat discount and a tax
// rate expressed as a fraction.
func Totals(items []domain.LineItem, flatDiscount, taxRate float64) domain.Totals {
	return TotalsWith(items, flatDiscount, tax.NewPercentageCalculator(taxRate))
}

// TotalsWith derives the money summary using calc for tax. An empty cart
// always totals to zero, whatever discount is pending. Negative discounts
// count as zero. A nil calc charges no tax.
func TotalsWith(items []domain.LineItem, flatDiscount float64, calc tax.Calculator) domain.Totals {
	if len(items) == 0 {
		return domain.Totals{}
	}
	if calc == nil {
		calc = tax.NewNoTaxCalculator()
	}

	lineTotals := make([]float64, 0, len(items))
	itemCount := 0
	for _, li := range items {
		lineTotals = append(lineTotals, li.Total)
		itemCount += li.Quantity
	}

	subtotal := money.Sum(lineTotals...)
	discount := money.Round2(max(flatDiscount, 0))
	taxable := max(money.Sub(subtotal, discount), 0)
	taxAmount := calc.CalculateTax(taxable).Amount

	return domain.Totals{
		Subtotal:  subtotal,
		Discount:  discount,
		Tax:       taxAmount,
		Total:     money.Sum(taxable, taxAmount),
		ItemCount: itemCount,
	}
}
