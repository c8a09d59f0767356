// Package money does cent-precision arithmetic on float64 amounts.
//
// Amounts travel through the engine as float64 but every computation is carried
// out in decimal and rounded to two places, so binary float error never
// accumulates across repeated recalculations.
package money

import (
	"math"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places kept for money amounts.
const Places = 2

// Dec converts a float amount to a decimal using its shortest representation,
// so 1.005 becomes exactly 1.005 rather than 1.00499999...
// NaN and infinities convert to zero.
func Dec(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// Float rounds d to cents and converts it back to float64.
func Float(d decimal.Decimal) float64 {
	return d.Round(Places).InexactFloat64()
}

// Round2 rounds v to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return Float(Dec(v))
}

// Mul returns round2(a x b).
func Mul(a, b float64) float64 {
	return Float(Dec(a).Mul(Dec(b)))
}

// MulInt returns round2(a x n).
func MulInt(a float64, n int) float64 {
	return Float(Dec(a).Mul(decimal.NewFromInt(int64(n))))
}

// Sub returns round2(a - b).
func Sub(a, b float64) float64 {
	return Float(Dec(a).Sub(Dec(b)))
}

// Sum returns round2 of the sum of vs.
func Sum(vs ...float64) float64 {
	total := decimal.Zero
	for _, v := range vs {
		total = total.Add(Dec(v))
	}
	return Float(total)
}

// Equal reports whether a and b are the same amount in cents.
func Equal(a, b float64) bool {
	return Dec(a).Round(Places).Equal(Dec(b).Round(Places))
}
