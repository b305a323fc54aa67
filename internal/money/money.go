// Package money centralizes the exact-decimal conventions for monetary
// values: two fractional digits, never floating point.
package money

import "github.com/shopspring/decimal"

// Zero is the canonical zero amount.
var Zero = decimal.Zero

// Format renders an amount with exactly two fractional digits for display
// in messages and reports.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Percent returns part/whole*100, or zero when whole is not positive, so
// percentage computations never divide by zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100))
}
