// Package quant provides small decimal helpers shared by the reporting
// and data layers.
package quant

import (
	"github.com/shopspring/decimal"
)

// PercentChange returns the fractional change from base to target.
// A zero base yields zero rather than dividing by it.
func PercentChange(base, target decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return target.Sub(base).Div(base)
}

// Profit returns the profit of applying a fractional return to the
// given capital.
func Profit(capital, fractionalReturn decimal.Decimal) decimal.Decimal {
	return capital.Mul(fractionalReturn)
}

// AsPercent scales a fractional return for display.
func AsPercent(fraction decimal.Decimal) decimal.Decimal {
	return fraction.Mul(decimal.NewFromInt(100))
}

// MinDecimal returns the smaller of two decimals.
func MinDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// MaxDecimal returns the larger of two decimals.
func MaxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
