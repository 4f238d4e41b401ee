// Package money centralizes currency arithmetic for the pricing engine.
// Amounts stay exact decimals through every summation; rounding to two
// fractional digits happens only at presentation time.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percent returns pct percent of amount, unrounded.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// FloorZero clamps negative amounts to zero.
func FloorZero(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// Format renders an amount for display with exactly two fractional digits.
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Parse converts user/config input into an amount.
func Parse(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return amount, nil
}
