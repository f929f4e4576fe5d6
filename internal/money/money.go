// Package money holds the fixed-point rules for monetary amounts.
// Amounts carry exactly two fractional digits; any input is rounded half-up
// once, at the boundary, and treated as exact afterwards.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept for every amount.
const Scale = 2

// Normalize rounds d half-up (away from zero) to Scale digits.
func Normalize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Parse reads a decimal string and normalizes it.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Normalize(d), nil
}

// Format renders d with exactly Scale fractional digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

// IsPositive reports whether d is strictly greater than zero.
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(decimal.Zero)
}
