// Package money provides fixed-precision amount handling.
//
// Every monetary value in the system is a decimal.Decimal normalized to two
// fractional digits. Normalizing before every persisted write and comparison
// keeps repeated partial payments from accumulating drift.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when an input cannot be parsed as a number.
var ErrInvalidAmount = errors.New("invalid amount")

// Precision is the number of fractional digits kept on all amounts.
const Precision = 2

// Tolerance is the largest difference treated as equal when comparing sums,
// e.g. validating that custom split amounts add up to the item total.
var Tolerance = decimal.New(1, -Precision) // 0.01

// Parse converts a numeric string into a normalized amount.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return Normalize(d), nil
}

// FromFloat converts a float into a normalized amount.
func FromFloat(f float64) decimal.Decimal {
	return Normalize(decimal.NewFromFloat(f))
}

// Normalize rounds d to Precision fractional digits, half away from zero.
func Normalize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Precision)
}

// WithinTolerance reports whether a and b differ by at most Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().Cmp(Tolerance) <= 0
}
