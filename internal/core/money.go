// Package core holds the ledger domain model and the money engine.
//
// All monetary values are integer cents (minor currency units). Floating
// point never enters storage or comparison; the only float inputs are user
// supplied multipliers and percentages, and those go through decimal
// arithmetic before rounding back to cents.
package core

import (
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DisplayCurrency is the fixed currency every amount renders in. The
// ledger models a single currency; conversion is out of scope.
const DisplayCurrency = money.INR

var hundred = decimal.NewFromInt(100)

// ToCents converts a decimal amount to cents, rounding half away from
// zero. The rounding rule is pinned: 2.675 becomes 268, not 267.
func ToCents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}

// ParseCents converts a decimal string to cents. Both dot and comma are
// accepted as the decimal separator. Negative amounts are rejected;
// anything beyond two fractional digits rounds half away from zero.
func ParseCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

// FromCents renders cents as a plain decimal string with exactly two
// fractional digits. ParseCents(FromCents(x)) == x for every x >= 0.
func FromCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// Multiply scales cents by an arbitrary multiplier, rounding half away
// from zero.
func Multiply(cents int64, multiplier float64) int64 {
	return decimal.New(cents, 0).
		Mul(decimal.NewFromFloat(multiplier)).
		Round(0).IntPart()
}

// CalcPct returns percent of cents, rounded half away from zero. This is
// the commission formula: CalcPct(250000, 10) == 25000.
func CalcPct(cents int64, percent float64) int64 {
	return decimal.New(cents, 0).
		Mul(decimal.NewFromFloat(percent)).
		Div(hundred).
		Round(0).IntPart()
}

// FormatMoney renders cents in the display currency, e.g. "₹2,500.00".
func FormatMoney(cents int64) string {
	return money.New(cents, DisplayCurrency).Display()
}

// Duration is the span between start and end in decimal hours, clamped at
// zero. A zero start or end yields zero rather than a bogus span.
func Duration(start, end time.Time) float64 {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	h := end.Sub(start).Hours()
	if h < 0 {
		return 0
	}
	return h
}
