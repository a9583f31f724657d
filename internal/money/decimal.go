// Package money wraps arbitrary-precision decimal math used for conversion
// and display. Amounts travel as text so no value ever passes through float64.
package money

import (
	"fmt"
	"strings"

	"fxconv/internal/domain"

	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits kept by Divide.
const Precision = 20

// IsEmptyAmount reports whether text is the "no amount" sentinel.
func IsEmptyAmount(text string) bool {
	switch strings.TrimSpace(text) {
	case "", "0", "0.":
		return true
	}
	return false
}

func ParseAmount(text string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", text, err)
	}
	return d, nil
}

// ParseRate parses a raw rate and rejects non-positive values.
func ParseRate(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidRate, raw)
	}
	if d.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: %s is not positive", domain.ErrInvalidRate, d)
	}
	return d, nil
}

// Divide returns a/b rounded half-up at Precision digits.
func Divide(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, domain.ErrInvalidRate
	}
	return a.DivRound(b, Precision), nil
}

func Multiply(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b)
}

// MulDiv computes a*m/d, multiplying first so the only rounding happens at
// the final division.
func MulDiv(a, m, d decimal.Decimal) (decimal.Decimal, error) {
	return Divide(Multiply(a, m), d)
}

// ToFixed renders value with exactly places fractional digits, rounding half
// away from zero.
func ToFixed(value decimal.Decimal, places int) string {
	return value.StringFixed(int32(places))
}
