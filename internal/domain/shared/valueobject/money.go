package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// CurrencyCode is an ISO 4217 currency code
type CurrencyCode string

// ParseCurrencyCode validates and normalizes an ISO 4217 code
func ParseCurrencyCode(code string) (CurrencyCode, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("invalid currency code %q: %w", code, err)
	}
	return CurrencyCode(unit.String()), nil
}

// IsValidCurrencyCode reports whether code is a known ISO 4217 code
func IsValidCurrencyCode(code string) bool {
	_, err := ParseCurrencyCode(code)
	return err == nil
}

// String returns the code
func (c CurrencyCode) String() string {
	return string(c)
}

// RoundToStep rounds value half-up to the nearest multiple of step.
// A zero or negative step returns value unchanged.
func RoundToStep(value, step decimal.Decimal) decimal.Decimal {
	if !step.IsPositive() {
		return value
	}
	return value.Div(step).Round(0).Mul(step)
}

// IsZeroAtPrecision reports whether value rounds to zero at the given
// number of decimal digits.
func IsZeroAtPrecision(value decimal.Decimal, digits int32) bool {
	return value.Round(digits).IsZero()
}

// EqualAtPrecision reports whether a and b are equal once their difference
// is rounded to the given number of decimal digits.
func EqualAtPrecision(a, b decimal.Decimal, digits int32) bool {
	return IsZeroAtPrecision(a.Sub(b), digits)
}
