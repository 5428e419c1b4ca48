package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MinorUnitDigits is the number of fractional digits in one major unit.
const MinorUnitDigits = 2

// MaxPrice is the largest accepted unit price in minor units (1,000,000.00).
const MaxPrice int64 = 100_000_000

var (
	ErrInvalidPrice   = errors.New("price must be a decimal number")
	ErrNegativePrice  = errors.New("price must not be negative")
	ErrPricePrecision = fmt.Errorf("price must have at most %d decimal places", MinorUnitDigits)
	ErrPriceTooLarge  = fmt.Errorf("price must not exceed %s", FormatPrice(MaxPrice))
	ErrAmountOverflow = errors.New("amount out of range")
)

// ParsePrice converts a decimal string such as "12.50" to minor units.
func ParsePrice(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	if d.IsNegative() {
		return 0, ErrNegativePrice
	}
	minor := d.Shift(MinorUnitDigits)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, ErrPricePrecision
	}
	if minor.GreaterThan(decimal.NewFromInt(MaxPrice)) {
		return 0, ErrPriceTooLarge
	}
	return minor.IntPart(), nil
}

// MulAmount returns price*quantity, failing on negative inputs or overflow.
func MulAmount(price int64, quantity int) (int64, error) {
	if price < 0 || quantity < 0 {
		return 0, ErrAmountOverflow
	}
	q := int64(quantity)
	if q != 0 && price > math.MaxInt64/q {
		return 0, ErrAmountOverflow
	}
	return price * q, nil
}

// AddAmount returns a+b for non-negative amounts, failing on overflow.
func AddAmount(a, b int64) (int64, error) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, ErrAmountOverflow
	}
	return a + b, nil
}

// FormatPrice renders minor units as a fixed two-place decimal string.
func FormatPrice(minor int64) string {
	return decimal.New(minor, -MinorUnitDigits).StringFixed(MinorUnitDigits)
}
