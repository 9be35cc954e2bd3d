// Package numeric holds the exact base-10 helpers used for money and quantities.
// Everything goes through shopspring/decimal; never convert to float64 for math.
package numeric

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidNumber = errors.New("invalid decimal number")

var (
	Zero = decimal.Zero
	One  = decimal.NewFromInt(1)
	// Half is the exact half unit (0.5) used by the half-meter special price.
	Half = decimal.New(5, -1)
)

// Parse reads a plain decimal string such as "12.50". Exponents, NaN and
// infinities are rejected.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "eEnNiI") {
		return Zero, ErrInvalidNumber
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, ErrInvalidNumber
	}
	return d, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Quantities are stored as numeric(12,3).
const QuantityScale int32 = 3

// MaxQuantity is the first value that no longer fits a stored quantity.
var MaxQuantity = decimal.New(1, 9)

// FitsQuantity reports whether d is stored without rounding or overflow.
func FitsQuantity(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(QuantityScale)) && d.Abs().LessThan(MaxQuantity)
}

func IsHalf(d decimal.Decimal) bool {
	return d.Equal(Half)
}

func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// Sum adds all values; an empty call returns zero.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Ptr returns a pointer to a copy of d.
func Ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// Money renders d with two fractional digits for display and logs.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
