package radix

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxDecimalPlaces is the fractional precision of on-ledger Decimal values.
const MaxDecimalPlaces = 18

// Decimal is a fixed-point amount with at most 18 fractional digits, the
// precision the ledger uses for resource amounts and prices.
type Decimal struct {
	d decimal.Decimal
}

// NewDecimal parses a decimal string.
func NewDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	if d.Exponent() < -MaxDecimalPlaces {
		return Decimal{}, fmt.Errorf("decimal %q exceeds %d fractional digits", s, MaxDecimalPlaces)
	}
	return Decimal{d: d}, nil
}

// MustDecimal parses a decimal string and panics on error.
// Intended for literals.
func MustDecimal(s string) Decimal {
	d, err := NewDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DecimalFromFloat converts a float64, truncating to 18 fractional digits.
func DecimalFromFloat(f float64) Decimal {
	return Decimal{d: decimal.NewFromFloat(f).Truncate(MaxDecimalPlaces)}
}

// String returns the canonical decimal string.
func (d Decimal) String() string {
	return d.d.String()
}

// Float64 returns the nearest float64 value.
func (d Decimal) Float64() float64 {
	f, _ := d.d.Float64()
	return f
}

// Neg returns the negated amount.
func (d Decimal) Neg() Decimal {
	return Decimal{d: d.d.Neg()}
}

// IsNegative reports whether the amount is below zero.
func (d Decimal) IsNegative() bool {
	return d.d.IsNegative()
}

// IsZero reports whether the amount is zero.
func (d Decimal) IsZero() bool {
	return d.d.IsZero()
}

// MarshalJSON encodes the amount as a JSON string.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.d.String() + `"`), nil
}

// UnmarshalJSON decodes a JSON string amount.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := NewDecimal(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
