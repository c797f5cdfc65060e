package akka

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Quantity is an amount of units of an asset (or of the base currency when
// the asset is fiat).
type Quantity struct {
	value decimal.Decimal
}

// Q builds a Quantity from a number. Floats must be finite.
func Q[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

// Bounds of any amount handled by the ledger. Arithmetic on a decimal costs
// in proportion to its exponent, so untrusted input is checked before use.
const (
	maxScale         = 18 // digits after the decimal point
	maxIntegerDigits = 30
)

// checkBounds reports an ErrInvalidAmount when d is more precise than
// maxScale or larger than maxIntegerDigits.
func checkBounds(d decimal.Decimal) error {
	exp := int64(d.Exponent())
	if exp < -maxScale {
		return fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, maxScale)
	}
	if int64(d.NumDigits())+exp > maxIntegerDigits {
		return fmt.Errorf("%w: more than %d integer digits", ErrInvalidAmount, maxIntegerDigits)
	}
	return nil
}

// parseAmount parses untrusted text into a bounded decimal.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if err := checkBounds(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ParseQuantity parses untrusted text into a Quantity.
// Anything that is not a bounded decimal number is an ErrInvalidAmount.
func ParseQuantity(s string) (Quantity, error) {
	d, err := parseAmount(s)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{value: d}, nil
}

func (t Quantity) Equal(p Quantity) bool              { return t.value.Equal(p.value) }
func (t Quantity) LessThan(quantity Quantity) bool    { return t.value.LessThan(quantity.value) }
func (t Quantity) LessThanOrEqual(p Quantity) bool    { return t.value.LessThanOrEqual(p.value) }
func (t Quantity) Div(p Quantity) Quantity            { return Quantity{value: t.value.Div(p.value)} }
func (t Quantity) Mul(p Quantity) Quantity            { return Quantity{value: t.value.Mul(p.value)} }
func (t Quantity) Add(p Quantity) Quantity            { return Quantity{value: t.value.Add(p.value)} }
func (t Quantity) Sub(p Quantity) Quantity            { return Quantity{value: t.value.Sub(p.value)} }
func (t Quantity) GreaterThan(p Quantity) bool        { return t.value.GreaterThan(p.value) }
func (t Quantity) IsNegative() bool                   { return t.value.IsNegative() }
func (t Quantity) IsPositive() bool                   { return t.value.IsPositive() }
func (t Quantity) IsZero() bool                       { return t.value.IsZero() }
func (t Quantity) Decimal() decimal.Decimal           { return t.value }
func (t Quantity) String() string                     { return t.value.String() }
func (t Quantity) AsFloat() float64                   { return t.value.InexactFloat64() }
func (t Quantity) Money(currency string) Money        { return Money{value: t.value, cur: currency} }
func (t Quantity) MarshalJSON() ([]byte, error)       { return t.value.MarshalJSON() }
func (t *Quantity) UnmarshalJSON(decimalBytes []byte) error {
	return t.value.UnmarshalJSON(decimalBytes)
}
