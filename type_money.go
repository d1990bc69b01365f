package folio

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the single accounting currency. Multi-currency accounting is not supported.
const Currency = money.USD

// Money represents a monetary value in the accounting currency.
type Money struct {
	value decimal.Decimal // as major unit value
}

// M returns Money from any numeric value in major units.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// ParseMoney parses a decimal amount in major units.
func ParseMoney(s string) (Money, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{value: v}, nil
}

// currency returns the accounting currency definition.
func currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, Currency).Currency()
}

// String returns the string representation of the money value, e.g. "$1,234.56".
func (m Money) String() string {
	cur := currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(amount Money) bool      { return m.value.LessThan(amount.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg()} }
func (m Money) Add(n Money) Money               { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money               { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(n Quantity) Money            { return Money{value: m.value.Mul(n.value)} }
func (m Money) DivPrice(n Money) Quantity       { return Quantity{value: m.value.Div(n.value)} }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }

// AsFloat returns an approximation, for statistics and charts only.
func (m Money) AsFloat() float64 { return m.value.InexactFloat64() }

// MarshalJSON encodes the amount as a JSON number with all its digits.
func (m Money) MarshalJSON() ([]byte, error) { return []byte(m.value.String()), nil }

// UnmarshalJSON decodes an amount from a JSON number or string.
func (m *Money) UnmarshalJSON(b []byte) error { return m.value.UnmarshalJSON(b) }
