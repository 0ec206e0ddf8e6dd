package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money is a non-float currency amount. It is stored as BSON Decimal128 and
// rendered in JSON as a decimal string with at least two places. JSON never
// rounds, so a JSON round trip returns the same amount.
type Money struct {
	d decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money { return Money{d: d} }

func MoneyFromFloat(f float64) Money { return Money{d: decimal.NewFromFloat(f)} }

func MoneyFromInt(i int64) Money { return Money{d: decimal.NewFromInt(i)} }

func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return Money{d: d}, nil
}

func (m Money) Decimal() decimal.Decimal { return m.d }

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }

func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }

func (m Money) MulInt(n int) Money { return Money{d: m.d.Mul(decimal.NewFromInt(int64(n)))} }

func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

func (m Money) IsZero() bool { return m.d.IsZero() }

func (m Money) IsNegative() bool { return m.d.IsNegative() }

// String renders the amount rounded to cents.
func (m Money) String() string { return m.d.StringFixed(2) }

// HasSubCents reports whether the amount carries more than two decimal places.
func (m Money) HasSubCents() bool {
	return !m.d.Equal(m.d.Truncate(2))
}

func (m Money) Float64() float64 {
	f, _ := m.d.Float64()
	return f
}

func (m Money) MarshalJSON() ([]byte, error) {
	places := int32(2)
	if exp := -m.d.Exponent(); exp > places {
		places = exp
	}
	return []byte(`"` + m.d.StringFixed(places) + `"`), nil
}

// UnmarshalJSON accepts both quoted strings and bare numbers.
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	m.d = d
	return nil
}

func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d128, err := primitive.ParseDecimal128(m.d.String())
	if err != nil {
		return 0, nil, fmt.Errorf("encode money %s: %w", m.d.String(), err)
	}
	return bson.MarshalValue(d128)
}

// UnmarshalBSONValue reads Decimal128 as written by MarshalBSONValue, plus
// the numeric types older documents were written with.
func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeDecimal128:
		d128, ok := rv.Decimal128OK()
		if !ok {
			return fmt.Errorf("decode money: malformed decimal128")
		}
		d, err := decimal.NewFromString(d128.String())
		if err != nil {
			return fmt.Errorf("decode money: %w", err)
		}
		m.d = d
	case bson.TypeDouble:
		m.d = decimal.NewFromFloat(rv.Double())
	case bson.TypeInt32:
		m.d = decimal.NewFromInt32(rv.Int32())
	case bson.TypeInt64:
		m.d = decimal.NewFromInt(rv.Int64())
	case bson.TypeString:
		d, err := decimal.NewFromString(rv.StringValue())
		if err != nil {
			return fmt.Errorf("decode money: %w", err)
		}
		m.d = d
	case bson.TypeNull, bson.TypeUndefined:
		m.d = decimal.Zero
	default:
		return fmt.Errorf("decode money: unsupported bson type %s", t)
	}
	return nil
}
