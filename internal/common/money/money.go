// Package money is an exact two-decimal amount backed by apd.
package money

import (
	"database/sql/driver"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
)

var ctx = func() *apd.Context {
	c := apd.BaseContext.WithPrecision(34)
	c.Rounding = apd.RoundHalfUp
	return c
}()

type Money struct {
	d apd.Decimal
}

func Zero() Money { return Money{} }

func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Money{}, errors.Wrapf(err, "invalid amount %q", s)
	}
	if d.Form != apd.Finite {
		return Money{}, errors.Newf("invalid amount %q", s)
	}
	return Money{d: *d}, nil
}

func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Times returns m * n.
func (m Money) Times(n int64) Money {
	var out apd.Decimal
	_, _ = ctx.Mul(&out, &m.d, apd.New(n, 0))
	return Money{d: out}
}

func (m Money) Add(o Money) Money {
	var out apd.Decimal
	_, _ = ctx.Add(&out, &m.d, &o.d)
	return Money{d: out}
}

func (m Money) Sub(o Money) Money {
	var out apd.Decimal
	_, _ = ctx.Sub(&out, &m.d, &o.d)
	return Money{d: out}
}

func (m Money) Abs() Money {
	var out apd.Decimal
	out.Abs(&m.d)
	return Money{d: out}
}

func (m Money) Cmp(o Money) int { return m.d.Cmp(&o.d) }

func (m Money) IsNegative() bool { return m.d.Sign() < 0 }

// Round returns m rounded half-up to cents.
func (m Money) Round() Money {
	var out apd.Decimal
	_, _ = ctx.Quantize(&out, &m.d, -2)
	return Money{d: out}
}

func (m Money) String() string {
	r := m.Round()
	return r.d.Text('f')
}

// MarshalJSON writes the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*m = Money{}
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = Money{}
		return nil
	case string:
		return m.set(v)
	case []byte:
		return m.set(string(v))
	case float64:
		return m.set(strconv.FormatFloat(v, 'f', -1, 64))
	case int64:
		*m = Money{d: *apd.New(v, 0)}
		return nil
	case Money:
		*m = v
		return nil
	default:
		return errors.Newf("cannot scan %T into money", src)
	}
}

func (m *Money) set(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Value implements driver.Valuer; amounts travel as text.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}
