package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// divisionScale is the number of fractional digits kept by a
	// one-argument BigDecimal.divide.
	divisionScale = 16
	// maxDecimalScale bounds scales and exponents in either direction.
	maxDecimalScale = 1 << 12
	maxDecimalBits  = 1 << 15
)

var errDivideByZero = errors.New("ArithmeticException: / by zero")

// BigDecimal is an immutable decimal that prints with its scale, so 1.50
// stays 1.50.
type BigDecimal struct {
	decimal.Decimal
}

func (d BigDecimal) String() string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.Decimal.String()
}

// Equals follows BigDecimal.equals: same value and same scale, so 2.0 and
// 2.00 differ.
func (d BigDecimal) Equals(other any) bool {
	o, ok := other.(BigDecimal)
	return ok && d.Exponent() == o.Exponent() && d.Cmp(o.Decimal) == 0
}

type decimalKey string

func (d BigDecimal) mapKey() any { return decimalKey(d.String()) }

// checked wraps d, rejecting results whose scale or coefficient has grown
// past the limits.
func checked(d decimal.Decimal) (any, error) {
	if exp := d.Exponent(); exp > maxDecimalScale || exp < -maxDecimalScale {
		return nil, fmt.Errorf("ArithmeticException: Overflow: scale %d", -exp)
	}
	if d.Coefficient().BitLen() > maxDecimalBits {
		return nil, errors.New("ArithmeticException: Overflow: too many digits")
	}
	return BigDecimal{d}, nil
}

func argScale(args []any, i int) (int32, error) {
	n, err := argInt(args, i)
	if err != nil {
		return 0, err
	}
	if n > maxDecimalScale || n < -maxDecimalScale {
		return 0, fmt.Errorf("ArithmeticException: scale %d out of range", n)
	}
	return int32(n), nil
}

// trimmed drops trailing fractional zeros.
func trimmed(d decimal.Decimal) decimal.Decimal {
	return decimal.RequireFromString(d.String())
}

func argDecimal(args []any, i int) (decimal.Decimal, error) {
	v, err := arg(args, i)
	if err != nil {
		return decimal.Zero, err
	}
	switch d := v.(type) {
	case BigDecimal:
		return d.Decimal, nil
	case int64:
		return decimal.NewFromInt(d), nil
	case nil:
		return decimal.Zero, fmt.Errorf("NullPointerException: argument %d is null", i)
	}
	return decimal.Zero, fmt.Errorf("argument %d: expected java.math.BigDecimal, got %s", i, describe(v))
}

func decimalOp(op func(a, b decimal.Decimal) decimal.Decimal) MethodFunc {
	return func(recv any, args []any) (any, error) {
		other, err := argDecimal(args, 0)
		if err != nil {
			return nil, err
		}
		return checked(op(recv.(BigDecimal).Decimal, other))
	}
}

func registerMath(r *Registry, b *Builtins) {
	c := NewClass("java.math.BigDecimal", b.Number)
	b.BigDecimal = c

	c.Ctor(func(args []any) (any, error) {
		s, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("NumberFormatException: invalid BigDecimal %q", s)
		}
		return checked(d)
	}, b.String)
	c.Ctor(func(args []any) (any, error) {
		n, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		return BigDecimal{decimal.NewFromInt(n)}, nil
	}, Int)

	c.Method("add", c, decimalOp(decimal.Decimal.Add), c)
	c.Method("subtract", c, decimalOp(decimal.Decimal.Sub), c)
	c.Method("multiply", c, decimalOp(decimal.Decimal.Mul), c)
	c.Method("divide", c, func(recv any, args []any) (any, error) {
		other, err := argDecimal(args, 0)
		if err != nil {
			return nil, err
		}
		if other.IsZero() {
			return nil, errDivideByZero
		}
		return checked(trimmed(recv.(BigDecimal).DivRound(other, divisionScale)))
	}, c)
	c.Method("divide", c, func(recv any, args []any) (any, error) {
		other, err := argDecimal(args, 0)
		if err != nil {
			return nil, err
		}
		scale, err := argScale(args, 1)
		if err != nil {
			return nil, err
		}
		if other.IsZero() {
			return nil, errDivideByZero
		}
		return checked(recv.(BigDecimal).DivRound(other, scale))
	}, c, Int)
	c.Method("setScale", c, func(recv any, args []any) (any, error) {
		scale, err := argScale(args, 0)
		if err != nil {
			return nil, err
		}
		return checked(recv.(BigDecimal).Round(scale))
	}, Int)
	c.Method("negate", c, func(recv any, _ []any) (any, error) {
		return BigDecimal{recv.(BigDecimal).Neg()}, nil
	})
	c.Method("abs", c, func(recv any, _ []any) (any, error) {
		return BigDecimal{recv.(BigDecimal).Abs()}, nil
	})
	c.Method("compareTo", Int, func(recv any, args []any) (any, error) {
		other, err := argDecimal(args, 0)
		if err != nil {
			return nil, err
		}
		return int64(recv.(BigDecimal).Cmp(other)), nil
	}, c)
	c.Method("signum", Int, func(recv any, _ []any) (any, error) {
		return int64(recv.(BigDecimal).Sign()), nil
	})
	c.Method("scale", Int, func(recv any, _ []any) (any, error) {
		return int64(-recv.(BigDecimal).Exponent()), nil
	})
	c.Method("intValue", Int, func(recv any, _ []any) (any, error) {
		return recv.(BigDecimal).IntPart(), nil
	})
	c.Method("toPlainString", b.String, func(recv any, _ []any) (any, error) {
		return recv.(BigDecimal).String(), nil
	})

	r.Register(c, typeOf[BigDecimal]())
}
