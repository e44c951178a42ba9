package engine

import (
	"math"
	"math/big"

	"github.com/cockroachdb/apd"
)

// guardBits is the extra precision of inexact intermediate values.
const guardBits = 64

// smallInt returns v as an int64 if v is a Go integer that fits in one.
func smallInt(v interface{}) (int64, bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

// bigInt returns v of Integer kind as a big.Int.
// The result may share storage with v and must not be modified.
func bigInt(op string, v interface{}) (*big.Int, error) {
	if i, ok := smallInt(v); ok {
		return big.NewInt(i), nil
	}
	switch v := v.(type) {
	case *Integer:
		return &v.i, nil
	case *XInteger:
		return &v.i, nil
	case *big.Int:
		return v, nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, TypeError(op, KindInteger, v)
	}
}

// bigRat returns v of Integer or Rational kind as a big.Rat.
// The result may share storage with v and must not be modified.
func bigRat(op string, v interface{}) (*big.Rat, error) {
	switch v := v.(type) {
	case *Rational:
		return &v.r, nil
	case *big.Rat:
		return v, nil
	case Fraction:
		n, d := v.Numerator(), v.Denominator()
		if n == nil || d == nil {
			return nil, ValueError(op, "incomplete fraction", v)
		}
		if d.Sign() == 0 {
			return nil, ZeroDivisionError(op)
		}
		return new(big.Rat).SetFrac(n, d), nil
	}
	if Classify(v) != KindInteger {
		return nil, TypeError(op, KindRational, v)
	}
	i, err := bigInt(op, v)
	if err != nil {
		return nil, err
	}
	return new(big.Rat).SetInt(i), nil
}

// decimal returns v as a Decimal if it's a foreign decimal.
func decimal(v interface{}) (Decimal, bool) {
	switch v := v.(type) {
	case *apd.Decimal:
		return APD(v), true
	case Decimal:
		return v, true
	default:
		return nil, false
	}
}

// exactRat returns the exact value of v of any kind but Complex.
// NaN is ValueInvalid and ±Inf is Overflow.
func exactRat(op string, v interface{}) (*big.Rat, error) {
	switch Classify(v) {
	case KindInteger, KindRational:
		return bigRat(op, v)
	case KindReal:
		if d, ok := decimal(v); ok {
			switch {
			case d.IsNaN():
				return nil, ValueError(op, "cannot convert NaN", v)
			case d.IsInf():
				return nil, OverflowError(op, "cannot convert infinity", v)
			}
			return d.Rat(), nil
		}
		x, _, err := DefaultContext().realOperand(op, v)
		if err != nil {
			return nil, err
		}
		switch {
		case x.nan:
			return nil, ValueError(op, "cannot convert NaN", v)
		case x.f.IsInf():
			return nil, OverflowError(op, "cannot convert infinity", v)
		}
		r, _ := x.f.Rat(nil)
		return r, nil
	default:
		return nil, TypeError(op, KindRational, v)
	}
}

// truncInt returns v of any kind but Complex truncated toward zero.
func truncInt(op string, v interface{}) (*big.Int, error) {
	if Classify(v) == KindInteger {
		return bigInt(op, v)
	}
	r, err := exactRat(op, v)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Quo(r.Num(), r.Denom()), nil
}

// realOperand returns v of Integer, Rational or Real kind as a Real to be used as an operand under c.
// Integers and floats are converted exactly. Real values out of c's exponent range are clamped, which
// reports flags.
func (c *Context) realOperand(op string, v interface{}) (*Real, Flags, error) {
	if i, ok := smallInt(v); ok {
		z := newReal(64, RoundNearest)
		z.f.SetInt64(i)
		return z, 0, nil
	}

	switch v := v.(type) {
	case *Real:
		if v.rangeValid(c) {
			return v, 0, nil
		}
		z := newReal(v.Prec(), c.Round())
		z.f.Set(&v.f)
		return z, c.clampReal(z, c.Round()), nil
	case float64:
		return realFloat64(v), 0, nil
	case float32:
		return realFloat64(float64(v)), 0, nil
	case *big.Float:
		p := v.Prec()
		if p == 0 {
			p = 64
		}
		z := newReal(p, c.Round())
		z.f.Set(v)
		return z, c.clampReal(z, c.Round()), nil
	}

	if d, ok := decimal(v); ok {
		return c.decimalReal(d, c.Precision()+guardBits, c.Round())
	}

	switch Classify(v) {
	case KindInteger:
		i, err := bigInt(op, v)
		if err != nil {
			return nil, 0, err
		}
		p := uint(i.BitLen())
		if p < 64 {
			p = 64
		}
		z := newReal(p, RoundNearest)
		z.f.SetInt(i)
		return z, 0, nil
	case KindRational:
		r, err := bigRat(op, v)
		if err != nil {
			return nil, 0, err
		}
		z := newReal(c.Precision()+guardBits, c.Round())
		z.f.SetRat(r)
		return z, 0, nil
	default:
		return nil, 0, TypeError(op, KindReal, v)
	}
}

func realFloat64(f float64) *Real {
	z := newReal(53, RoundNearest)
	if math.IsNaN(f) {
		z.setNaN()
		return z
	}
	z.f.SetFloat64(f)
	return z
}

func (c *Context) decimalReal(d Decimal, prec uint, m RoundingMode) (*Real, Flags, error) {
	z := newReal(prec, m)
	switch {
	case d.IsNaN():
		z.setNaN()
		return z, 0, nil
	case d.IsInf():
		z.f.SetInf(d.Signbit())
		return z, 0, nil
	case d.IsZero():
		if d.Signbit() {
			z.f.Neg(&z.f)
		}
		return z, 0, nil
	}
	z.f.SetRat(d.Rat())
	f := accFlags(z.f.Acc())
	return z, f | c.clampReal(z, m), nil
}

// newReal converts v to a new Real of the given precision rounded by m.
func (c *Context) newReal(op string, v interface{}, prec uint, m RoundingMode) (*Real, Flags, error) {
	if prec < 1 || prec > MaxPrecision {
		return nil, 0, ValueError(op, "precision out of range", prec)
	}

	if d, ok := decimal(v); ok {
		return c.decimalReal(d, prec, m)
	}

	z := newReal(prec, m)
	var f Flags
	switch Classify(v) {
	case KindRational:
		r, err := bigRat(op, v)
		if err != nil {
			return nil, 0, err
		}
		z.f.SetRat(r)
		f = accFlags(z.f.Acc())
	case KindInteger, KindReal:
		x, g, err := c.realOperand(op, v)
		if err != nil {
			return nil, 0, err
		}
		if x.nan {
			z.setNaN()
			return z, g, nil
		}
		z.f.Set(&x.f)
		f = g | accFlags(z.f.Acc())
	default:
		return nil, 0, TypeError(op, KindReal, v)
	}
	return z, f | c.clampReal(z, m), nil
}
