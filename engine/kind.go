package engine

import (
	"math/big"

	"github.com/cockroachdb/apd"
)

// Kind is a rung of the promotion lattice Integer < Rational < Real < Complex.
type Kind uint8

// Kind is one of these values.
const (
	KindUnsupported Kind = iota
	KindInteger
	KindRational
	KindReal
	KindComplex
)

func (k Kind) String() string {
	return [...]string{
		KindUnsupported: "unsupported",
		KindInteger:     "integer",
		KindRational:    "rational",
		KindReal:        "real",
		KindComplex:     "complex",
	}[k]
}

// Fraction is implemented by foreign exact rational values.
type Fraction interface {
	Numerator() *big.Int
	Denominator() *big.Int
}

// Decimal is implemented by foreign decimal floating-point values.
// Finite values are converted to Real through their exact rational value.
type Decimal interface {
	IsNaN() bool
	IsInf() bool
	IsZero() bool
	Signbit() bool
	Rat() *big.Rat
}

// Classify reports the numeric kind of v.
// Values of this package are classified by their nominal type, not by their reduced value.
func Classify(v interface{}) Kind {
	switch v.(type) {
	case *Integer, *XInteger:
		return KindInteger
	case *Rational:
		return KindRational
	case *Real:
		return KindReal
	case *Complex:
		return KindComplex
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, *big.Int:
		return KindInteger
	case *big.Rat, Fraction:
		return KindRational
	case float32, float64, *big.Float, *apd.Decimal, Decimal:
		return KindReal
	case complex64, complex128:
		return KindComplex
	case nil:
		return KindUnsupported
	default:
		return KindUnsupported
	}
}

// IsNativeAndRangeValid reports whether v is a Real or Complex of this package that can be used as is under c,
// i.e. its exponent was already checked against c's exponent bounds and subnormalization.
func IsNativeAndRangeValid(v interface{}, c *Context) bool {
	switch v := v.(type) {
	case *Real:
		return v.rangeValid(c)
	case *Complex:
		return v.re.rangeValid(c) && v.im.rangeValid(c)
	default:
		return false
	}
}

// APD adapts an apd decimal to the Decimal capability.
func APD(d *apd.Decimal) Decimal {
	return apdDecimal{d: d}
}

type apdDecimal struct {
	d *apd.Decimal
}

func (a apdDecimal) IsNaN() bool {
	return a.d.Form == apd.NaN || a.d.Form == apd.NaNSignaling
}

func (a apdDecimal) IsInf() bool {
	return a.d.Form == apd.Infinite
}

func (a apdDecimal) IsZero() bool {
	return a.d.Form == apd.Finite && a.d.Coeff.Sign() == 0
}

func (a apdDecimal) Signbit() bool {
	return a.d.Negative
}

func (a apdDecimal) Rat() *big.Rat {
	r := new(big.Rat).SetInt(&a.d.Coeff)
	if a.d.Negative {
		r.Neg(r)
	}
	e := int64(a.d.Exponent)
	if e == 0 {
		return r
	}
	neg := e < 0
	if neg {
		e = -e
	}
	p := new(big.Int).Exp(big.NewInt(10), big.NewInt(e), nil)
	if neg {
		return r.Quo(r, new(big.Rat).SetInt(p))
	}
	return r.Mul(r, new(big.Rat).SetInt(p))
}
