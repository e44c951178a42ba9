package engine

import (
	"math"
	"math/big"
)

// CompareOp is a comparison operator.
type CompareOp uint8

// CompareOp is one of these values.
const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

func (o CompareOp) String() string {
	return [...]string{
		OpEq: "eq",
		OpNe: "ne",
		OpLt: "lt",
		OpLe: "le",
		OpGt: "gt",
		OpGe: "ge",
	}[o]
}

func (o CompareOp) ordering() bool {
	return o != OpEq && o != OpNe
}

// Compare reports whether x op y holds. Operands of different kinds are compared by their exact values.
// Every comparison with NaN is false except OpNe. An ordering comparison with NaN also sets FlagERange, which
// raises RangeError if trapped. Complex values support OpEq and OpNe only.
func (c *Context) Compare(op CompareOp, x, y interface{}) (bool, error) {
	kx, ky := Classify(x), Classify(y)
	if kx == KindUnsupported || ky == KindUnsupported {
		return false, unsupported(op.String(), x, y)
	}

	if promote(kx, ky) == KindComplex {
		if op.ordering() {
			if kx == KindComplex {
				return false, TypeError(op.String(), KindReal, x)
			}
			return false, TypeError(op.String(), KindReal, y)
		}
		eq, err := equalComplex(op.String(), x, y)
		if err != nil {
			return false, err
		}
		return eq == (op == OpEq), nil
	}

	r, ordered, err := compare(op.String(), x, y, promote(kx, ky))
	if err != nil {
		return false, err
	}
	if !ordered {
		if op.ordering() {
			return false, c.apply(op.String(), FlagERange)
		}
		return op == OpNe, nil
	}

	switch op {
	case OpEq:
		return r == 0, nil
	case OpNe:
		return r != 0, nil
	case OpLt:
		return r < 0, nil
	case OpLe:
		return r <= 0, nil
	case OpGt:
		return r > 0, nil
	default:
		return r >= 0, nil
	}
}

// Cmp returns -1, 0 or +1 depending on whether x is less than, equal to or greater than y.
// If either is NaN, it sets FlagERange and returns ErrUnordered, or RangeError if trapped.
func (c *Context) Cmp(x, y interface{}) (int, error) {
	kx, ky := Classify(x), Classify(y)
	switch {
	case kx == KindUnsupported || ky == KindUnsupported:
		return 0, unsupported("cmp", x, y)
	case kx == KindComplex:
		return 0, TypeError("cmp", KindReal, x)
	case ky == KindComplex:
		return 0, TypeError("cmp", KindReal, y)
	}

	r, ordered, err := compare("cmp", x, y, promote(kx, ky))
	if err != nil {
		return 0, err
	}
	if !ordered {
		if err := c.apply("cmp", FlagERange); err != nil {
			return 0, err
		}
		return 0, ErrUnordered
	}
	return r, nil
}

// compare compares x and y of kind k or lower. ordered is false if either is NaN.
func compare(op string, x, y interface{}, k Kind) (r int, ordered bool, err error) {
	switch k {
	case KindInteger:
		if x, ok := x.(*Integer); ok {
			if y, ok := y.(*Integer); ok {
				return x.i.Cmp(&y.i), true, nil
			}
		}
		a, ra, err := intArg(op, x)
		if err != nil {
			return 0, false, err
		}
		defer ra()
		b, rb, err := intArg(op, y)
		if err != nil {
			return 0, false, err
		}
		defer rb()
		return a.Cmp(b), true, nil
	case KindRational:
		a, err := bigRat(op, x)
		if err != nil {
			return 0, false, err
		}
		b, err := bigRat(op, y)
		if err != nil {
			return 0, false, err
		}
		return a.Cmp(b), true, nil
	default:
		a, err := exactOperand(op, x)
		if err != nil {
			return 0, false, err
		}
		b, err := exactOperand(op, y)
		if err != nil {
			return 0, false, err
		}
		if a.nan || b.nan {
			return 0, false, nil
		}
		return a.cmp(&b), true, nil
	}
}

// exact is the unrounded value of a real operand: either a rational or a (possibly infinite) float.
type exact struct {
	rat *big.Rat
	f   *big.Float
	nan bool
}

func exactOperand(op string, v interface{}) (exact, error) {
	switch v := v.(type) {
	case *Real:
		if v.nan {
			return exact{nan: true}, nil
		}
		return exact{f: &v.f}, nil
	case float64:
		return exactFloat64(v), nil
	case float32:
		return exactFloat64(float64(v)), nil
	case *big.Float:
		return exact{f: v}, nil
	}

	if d, ok := decimal(v); ok {
		switch {
		case d.IsNaN():
			return exact{nan: true}, nil
		case d.IsInf():
			return exact{f: new(big.Float).SetInf(d.Signbit())}, nil
		}
		return exact{rat: d.Rat()}, nil
	}

	r, err := bigRat(op, v)
	if err != nil {
		return exact{}, err
	}
	return exact{rat: r}, nil
}

func exactFloat64(f float64) exact {
	if math.IsNaN(f) {
		return exact{nan: true}
	}
	return exact{f: big.NewFloat(f)}
}

func (x *exact) cmp(y *exact) int {
	if x.rat != nil && y.rat != nil {
		return x.rat.Cmp(y.rat)
	}
	if x.f != nil && y.f != nil {
		return x.f.Cmp(y.f)
	}
	if x.f != nil {
		return -y.cmp(x)
	}
	// x is rational.
	if y.f.IsInf() {
		if y.f.Signbit() {
			return 1
		}
		return -1
	}
	r, _ := y.f.Rat(nil)
	return x.rat.Cmp(r)
}

// equalComplex reports whether x and y have equal real and imaginary parts. NaN parts are never equal.
func equalComplex(op string, x, y interface{}) (bool, error) {
	xr, xi, err := complexParts(op, x)
	if err != nil {
		return false, err
	}
	yr, yi, err := complexParts(op, y)
	if err != nil {
		return false, err
	}
	if xr.nan || xi.nan || yr.nan || yi.nan {
		return false, nil
	}
	return xr.cmp(&yr) == 0 && xi.cmp(&yi) == 0, nil
}

var zeroRat = new(big.Rat)

func complexParts(op string, v interface{}) (exact, exact, error) {
	switch v := v.(type) {
	case *Complex:
		re, _ := exactOperand(op, &v.re)
		im, _ := exactOperand(op, &v.im)
		return re, im, nil
	case complex128:
		return exactFloat64(real(v)), exactFloat64(imag(v)), nil
	case complex64:
		return exactFloat64(float64(real(v))), exactFloat64(float64(imag(v))), nil
	}
	re, err := exactOperand(op, v)
	return re, exact{rat: zeroRat}, err
}
