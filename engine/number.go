package engine

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// Number is a value of the numeric tower: *Integer, *XInteger, *Rational, *Real or *Complex.
type Number interface {
	fmt.Stringer
	Kind() Kind
	number()
}

// Op is an arithmetic operator.
type Op uint8

// Op is one of these values.
const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
)

func (o Op) String() string {
	return [...]string{
		OpAdd:      "add",
		OpSub:      "sub",
		OpMul:      "mul",
		OpDiv:      "div",
		OpFloorDiv: "floordiv",
		OpMod:      "mod",
		OpPow:      "pow",
	}[o]
}

var binaryOps = [...]func(c *Context, x, y interface{}, k Kind) (Number, error){
	OpAdd:      (*Context).add,
	OpSub:      (*Context).sub,
	OpMul:      (*Context).mul,
	OpDiv:      (*Context).div,
	OpFloorDiv: (*Context).floorDiv,
	OpMod:      (*Context).mod,
	OpPow:      (*Context).pow,
}

// Binary applies op to x and y under c. The operands are promoted to the richer of their kinds.
// If either operand can't be classified, it returns ErrNotImplemented so that the caller can try another
// implementation of op.
func Binary(c *Context, op Op, x, y interface{}) (Number, error) {
	kx, ky := Classify(x), Classify(y)
	if kx == KindUnsupported || ky == KindUnsupported || int(op) >= len(binaryOps) {
		return nil, ErrNotImplemented
	}
	return binaryOps[op](c, x, y, promote(kx, ky))
}

func promote(x, y Kind) Kind {
	if x > y {
		return x
	}
	return y
}

func (c *Context) named(op Op, x, y interface{}) (Number, error) {
	z, err := Binary(c, op, x, y)
	if errors.Is(err, ErrNotImplemented) {
		return nil, unsupported(op.String(), x, y)
	}
	return z, err
}

// Add returns x + y.
func (c *Context) Add(x, y interface{}) (Number, error) {
	return c.named(OpAdd, x, y)
}

// Sub returns x - y.
func (c *Context) Sub(x, y interface{}) (Number, error) {
	return c.named(OpSub, x, y)
}

// Mul returns x × y.
func (c *Context) Mul(x, y interface{}) (Number, error) {
	return c.named(OpMul, x, y)
}

// Div returns x / y. Division of integers returns a Real, or a Rational if RationalDivision is set.
func (c *Context) Div(x, y interface{}) (Number, error) {
	return c.named(OpDiv, x, y)
}

// FloorDiv returns x / y rounded toward negative infinity.
func (c *Context) FloorDiv(x, y interface{}) (Number, error) {
	return c.named(OpFloorDiv, x, y)
}

// Mod returns x - y × FloorDiv(x, y), which has the sign of y.
func (c *Context) Mod(x, y interface{}) (Number, error) {
	return c.named(OpMod, x, y)
}

// DivMod returns FloorDiv(x, y) and Mod(x, y).
func (c *Context) DivMod(x, y interface{}) (Number, Number, error) {
	q, err := c.FloorDiv(x, y)
	if err != nil {
		return nil, nil, err
	}
	r, err := c.Mod(x, y)
	if err != nil {
		return nil, nil, err
	}
	return q, r, nil
}

// Pow returns x ** y.
func (c *Context) Pow(x, y interface{}) (Number, error) {
	return c.named(OpPow, x, y)
}

func realNumber(z *Real, err error) (Number, error) {
	if err != nil {
		return nil, err
	}
	return z, nil
}

func complexNumber(z *Complex, err error) (Number, error) {
	if err != nil {
		return nil, err
	}
	return z, nil
}

func noop() {}

// intArg returns v of Integer kind as a big.Int. Machine integers use pooled storage until release is called.
func intArg(op string, v interface{}) (*big.Int, func(), error) {
	if i, ok := smallInt(v); ok {
		t := acquireInt(64)
		return t.SetInt64(i), func() { releaseInt(t) }, nil
	}
	i, err := bigInt(op, v)
	return i, noop, err
}

// realArg returns v as a Real operand. Machine integers and floats use pooled storage until release is called.
func (c *Context) realArg(op string, v interface{}) (*Real, Flags, func(), error) {
	switch v := v.(type) {
	case *Real:
		if v.rangeValid(c) {
			return v, 0, noop, nil
		}
	case float64:
		if !math.IsNaN(v) {
			t := acquireReal(53)
			t.f.SetFloat64(v)
			return t, 0, func() { releaseReal(t) }, nil
		}
	default:
		if i, ok := smallInt(v); ok {
			t := acquireReal(64)
			t.f.SetInt64(i)
			return t, 0, func() { releaseReal(t) }, nil
		}
	}
	r, f, err := c.realOperand(op, v)
	return r, f, noop, err
}

func intBinary(op string, f func(z, x, y *big.Int) *big.Int, x, y interface{}) (Number, error) {
	a, ra, err := intArg(op, x)
	if err != nil {
		return nil, err
	}
	defer ra()
	b, rb, err := intArg(op, y)
	if err != nil {
		return nil, err
	}
	defer rb()

	var z Integer
	f(&z.i, a, b)
	return &z, nil
}

func ratBinary(op string, f func(z, x, y *big.Rat) *big.Rat, x, y interface{}) (Number, error) {
	a, err := bigRat(op, x)
	if err != nil {
		return nil, err
	}
	b, err := bigRat(op, y)
	if err != nil {
		return nil, err
	}

	var z Rational
	f(&z.r, a, b)
	return &z, nil
}

func (c *Context) realBinary(op string, f func(z, x, y *Real) Flags, x, y interface{}) (Number, error) {
	a, fa, ra, err := c.realArg(op, x)
	if err != nil {
		return nil, err
	}
	defer ra()
	b, fb, rb, err := c.realArg(op, y)
	if err != nil {
		return nil, err
	}
	defer rb()

	z := newReal(c.Precision(), c.Round())
	return realNumber(c.finishReal(op, z, fa|fb|f(z, a, b)))
}

func (c *Context) complexBinary(op string, f func(z, x, y *Complex) Flags, x, y interface{}) (Number, error) {
	a, fa, err := c.complexOperand(op, x)
	if err != nil {
		return nil, err
	}
	b, fb, err := c.complexOperand(op, y)
	if err != nil {
		return nil, err
	}

	z := c.newComplex()
	return complexNumber(c.finishComplex(op, z, fa|fb|f(z, a, b)))
}

func (c *Context) add(x, y interface{}, k Kind) (Number, error) {
	switch k {
	case KindInteger:
		if x, ok := x.(*Integer); ok {
			if y, ok := y.(*Integer); ok {
				var z Integer
				z.i.Add(&x.i, &y.i)
				return &z, nil
			}
		}
		return intBinary("add", (*big.Int).Add, x, y)
	case KindRational:
		return ratBinary("add", (*big.Rat).Add, x, y)
	case KindReal:
		return c.realBinary("add", addR, x, y)
	default:
		return c.complexBinary("add", addC, x, y)
	}
}

func (c *Context) sub(x, y interface{}, k Kind) (Number, error) {
	switch k {
	case KindInteger:
		return intBinary("sub", (*big.Int).Sub, x, y)
	case KindRational:
		return ratBinary("sub", (*big.Rat).Sub, x, y)
	case KindReal:
		return c.realBinary("sub", subR, x, y)
	default:
		return c.complexBinary("sub", subC, x, y)
	}
}

func (c *Context) mul(x, y interface{}, k Kind) (Number, error) {
	switch k {
	case KindInteger:
		return intBinary("mul", (*big.Int).Mul, x, y)
	case KindRational:
		return ratBinary("mul", (*big.Rat).Mul, x, y)
	case KindReal:
		return c.realBinary("mul", mulR, x, y)
	default:
		return c.complexBinary("mul", mulC, x, y)
	}
}

func (c *Context) div(x, y interface{}, k Kind) (Number, error) {
	switch k {
	case KindInteger, KindRational:
		a, err := bigRat("div", x)
		if err != nil {
			return nil, err
		}
		b, err := bigRat("div", y)
		if err != nil {
			return nil, err
		}
		if b.Sign() == 0 {
			return nil, ZeroDivisionError("div")
		}
		q := new(big.Rat).Quo(a, b)
		if k == KindRational || c.rationalDivision {
			return newRational(q), nil
		}

		// the exact quotient rounded once.
		z := newReal(c.Precision(), c.Round())
		z.f.SetRat(q)
		return realNumber(c.finishReal("div", z, accFlags(z.f.Acc())))
	case KindReal:
		return c.realBinary("div", quoR, x, y)
	default:
		return c.complexBinary("div", quoC, x, y)
	}
}

// floorDivModInt sets q and r to the floor quotient and the remainder of a and b.
func floorDivModInt(q, r, a, b *big.Int) {
	q.QuoRem(a, b, r)
	if r.Sign() != 0 && r.Sign() != b.Sign() {
		q.Sub(q, big.NewInt(1))
		r.Add(r, b)
	}
}

func floorDivModRat(a, b *big.Rat) (*big.Int, *big.Rat) {
	q := new(big.Rat).Quo(a, b)
	n := floorRat(q)
	r := new(big.Rat).Mul(b, new(big.Rat).SetInt(n))
	return n, r.Sub(a, r)
}

func (c *Context) floorDiv(x, y interface{}, k Kind) (Number, error) {
	return c.floorDivMod("floordiv", x, y, k, true)
}

func (c *Context) mod(x, y interface{}, k Kind) (Number, error) {
	return c.floorDivMod("mod", x, y, k, false)
}

func (c *Context) floorDivMod(op string, x, y interface{}, k Kind, quo bool) (Number, error) {
	switch k {
	case KindInteger:
		a, ra, err := intArg(op, x)
		if err != nil {
			return nil, err
		}
		defer ra()
		b, rb, err := intArg(op, y)
		if err != nil {
			return nil, err
		}
		defer rb()
		if b.Sign() == 0 {
			return nil, ZeroDivisionError(op)
		}
		var q, r Integer
		floorDivModInt(&q.i, &r.i, a, b)
		if quo {
			return &q, nil
		}
		return &r, nil
	case KindRational:
		a, err := bigRat(op, x)
		if err != nil {
			return nil, err
		}
		b, err := bigRat(op, y)
		if err != nil {
			return nil, err
		}
		if b.Sign() == 0 {
			return nil, ZeroDivisionError(op)
		}
		n, r := floorDivModRat(a, b)
		if quo {
			return newRational(new(big.Rat).SetInt(n)), nil
		}
		return newRational(r), nil
	case KindReal:
		return c.realBinary(op, func(z, a, b *Real) Flags {
			if quo {
				return floorQuoR(z, nil, a, b)
			}
			return floorQuoR(nil, z, a, b)
		}, x, y)
	default:
		return nil, TypeError(op, KindReal, x)
	}
}

func (c *Context) pow(x, y interface{}, k Kind) (Number, error) {
	switch {
	case k == KindInteger:
		return c.powInt(x, y)
	case k == KindRational && Classify(y) == KindInteger:
		return c.powRat(x, y)
	case k <= KindReal:
		return c.powReal(x, y)
	default:
		return c.powComplex(x, y)
	}
}

func (c *Context) powInt(x, y interface{}) (Number, error) {
	a, ra, err := intArg("pow", x)
	if err != nil {
		return nil, err
	}
	defer ra()
	n, rn, err := intArg("pow", y)
	if err != nil {
		return nil, err
	}
	defer rn()

	if n.Sign() < 0 {
		if a.Sign() == 0 {
			return nil, ZeroDivisionError("pow")
		}
		return c.powReal(x, y)
	}

	var z Integer
	switch {
	case n.Sign() == 0:
		z.i.SetInt64(1)
		return &z, nil
	case a.Sign() == 0:
		return &z, nil
	case a.CmpAbs(big.NewInt(1)) == 0:
		z.i.SetInt64(1)
		if a.Sign() < 0 && n.Bit(0) == 1 {
			z.i.Neg(&z.i)
		}
		return &z, nil
	case !n.IsInt64():
		return nil, OverflowError("pow", "exponent too large", y)
	}
	if err := checkAlloc("pow", float64(a.BitLen())*float64(n.Int64())); err != nil {
		return nil, err
	}
	if err := safely("pow", func() { z.i.Exp(a, n, nil) }); err != nil {
		return nil, err
	}
	return &z, nil
}

func (c *Context) powRat(x, y interface{}) (Number, error) {
	a, err := bigRat("pow", x)
	if err != nil {
		return nil, err
	}
	n, rn, err := intArg("pow", y)
	if err != nil {
		return nil, err
	}
	defer rn()

	if n.Sign() < 0 && a.Sign() == 0 {
		return nil, ZeroDivisionError("pow")
	}
	if !n.IsInt64() {
		if a.Num().CmpAbs(a.Denom()) == 0 {
			// ±1
			if n.Bit(0) == 0 {
				return newRational(big.NewRat(1, 1)), nil
			}
			return newRational(a), nil
		}
		return nil, OverflowError("pow", "exponent too large", y)
	}

	e := new(big.Int).Abs(n)
	bits := float64(a.Num().BitLen()+a.Denom().BitLen()) * float64(e.Int64())
	if err := checkAlloc("pow", bits); err != nil {
		return nil, err
	}
	var num, den big.Int
	if err := safely("pow", func() {
		num.Exp(a.Num(), e, nil)
		den.Exp(a.Denom(), e, nil)
	}); err != nil {
		return nil, err
	}
	var z Rational
	if n.Sign() < 0 {
		z.r.SetFrac(&den, &num)
	} else {
		z.r.SetFrac(&num, &den)
	}
	return &z, nil
}

func (c *Context) powReal(x, y interface{}) (Number, error) {
	a, fa, ra, err := c.realArg("pow", x)
	if err != nil {
		return nil, err
	}
	defer ra()
	b, fb, rb, err := c.realArg("pow", y)
	if err != nil {
		return nil, err
	}
	defer rb()

	// a negative base with a fractional exponent has a complex result.
	if c.allowComplex && a.Sign() < 0 && !b.nan && !b.f.IsInf() && !b.f.IsInt() {
		return c.powComplex(a, b)
	}

	z := newReal(c.Precision(), c.Round())
	f := powR(z, a, b, c.Emin(), c.Emax())
	return realNumber(c.finishReal("pow", z, fa|fb|f))
}

func (c *Context) powComplex(x, y interface{}) (Number, error) {
	a, fa, err := c.complexOperand("pow", x)
	if err != nil {
		return nil, err
	}

	z := c.newComplex()
	if Classify(y) == KindInteger {
		n, rn, err := intArg("pow", y)
		if err != nil {
			return nil, err
		}
		defer rn()
		return complexNumber(c.finishComplex("pow", z, fa|powCInt(z, a, n)))
	}

	b, fb, err := c.complexOperand("pow", y)
	if err != nil {
		return nil, err
	}
	if b.isIntegral() {
		n, _ := b.re.f.Int(nil)
		return complexNumber(c.finishComplex("pow", z, fa|fb|powCInt(z, a, n)))
	}
	return complexNumber(c.finishComplex("pow", z, fa|fb|powC(z, a, b, c.Emin(), c.Emax())))
}

func (c *Context) unary(op string, x interface{}) (Kind, error) {
	k := Classify(x)
	if k == KindUnsupported {
		return k, unsupported(op, x, nil)
	}
	return k, nil
}

// Neg returns -x.
func (c *Context) Neg(x interface{}) (Number, error) {
	k, err := c.unary("neg", x)
	if err != nil {
		return nil, err
	}
	switch k {
	case KindInteger:
		a, ra, err := intArg("neg", x)
		if err != nil {
			return nil, err
		}
		defer ra()
		var z Integer
		z.i.Neg(a)
		return &z, nil
	case KindRational:
		a, err := bigRat("neg", x)
		if err != nil {
			return nil, err
		}
		var z Rational
		z.r.Neg(a)
		return &z, nil
	case KindReal:
		return c.realUnary("neg", negR, x)
	default:
		return c.complexUnary("neg", negC, x)
	}
}

// Pos returns +x. Real and Complex values are rounded to the context precision.
func (c *Context) Pos(x interface{}) (Number, error) {
	k, err := c.unary("pos", x)
	if err != nil {
		return nil, err
	}
	switch k {
	case KindInteger:
		a, err := bigInt("pos", x)
		if err != nil {
			return nil, err
		}
		return newInteger(a), nil
	case KindRational:
		a, err := bigRat("pos", x)
		if err != nil {
			return nil, err
		}
		return newRational(a), nil
	case KindReal:
		return c.realUnary("pos", posR, x)
	default:
		return c.complexUnary("pos", posC, x)
	}
}

// Abs returns |x|. The absolute value of a Complex is a Real.
func (c *Context) Abs(x interface{}) (Number, error) {
	k, err := c.unary("abs", x)
	if err != nil {
		return nil, err
	}
	switch k {
	case KindInteger:
		a, ra, err := intArg("abs", x)
		if err != nil {
			return nil, err
		}
		defer ra()
		var z Integer
		z.i.Abs(a)
		return &z, nil
	case KindRational:
		a, err := bigRat("abs", x)
		if err != nil {
			return nil, err
		}
		var z Rational
		z.r.Abs(a)
		return &z, nil
	case KindReal:
		return c.realUnary("abs", absR, x)
	default:
		a, fa, err := c.complexOperand("abs", x)
		if err != nil {
			return nil, err
		}
		z := newReal(c.Precision(), c.Round())
		return realNumber(c.finishReal("abs", z, fa|absC(z, a)))
	}
}

func (c *Context) realUnary(op string, f func(z, x *Real) Flags, x interface{}) (Number, error) {
	a, fa, ra, err := c.realArg(op, x)
	if err != nil {
		return nil, err
	}
	defer ra()
	z := newReal(c.Precision(), c.Round())
	return realNumber(c.finishReal(op, z, fa|f(z, a)))
}

func (c *Context) complexUnary(op string, f func(z, x *Complex) Flags, x interface{}) (Number, error) {
	a, fa, err := c.complexOperand(op, x)
	if err != nil {
		return nil, err
	}
	z := c.newComplex()
	return complexNumber(c.finishComplex(op, z, fa|f(z, a)))
}

// Sqrt returns the square root of x. A negative x has a Complex result if AllowComplex is set, otherwise the
// result is NaN.
func (c *Context) Sqrt(x interface{}) (Number, error) {
	k, err := c.unary("sqrt", x)
	if err != nil {
		return nil, err
	}
	if k == KindComplex {
		return c.complexUnary("sqrt", sqrtC, x)
	}
	a, fa, ra, err := c.realArg("sqrt", x)
	if err != nil {
		return nil, err
	}
	defer ra()
	if c.allowComplex && a.Sign() < 0 {
		return c.complexUnary("sqrt", sqrtC, a)
	}
	z := newReal(c.Precision(), c.Round())
	return realNumber(c.finishReal("sqrt", z, fa|sqrtR(z, a)))
}

// Exp returns e**x.
func (c *Context) Exp(x interface{}) (Number, error) {
	k, err := c.unary("exp", x)
	if err != nil {
		return nil, err
	}
	if k == KindComplex {
		return c.complexUnary("exp", func(z, x *Complex) Flags {
			return expC(z, x, c.Emin(), c.Emax())
		}, x)
	}
	return c.realUnary("exp", func(z, x *Real) Flags {
		return expR(z, x, c.Emin(), c.Emax())
	}, x)
}

// Log returns the natural logarithm of x. A negative x has a Complex result if AllowComplex is set, otherwise
// the result is NaN.
func (c *Context) Log(x interface{}) (Number, error) {
	k, err := c.unary("log", x)
	if err != nil {
		return nil, err
	}
	if k == KindComplex {
		return c.complexUnary("log", logC, x)
	}
	a, fa, ra, err := c.realArg("log", x)
	if err != nil {
		return nil, err
	}
	defer ra()
	if c.allowComplex && a.Sign() < 0 {
		return c.complexUnary("log", logC, a)
	}
	z := newReal(c.Precision(), c.Round())
	return realNumber(c.finishReal("log", z, fa|logR(z, a)))
}
