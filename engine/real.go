package engine

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Real is an immutable binary floating-point number with an arbitrary precision.
// Unlike big.Float, it can be NaN.
type Real struct {
	f   big.Float
	nan bool

	// exponent range the value was last checked against.
	checked    bool
	emin, emax int
	sub        bool
}

// NewReal returns v converted to a Real. It's rounded to the context precision unless overridden by Precision.
func NewReal(v interface{}, opts ...ValueOption) (*Real, error) {
	o := valueOptions(opts)
	c := o.context()
	r, f, err := c.newReal("real", v, o.precision(c), c.Round())
	if err != nil {
		return nil, err
	}
	if err := c.apply("real", f); err != nil {
		return nil, err
	}
	return r, nil
}

// ParseReal parses s as a Real in base 10, or in the base given by Base: 0, 2, 8, 10 or 16.
// "nan", "inf", "+inf" and "-inf" denote the special values.
func ParseReal(s string, opts ...ValueOption) (*Real, error) {
	o := valueOptions(opts)
	c := o.context()
	prec, m := o.precision(c), c.Round()

	z := newReal(prec, m)
	switch strings.ToLower(s) {
	case "nan", "+nan", "-nan":
		z.nan = true
		return z, nil
	}

	base := 10
	if o.baseSet {
		base = o.base
	}
	switch base {
	case 0, 2, 8, 10, 16:
	default:
		return nil, ValueError("real", "unsupported base", base)
	}
	if _, _, err := z.f.Parse(s, base); err != nil {
		return nil, ValueError("real", "invalid literal", s)
	}
	return c.finishReal("real", z, accFlags(z.f.Acc()))
}

func newReal(prec uint, m RoundingMode) *Real {
	var z Real
	z.f.SetPrec(prec).SetMode(m.big())
	return &z
}

// Kind returns KindReal.
func (x *Real) Kind() Kind {
	return KindReal
}

func (x *Real) number() {}

// Prec returns the precision of x in bits.
func (x *Real) Prec() uint {
	return x.f.Prec()
}

// IsNaN reports whether x is NaN.
func (x *Real) IsNaN() bool {
	return x.nan
}

// IsInf reports whether x is +Inf or -Inf.
func (x *Real) IsInf() bool {
	return !x.nan && x.f.IsInf()
}

// IsZero reports whether x is +0 or -0.
func (x *Real) IsZero() bool {
	return !x.nan && x.f.Sign() == 0
}

// IsInt reports whether x is a finite integer.
func (x *Real) IsInt() bool {
	return !x.nan && !x.f.IsInf() && x.f.IsInt()
}

// Signbit reports whether x is negative or negative zero.
func (x *Real) Signbit() bool {
	return !x.nan && x.f.Signbit()
}

// Sign returns -1, 0, or +1 depending on the sign of x. It returns 0 for NaN.
func (x *Real) Sign() int {
	if x.nan {
		return 0
	}
	return x.f.Sign()
}

// Exp returns the binary exponent of x such that x = mant × 2**exp with 0.5 <= |mant| < 1.
// It returns 0 for zeros, infinities and NaN.
func (x *Real) Exp() int {
	if x.nan || x.f.IsInf() || x.f.Sign() == 0 {
		return 0
	}
	return x.f.MantExp(nil)
}

// Float returns a copy of x as a big.Float. It returns nil for NaN.
func (x *Real) Float() *big.Float {
	if x.nan {
		return nil
	}
	return new(big.Float).Copy(&x.f)
}

// Float64 returns the float64 value nearest to x.
func (x *Real) Float64() float64 {
	if x.nan {
		return math.NaN()
	}
	f, _ := x.f.Float64()
	return f
}

func (x *Real) String() string {
	switch {
	case x.nan:
		return "nan"
	case x.f.IsInf() && x.f.Signbit():
		return "-inf"
	case x.f.IsInf():
		return "inf"
	}
	return x.f.Text('g', -1)
}

// Format implements fmt.Formatter with the verbs of big.Float.
func (x *Real) Format(s fmt.State, format rune) {
	if x.nan {
		_, _ = fmt.Fprint(s, "NaN")
		return
	}
	x.f.Format(s, format)
}

func (x *Real) rangeValid(c *Context) bool {
	if x.nan || x.f.IsInf() || x.f.Sign() == 0 {
		return true
	}
	emin, emax, sub := c.Emin(), c.Emax(), c.Subnormalize()
	if x.checked && x.emin == emin && x.emax == emax && x.sub == sub {
		return true
	}
	e := x.f.MantExp(nil)
	if e < emin || e > emax {
		return false
	}
	if sub && e < emin+int(x.f.Prec())-1 {
		return int(x.f.MinPrec()) <= e-emin+1
	}
	return true
}

func (x *Real) setNaN() Flags {
	x.nan = true
	x.f.SetInt64(0)
	return FlagInvalid
}

// finishReal checks z against c's exponent range, merges the flags and raises the first trapped one.
func (c *Context) finishReal(op string, z *Real, f Flags) (*Real, error) {
	f |= c.clampReal(z, c.Round())
	if err := c.apply(op, f); err != nil {
		return nil, err
	}
	return z, nil
}

func (c *Context) clampReal(z *Real, m RoundingMode) Flags {
	z.checked, z.emin, z.emax, z.sub = true, c.Emin(), c.Emax(), c.Subnormalize()
	if z.nan {
		return FlagInvalid
	}
	return clamp(&z.f, z.emin, z.emax, z.sub, m)
}

// clamp brings z within the exponent range [emin, emax] and, if sub is set, rounds it to the precision left in
// the subnormal range.
func clamp(z *big.Float, emin, emax int, sub bool, m RoundingMode) Flags {
	if z.IsInf() || z.Sign() == 0 {
		return 0
	}

	var f Flags
	neg := z.Signbit()
	e := z.MantExp(nil)
	if e > emax {
		overflow(z, emax, neg, m)
		return FlagOverflow | FlagInexact
	}

	if sub && e >= emin && e < emin+int(z.Prec())-1 {
		t := new(big.Float).SetMode(m.big()).SetPrec(uint(e - emin + 1)).Set(z)
		if t.Acc() != big.Exact {
			f |= FlagUnderflow | FlagInexact
		}
		z.Set(t)
		e = z.MantExp(nil)
		if e > emax {
			overflow(z, emax, neg, m)
			return f | FlagOverflow | FlagInexact
		}
	}

	if e < emin {
		underflow(z, e, emin, neg, m)
		return f | FlagUnderflow | FlagInexact
	}

	return f
}

// overflow sets z to ±Inf, or to the largest finite value if m rounds toward zero.
func overflow(z *big.Float, emax int, neg bool, m RoundingMode) {
	if !m.towardZero(neg) {
		z.SetInf(neg)
		return
	}
	p := z.Prec()
	t := new(big.Float).SetPrec(p + 1).SetInt64(1)
	t.SetMantExp(t, int(p))
	t.Sub(t, big.NewFloat(1))
	z.SetMantExp(t, emax-int(p))
	if neg {
		z.Neg(z)
	}
}

// underflow sets z to ±0 or to the smallest positive magnitude 2**(emin-1), depending on m.
func underflow(z *big.Float, e, emin int, neg bool, m RoundingMode) {
	var min bool
	switch m {
	case RoundNearest:
		// above the midpoint 2**(emin-2) rounds up, the midpoint itself to even i.e. zero.
		min = e == emin-1 && z.MinPrec() > 1
	case RoundAway:
		min = true
	default:
		min = !m.towardZero(neg)
	}
	z.SetInt64(0)
	if min {
		z.SetInt64(1)
		z.SetMantExp(z, emin-1)
	}
	if neg {
		z.Neg(z)
	}
}

func accFlags(acc big.Accuracy) Flags {
	if acc != big.Exact {
		return FlagInexact
	}
	return 0
}

// guard runs f and reports whether it panicked with big.ErrNaN.
func guard(f func()) (nan bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(big.ErrNaN); !ok {
				panic(r)
			}
			nan = true
		}
	}()
	f()
	return false
}

// Float operations. z must have its precision and rounding mode set.

func addR(z, x, y *Real) Flags {
	if x.nan || y.nan {
		return z.setNaN()
	}
	if guard(func() { z.f.Add(&x.f, &y.f) }) {
		return z.setNaN()
	}
	return accFlags(z.f.Acc())
}

func subR(z, x, y *Real) Flags {
	if x.nan || y.nan {
		return z.setNaN()
	}
	if guard(func() { z.f.Sub(&x.f, &y.f) }) {
		return z.setNaN()
	}
	return accFlags(z.f.Acc())
}

func mulR(z, x, y *Real) Flags {
	if x.nan || y.nan {
		return z.setNaN()
	}
	if guard(func() { z.f.Mul(&x.f, &y.f) }) {
		return z.setNaN()
	}
	return accFlags(z.f.Acc())
}

func quoR(z, x, y *Real) Flags {
	if x.nan || y.nan {
		return z.setNaN()
	}
	if guard(func() { z.f.Quo(&x.f, &y.f) }) {
		return z.setNaN()
	}
	if y.f.Sign() == 0 && !x.f.IsInf() {
		return FlagDivZero
	}
	return accFlags(z.f.Acc())
}

func negR(z, x *Real) Flags {
	if x.nan {
		return z.setNaN()
	}
	z.f.Neg(&x.f)
	return accFlags(z.f.Acc())
}

func posR(z, x *Real) Flags {
	if x.nan {
		return z.setNaN()
	}
	z.f.Set(&x.f)
	return accFlags(z.f.Acc())
}

func absR(z, x *Real) Flags {
	if x.nan {
		return z.setNaN()
	}
	z.f.Abs(&x.f)
	return accFlags(z.f.Acc())
}

// floorQuoR sets q, if not nil, to floor(x/y) and r, if not nil, to x - y×floor(x/y), both rounded to their
// precision.
func floorQuoR(q, r, x, y *Real) Flags {
	nan := func() Flags {
		if q != nil {
			q.setNaN()
		}
		if r != nil {
			r.setNaN()
		}
		return FlagInvalid
	}
	switch {
	case x.nan || y.nan || x.f.IsInf():
		return nan()
	case y.f.Sign() == 0:
		return nan() | FlagDivZero
	}

	var f Flags
	if y.f.IsInf() {
		// x // ±inf is 0 or -1 and x % ±inf is x or ±inf.
		if x.f.Sign() == 0 || x.f.Signbit() == y.f.Signbit() {
			if q != nil {
				q.f.SetInt64(0)
			}
			if r != nil {
				r.f.Set(&x.f)
				f |= accFlags(r.f.Acc())
			}
			return f
		}
		if q != nil {
			q.f.SetInt64(-1)
		}
		if r != nil {
			r.f.Set(&y.f)
		}
		return f
	}

	// both finite: the exact quotient is rational.
	xr, _ := x.f.Rat(nil)
	yr, _ := y.f.Rat(nil)
	n := floorRat(new(big.Rat).Quo(xr, yr))
	if q != nil {
		q.f.SetInt(n)
		f |= accFlags(q.f.Acc())
	}
	if r != nil {
		rem := new(big.Rat).Sub(xr, new(big.Rat).Mul(yr, new(big.Rat).SetInt(n)))
		r.f.SetRat(rem)
		f |= accFlags(r.f.Acc())
		if rem.Sign() == 0 && y.f.Signbit() {
			r.f.Neg(&r.f)
		}
	}
	return f
}

func floorRat(q *big.Rat) *big.Int {
	n := new(big.Int)
	m := new(big.Int)
	n.DivMod(q.Num(), q.Denom(), m)
	return n
}
