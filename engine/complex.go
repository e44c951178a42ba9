package engine

import (
	"fmt"
	"math/big"
	"strings"
)

// Complex is an immutable complex number whose parts are Reals with their own precision.
type Complex struct {
	re, im Real
}

// NewComplex returns a Complex of re + im·i. If im is nil, re may be of any kind including Complex.
// Each part is rounded to the real or imaginary precision of the context unless overridden by Precision.
func NewComplex(re, im interface{}, opts ...ValueOption) (*Complex, error) {
	o := valueOptions(opts)
	c := o.context()
	rp, ip := c.RealPrecision(), c.ImagPrecision()
	if o.prec != 0 {
		rp, ip = o.prec, o.prec
	}

	if im == nil {
		x, f, err := c.complexOperand("complex", re)
		if err != nil {
			return nil, err
		}
		re, im = &x.re, &x.im
		if err := c.apply("complex", f); err != nil {
			return nil, err
		}
	}
	if Classify(re) == KindComplex || Classify(im) == KindComplex {
		return nil, TypeError("complex", KindReal, re)
	}

	r, f, err := c.newReal("complex", re, rp, c.RealRound())
	if err != nil {
		return nil, err
	}
	i, g, err := c.newReal("complex", im, ip, c.ImagRound())
	if err != nil {
		return nil, err
	}
	var z Complex
	setReal(&z.re, r)
	setReal(&z.im, i)
	if err := c.apply("complex", f|g); err != nil {
		return nil, err
	}
	return &z, nil
}

func setReal(z, x *Real) {
	z.f.Copy(&x.f)
	z.nan = x.nan
	z.checked, z.emin, z.emax, z.sub = x.checked, x.emin, x.emax, x.sub
}

// newComplex returns a Complex result with the precision and rounding modes of c's parts.
func (c *Context) newComplex() *Complex {
	var z Complex
	z.re.f.SetPrec(c.RealPrecision()).SetMode(c.RealRound().big())
	z.im.f.SetPrec(c.ImagPrecision()).SetMode(c.ImagRound().big())
	return &z
}

// Kind returns KindComplex.
func (x *Complex) Kind() Kind {
	return KindComplex
}

func (x *Complex) number() {}

// Real returns the real part of x.
func (x *Complex) Real() *Real {
	var z Real
	setReal(&z, &x.re)
	return &z
}

// Imag returns the imaginary part of x.
func (x *Complex) Imag() *Real {
	var z Real
	setReal(&z, &x.im)
	return &z
}

// IsNaN reports whether either part of x is NaN.
func (x *Complex) IsNaN() bool {
	return x.re.nan || x.im.nan
}

// IsInf reports whether either part of x is infinite.
func (x *Complex) IsInf() bool {
	return x.re.IsInf() || x.im.IsInf()
}

// IsZero reports whether both parts of x are zero.
func (x *Complex) IsZero() bool {
	return x.re.IsZero() && x.im.IsZero()
}

// Complex128 returns the complex128 value nearest to x.
func (x *Complex) Complex128() complex128 {
	return complex(x.re.Float64(), x.im.Float64())
}

func (x *Complex) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(x.re.String())
	im := x.im.String()
	if !strings.HasPrefix(im, "-") {
		b.WriteString("+")
	}
	b.WriteString(im)
	b.WriteString("i)")
	return b.String()
}

// Format implements fmt.Formatter. Each part is formatted with the verb as Real does.
func (x *Complex) Format(s fmt.State, format rune) {
	if format == 'v' || format == 's' {
		_, _ = fmt.Fprint(s, x.String())
		return
	}
	_, _ = fmt.Fprint(s, "(")
	x.re.Format(s, format)
	if !x.im.Signbit() {
		_, _ = fmt.Fprint(s, "+")
	}
	x.im.Format(s, format)
	_, _ = fmt.Fprint(s, "i)")
}

func complexFloat64(re, im float64) *Complex {
	var z Complex
	setReal(&z.re, realFloat64(re))
	setReal(&z.im, realFloat64(im))
	return &z
}

// complexOperand returns v of any kind as a Complex to be used as an operand under c.
func (c *Context) complexOperand(op string, v interface{}) (*Complex, Flags, error) {
	switch v := v.(type) {
	case *Complex:
		if v.re.rangeValid(c) && v.im.rangeValid(c) {
			return v, 0, nil
		}
		var z Complex
		setReal(&z.re, &v.re)
		setReal(&z.im, &v.im)
		f := c.clampComplex(&z)
		return &z, f, nil
	case complex128:
		return complexFloat64(real(v), imag(v)), 0, nil
	case complex64:
		return complexFloat64(float64(real(v)), float64(imag(v))), 0, nil
	}

	re, f, err := c.realOperand(op, v)
	if err != nil {
		return nil, 0, err
	}
	var z Complex
	setReal(&z.re, re)
	z.im.f.SetPrec(re.Prec())
	return &z, f, nil
}

func (c *Context) clampComplex(z *Complex) Flags {
	var f Flags
	if !z.re.nan {
		f |= c.clampReal(&z.re, c.RealRound())
	}
	if !z.im.nan {
		f |= c.clampReal(&z.im, c.ImagRound())
	}
	return f
}

// finishComplex checks both parts of z against c's exponent range, merges the flags and raises the first
// trapped one.
func (c *Context) finishComplex(op string, z *Complex, f Flags) (*Complex, error) {
	f |= c.clampComplex(z)
	if z.IsNaN() {
		f |= FlagInvalid
	}
	if err := c.apply(op, f); err != nil {
		return nil, err
	}
	return z, nil
}

func (z *Complex) setNaN() Flags {
	z.re.setNaN()
	return z.im.setNaN()
}

// Complex operations. z must have the precision and rounding mode of its parts set.

func addC(z, x, y *Complex) Flags {
	return addR(&z.re, &x.re, &y.re) | addR(&z.im, &x.im, &y.im)
}

func subC(z, x, y *Complex) Flags {
	return subR(&z.re, &x.re, &y.re) | subR(&z.im, &x.im, &y.im)
}

func posC(z, x *Complex) Flags {
	return posR(&z.re, &x.re) | posR(&z.im, &x.im)
}

func negC(z, x *Complex) Flags {
	return negR(&z.re, &x.re) | negR(&z.im, &x.im)
}

// exactMul returns the exact product of x and y.
func exactMul(x, y *Real) (*Real, Flags) {
	z := newReal(x.Prec()+y.Prec(), RoundNearest)
	return z, mulR(z, x, y)
}

func mulC(z, x, y *Complex) Flags {
	if x.IsNaN() || y.IsNaN() {
		return z.setNaN()
	}

	// a real factor scales both parts.
	switch {
	case y.im.IsZero() && !y.im.Signbit():
		return mulR(&z.re, &x.re, &y.re) | mulR(&z.im, &x.im, &y.re)
	case x.im.IsZero() && !x.im.Signbit():
		return mulR(&z.re, &x.re, &y.re) | mulR(&z.im, &x.re, &y.im)
	}

	// (a+bi)(c+di) = (ac-bd) + (ad+bc)i with exact products and one rounding per part.
	ac, f1 := exactMul(&x.re, &y.re)
	bd, f2 := exactMul(&x.im, &y.im)
	ad, f3 := exactMul(&x.re, &y.im)
	bc, f4 := exactMul(&x.im, &y.re)
	return f1 | f2 | f3 | f4 | subR(&z.re, ac, bd) | addR(&z.im, ad, bc)
}

func quoC(z, x, y *Complex) Flags {
	if x.IsNaN() || y.IsNaN() {
		return z.setNaN()
	}

	if y.im.IsZero() {
		return quoR(&z.re, &x.re, &y.re) | quoR(&z.im, &x.im, &y.re)
	}
	if y.re.IsZero() {
		// (a+bi)/(di) = b/d - (a/d)i
		f := quoR(&z.re, &x.im, &y.im) | quoR(&z.im, &x.re, &y.im)
		z.im.f.Neg(&z.im.f)
		return f
	}

	// (a+bi)/(c+di) = ((ac+bd) + (bc-ad)i)/(c²+d²)
	p := z.re.Prec()
	if z.im.Prec() > p {
		p = z.im.Prec()
	}
	p += guardBits

	cc, f1 := exactMul(&y.re, &y.re)
	dd, f2 := exactMul(&y.im, &y.im)
	ac, f3 := exactMul(&x.re, &y.re)
	bd, f4 := exactMul(&x.im, &y.im)
	bc, f5 := exactMul(&x.im, &y.re)
	ad, f6 := exactMul(&x.re, &y.im)
	f := f1 | f2 | f3 | f4 | f5 | f6

	den, nr, ni := newReal(p, RoundNearest), newReal(p, RoundNearest), newReal(p, RoundNearest)
	f |= addR(den, cc, dd) | addR(nr, ac, bd) | subR(ni, bc, ad)
	return f | quoR(&z.re, nr, den) | quoR(&z.im, ni, den)
}

// absC sets z to |x| and returns the flags.
func absC(z *Real, x *Complex) Flags {
	if x.re.IsInf() || x.im.IsInf() {
		z.f.SetInf(false)
		return 0
	}
	if x.IsNaN() {
		return z.setNaN()
	}
	hypotF(&z.f, &x.re.f, &x.im.f)
	if exactHypot(z, x) {
		return 0
	}
	return FlagInexact
}

// exactHypot reports whether z² is exactly x.re²+x.im².
func exactHypot(z *Real, x *Complex) bool {
	zz := new(big.Float).SetPrec(2 * z.f.Prec()).Mul(&z.f, &z.f)
	a := new(big.Float).SetPrec(2 * x.re.f.Prec()).Mul(&x.re.f, &x.re.f)
	b := new(big.Float).SetPrec(2 * x.im.f.Prec()).Mul(&x.im.f, &x.im.f)
	s := new(big.Float).SetPrec(a.Prec() + b.Prec() + 2)
	s.Add(a, b)
	return s.Acc() == big.Exact && zz.Cmp(s) == 0
}

// sqrtC sets z to the principal square root of x.
func sqrtC(z, x *Complex) Flags {
	a, b := &x.re, &x.im
	switch {
	case x.IsNaN():
		return z.setNaN()
	case b.IsInf():
		z.re.f.SetInf(false)
		z.im.f.Set(&b.f)
		return 0
	case a.IsInf() && a.Signbit():
		z.re.f.SetInt64(0)
		z.im.f.SetInf(b.Signbit())
		return 0
	case a.IsInf():
		z.re.f.SetInf(false)
		z.im.f.SetInt64(0)
		if b.Signbit() {
			z.im.f.Neg(&z.im.f)
		}
		return 0
	case x.IsZero():
		z.re.f.SetInt64(0)
		z.im.f.Set(&b.f)
		return 0
	}

	p := z.re.Prec()
	if z.im.Prec() > p {
		p = z.im.Prec()
	}
	p += guardBits

	// t = sqrt((|a| + |z|)/2)
	t := new(big.Float).SetPrec(p)
	hypotF(t, &a.f, &b.f)
	t.Add(t, new(big.Float).Abs(&a.f))
	t.SetMantExp(t, -1)
	t.Sqrt(t)

	// u = |b|/(2t)
	u := new(big.Float).SetPrec(p).Abs(&b.f)
	u.Quo(u, t)
	u.SetMantExp(u, -1)

	if !a.Signbit() {
		z.re.f.Set(t)
		z.im.f.Set(u)
		if b.Signbit() {
			z.im.f.Neg(&z.im.f)
		}
	} else {
		z.re.f.Set(u)
		z.im.f.Set(t)
		if b.Signbit() {
			z.im.f.Neg(&z.im.f)
		}
	}
	return exactSqrtC(z, x)
}

// exactSqrtC reports FlagInexact unless z² is exactly x.
func exactSqrtC(z, x *Complex) Flags {
	var sq Complex
	sq.re.f.SetPrec(2*z.re.Prec() + 2*z.im.Prec() + 1)
	sq.im.f.SetPrec(z.re.Prec() + z.im.Prec() + 1)
	rr := new(big.Float).SetPrec(2 * z.re.Prec()).Mul(&z.re.f, &z.re.f)
	ii := new(big.Float).SetPrec(2 * z.im.Prec()).Mul(&z.im.f, &z.im.f)
	sq.re.f.Sub(rr, ii)
	sq.im.f.Mul(&z.re.f, &z.im.f)
	sq.im.f.SetMantExp(&sq.im.f, 1)
	if sq.re.f.Acc() == big.Exact && sq.im.f.Acc() == big.Exact && sq.re.f.Cmp(&x.re.f) == 0 && sq.im.f.Cmp(&x.im.f) == 0 {
		return 0
	}
	return FlagInexact
}

// expC sets z to e**x. The exponent range of the modulus is checked by the caller's clamp.
func expC(z, x *Complex, emin, emax int) Flags {
	a, b := &x.re, &x.im
	switch {
	case x.IsNaN():
		return z.setNaN()
	case b.IsZero():
		f := expR(&z.re, a, emin, emax)
		z.im.f.Set(&b.f)
		return f
	case b.IsInf():
		return z.setNaN()
	case a.IsInf() && a.Signbit():
		z.re.f.SetInt64(0)
		z.im.f.SetInt64(0)
		return 0
	}

	p := z.re.Prec()
	if z.im.Prec() > p {
		p = z.im.Prec()
	}
	p += guardBits

	m := newReal(p, RoundNearest)
	f := expR(m, a, emin, emax)
	sin, cos := sinCosF(&b.f, p)
	s, c := newReal(p, RoundNearest), newReal(p, RoundNearest)
	s.f.Set(sin)
	c.f.Set(cos)
	f |= mulR(&z.re, m, c) | mulR(&z.im, m, s)
	return f | FlagInexact
}

// logC sets z to the principal logarithm of x.
func logC(z, x *Complex) Flags {
	a, b := &x.re, &x.im
	if x.IsNaN() {
		return z.setNaN()
	}
	if x.IsZero() {
		z.re.f.SetInf(true)
		atan2F(&z.im.f, &b.f, &a.f)
		return FlagDivZero
	}

	p := z.re.Prec() + guardBits
	m := new(big.Float).SetPrec(p)
	hypotF(m, &a.f, &b.f)
	if m.IsInf() {
		z.re.f.SetInf(false)
	} else {
		logF(&z.re.f, m)
	}
	atan2F(&z.im.f, &b.f, &a.f)
	if z.re.f.Sign() == 0 && z.im.f.Sign() == 0 {
		return 0
	}
	return FlagInexact
}

// powCInt sets z to x**n for an integer n by binary powering with guard bits.
func powCInt(z, x *Complex, n *big.Int) Flags {
	if n.Sign() == 0 {
		z.re.f.SetInt64(1)
		z.im.f.SetInt64(0)
		return 0
	}
	p := z.re.Prec()
	if z.im.Prec() > p {
		p = z.im.Prec()
	}
	p += guardBits + uint(n.BitLen())

	work := func() *Complex {
		var w Complex
		w.re.f.SetPrec(p)
		w.im.f.SetPrec(p)
		return &w
	}
	// y stays nil until the lowest set bit so that signed zeros aren't produced by multiplying by 1.
	var y *Complex
	b := work()
	setReal(&b.re, &x.re)
	setReal(&b.im, &x.im)

	var f Flags
	abs := new(big.Int).Abs(n)
	for i := 0; i < abs.BitLen(); i++ {
		if abs.Bit(i) == 1 {
			if y == nil {
				y = b
			} else {
				t := work()
				f |= mulC(t, y, b)
				y = t
			}
		}
		if i < abs.BitLen()-1 {
			t := work()
			f |= mulC(t, b, b)
			b = t
		}
	}
	if n.Sign() < 0 {
		u := work()
		u.re.f.SetInt64(1)
		f |= quoC(z, u, y)
		return f
	}
	z.re.f.Set(&y.re.f)
	z.im.f.Set(&y.im.f)
	z.re.nan, z.im.nan = y.re.nan, y.im.nan
	return f | accFlags(z.re.f.Acc()) | accFlags(z.im.f.Acc())
}

// powC sets z to x**y = e**(y·log x) for a non-integral y.
func powC(z, x, y *Complex, emin, emax int) Flags {
	if x.IsZero() {
		if y.re.Sign() > 0 {
			z.re.f.SetInt64(0)
			z.im.f.SetInt64(0)
			return 0
		}
		return z.setNaN()
	}
	p := z.re.Prec()
	if z.im.Prec() > p {
		p = z.im.Prec()
	}
	p += guardBits

	work := func() *Complex {
		var w Complex
		w.re.f.SetPrec(p)
		w.im.f.SetPrec(p)
		return &w
	}
	l := work()
	f := logC(l, x)
	t := work()
	f |= mulC(t, y, l)
	return f | expC(z, t, emin, emax) | FlagInexact
}

// isIntegral reports whether x is a finite real integer.
func (x *Complex) isIntegral() bool {
	return x.im.IsZero() && x.re.IsInt()
}
