package engine

import (
	"math"
	"math/big"
	"math/bits"
)

// Elementary functions on finite big.Float values. They compute with guard bits and round once to the
// precision of z. Callers deal with special values and the exponent range.

var (
	one  = big.NewFloat(1)
	four = big.NewFloat(4)
)

// expF sets z to e**x and returns z. |x| must be small enough for the result to stay within big.Float's
// exponent range.
func expF(z, x *big.Float) *big.Float {
	prec := z.Prec()
	if x.Sign() == 0 {
		return z.SetInt64(1)
	}

	// x = n·log(2) + r, |r| <= log(2)/2
	p := prec + guardBits
	if e := x.MantExp(nil); e > 0 {
		p += uint(e)
	}
	l := ln2(p)
	t := new(big.Float).SetPrec(p).Quo(x, l)
	tf, _ := t.Float64()
	n := int64(math.Round(tf))
	r := new(big.Float).SetPrec(p).Mul(l, t.SetInt64(n))
	r.Sub(x, r)

	// e**r = (e**(r/2**k))**(2**k)
	k := int(math.Sqrt(float64(prec)))/2 + 1
	q := p + uint(k)
	r.SetPrec(q)
	r.SetMantExp(r, -k)

	s := new(big.Float).SetPrec(q).SetInt64(1)
	term := new(big.Float).SetPrec(q).SetInt64(1)
	d := new(big.Float).SetPrec(q)
	for i := int64(1); ; i++ {
		term.Mul(term, r)
		term.Quo(term, d.SetInt64(i))
		if negligible(term, s, q) {
			break
		}
		s.Add(s, term)
	}
	for ; k > 0; k-- {
		s.Mul(s, s)
	}
	s.SetMantExp(s, int(n))
	return z.Set(s)
}

// logF sets z to the natural logarithm of x > 0 and returns z.
func logF(z, x *big.Float) *big.Float {
	prec := z.Prec()
	if x.Cmp(one) == 0 {
		return z.SetInt64(0)
	}

	p := prec + guardBits

	// log(x) loses the leading bits of x-1 to cancellation.
	d := new(big.Float).SetPrec(x.Prec() + 2).Sub(x, one)
	if e := d.MantExp(nil); e < 0 {
		p += uint(-e)
	}

	// s = x·2^m > 2^(p/2) so that log(s) = π/(2·agm(1, 4/s)) holds to p bits.
	m := int(p/2) + 2 - x.MantExp(nil)
	if m < 0 {
		m = 0
	}
	p += uint(bits.Len(uint(m)))

	s := new(big.Float).SetPrec(p).SetMantExp(x, m)
	a := new(big.Float).SetPrec(p).SetInt64(1)
	b := new(big.Float).SetPrec(p).Quo(four, s)
	t := agm(new(big.Float).SetPrec(p), a, b)
	t.SetMantExp(t, 1)

	r := pi(p)
	r.Quo(r, t)
	if m > 0 {
		l := ln2(p)
		r.Sub(r, l.Mul(l, new(big.Float).SetInt64(int64(m))))
	}
	return z.Set(r)
}

// sinCosF returns sin(x) and cos(x) with a precision of prec bits.
func sinCosF(x *big.Float, prec uint) (*big.Float, *big.Float) {
	p := prec + guardBits
	if e := x.MantExp(nil); e > 0 {
		p += uint(e)
	}

	// x = n·π/2 + r, |r| <= π/4
	h := pi(p)
	h.SetMantExp(h, -1)
	t := new(big.Float).SetPrec(p).Quo(x, h)
	if t.Signbit() {
		t.Sub(t, big.NewFloat(0.5))
	} else {
		t.Add(t, big.NewFloat(0.5))
	}
	n, _ := t.Int(nil)
	r := new(big.Float).SetPrec(p).Mul(h, t.SetInt(n))
	r.Sub(x, r)

	r2 := new(big.Float).SetPrec(p).Mul(r, r)
	r2.Neg(r2)
	d := new(big.Float).SetPrec(p)

	s := new(big.Float).SetPrec(p).Set(r)
	term := new(big.Float).SetPrec(p).Set(r)
	for i := int64(1); ; i++ {
		term.Mul(term, r2)
		term.Quo(term, d.SetInt64((2*i)*(2*i+1)))
		if negligible(term, s, p) {
			break
		}
		s.Add(s, term)
	}

	c := new(big.Float).SetPrec(p).SetInt64(1)
	term.SetInt64(1)
	for i := int64(1); ; i++ {
		term.Mul(term, r2)
		term.Quo(term, d.SetInt64((2*i-1)*(2*i)))
		if negligible(term, c, p) {
			break
		}
		c.Add(c, term)
	}

	switch new(big.Int).And(n, big.NewInt(3)).Int64() {
	case 1:
		s, c = c, s.Neg(s)
	case 2:
		s, c = s.Neg(s), c.Neg(c)
	case 3:
		s, c = c.Neg(c), s
	}
	return s.SetPrec(prec), c.SetPrec(prec)
}

// atanF sets z to atan(x) for |x| <= 1 and returns z.
func atanF(z, x *big.Float) *big.Float {
	p := z.Prec() + guardBits
	t := new(big.Float).SetPrec(p).Set(x)
	if t.Sign() == 0 {
		return z.Set(x)
	}

	// atan(t) = 2·atan(t/(1+sqrt(1+t²)))
	k := 0
	u := new(big.Float).SetPrec(p)
	for ; k < 32 && t.MantExp(nil) > -8; k++ {
		u.Mul(t, t)
		u.Add(u, one)
		u.Sqrt(u)
		u.Add(u, one)
		t.Quo(t, u)
	}

	t2 := new(big.Float).SetPrec(p).Mul(t, t)
	t2.Neg(t2)
	s := new(big.Float).SetPrec(p).Set(t)
	term := new(big.Float).SetPrec(p).Set(t)
	d := new(big.Float).SetPrec(p)
	for i := int64(1); ; i++ {
		term.Mul(term, t2)
		d.Quo(term, u.SetInt64(2*i+1))
		if negligible(d, s, p) {
			break
		}
		s.Add(s, d)
	}
	s.SetMantExp(s, k)
	return z.Set(s)
}

// atan2F sets z to the angle of the point (x, y) in (-π, π] and returns z. Infinities are allowed.
func atan2F(z, y, x *big.Float) *big.Float {
	prec := z.Prec()
	p := prec + guardBits
	switch {
	case y.IsInf() && x.IsInf():
		// ±π/4 or ±3π/4
		r := pi(p)
		r.SetMantExp(r, -2)
		if x.Signbit() {
			r.Mul(r, big.NewFloat(3))
		}
		if y.Signbit() {
			r.Neg(r)
		}
		return z.Set(r)
	case y.IsInf() || x.Sign() == 0 && y.Sign() != 0:
		r := pi(p)
		r.SetMantExp(r, -1)
		if y.Signbit() {
			r.Neg(r)
		}
		return z.Set(r)
	case x.IsInf() || y.Sign() == 0:
		if !x.Signbit() {
			z.SetInt64(0)
			if y.Signbit() {
				z.Neg(z)
			}
			return z
		}
		r := pi(p)
		if y.Signbit() {
			r.Neg(r)
		}
		return z.Set(r)
	}

	var r *big.Float
	q := new(big.Float).SetPrec(p)
	if new(big.Float).Abs(y).Cmp(new(big.Float).Abs(x)) <= 0 {
		r = atanF(new(big.Float).SetPrec(p), q.Quo(y, x))
		if x.Signbit() {
			h := pi(p)
			if y.Signbit() {
				r.Sub(r, h)
			} else {
				r.Add(r, h)
			}
		}
	} else {
		h := pi(p)
		h.SetMantExp(h, -1)
		if y.Signbit() {
			h.Neg(h)
		}
		r = atanF(new(big.Float).SetPrec(p), q.Quo(x, y))
		r.Sub(h, r)
	}
	return z.Set(r)
}

// hypotF sets z to sqrt(x²+y²) and returns z.
func hypotF(z, x, y *big.Float) *big.Float {
	if x.IsInf() || y.IsInf() {
		return z.SetInf(false)
	}
	p := z.Prec() + guardBits
	a := new(big.Float).SetPrec(2 * x.Prec()).Mul(x, x)
	b := new(big.Float).SetPrec(2 * y.Prec()).Mul(y, y)
	s := new(big.Float).SetPrec(p).Add(a, b)
	if s.Sign() == 0 {
		return z.SetInt64(0)
	}
	return z.Sqrt(s)
}

// powF sets z to x**n for an integer n >= 0 by binary powering and returns z along with whether the result
// is exact. The caller checks the exponent range beforehand.
func powF(z, x *big.Float, n *big.Int) (*big.Float, bool) {
	if n.Sign() == 0 {
		return z.SetInt64(1), true
	}

	// exact if the working precision holds every bit of the result.
	need := math.Inf(1)
	if n.IsUint64() {
		need = float64(x.MinPrec()) * float64(n.Uint64())
	}
	var p uint
	exact := need <= float64(z.Prec()+guardBits)
	if exact {
		p = uint(need) + 1
	} else {
		p = z.Prec() + guardBits + uint(n.BitLen())
	}

	y := new(big.Float).SetPrec(p).SetInt64(1)
	b := new(big.Float).SetPrec(p).Set(x)
	for i := 0; i < n.BitLen(); i++ {
		if n.Bit(i) == 1 {
			y.Mul(y, b)
		}
		if i < n.BitLen()-1 {
			b.Mul(b, b)
		}
	}
	z.Set(y)
	return z, exact && z.Acc() == big.Exact
}

// negligible reports whether term no longer changes sum at p bits.
func negligible(term, sum *big.Float, p uint) bool {
	if term.Sign() == 0 {
		return true
	}
	if sum.Sign() == 0 {
		return false
	}
	return term.MantExp(nil) < sum.MantExp(nil)-int(p)-1
}
