package engine

import (
	"math"
	"math/big"
)

// Real elementary operations. z must have its precision and rounding mode set. emin and emax bound the
// exponent of the result so that results far out of range are produced without computing them.

func sqrtR(z, x *Real) Flags {
	switch {
	case x.nan:
		return z.setNaN()
	case x.f.Sign() == 0 || x.f.IsInf() && !x.f.Signbit():
		z.f.Set(&x.f)
		return 0
	case x.f.Signbit():
		return z.setNaN()
	}
	z.f.Sqrt(&x.f)

	// big.Float.Sqrt doesn't report the accuracy.
	sq := new(big.Float).SetPrec(2 * z.f.Prec()).Mul(&z.f, &z.f)
	if sq.Cmp(&x.f) != 0 {
		return FlagInexact
	}
	return 0
}

func expR(z, x *Real, emin, emax int) Flags {
	switch {
	case x.nan:
		return z.setNaN()
	case x.f.IsInf() && x.f.Signbit():
		z.f.SetInt64(0)
		return 0
	case x.f.IsInf():
		z.f.SetInf(false)
		return 0
	case x.f.Sign() == 0:
		z.f.SetInt64(1)
		return 0
	}
	return expBig(&z.f, &x.f, emin, emax)
}

// expBig sets z to e**x for a finite nonzero x.
func expBig(z, x *big.Float, emin, emax int) Flags {
	xf, _ := x.Float64()
	switch {
	case xf > float64(emax+1)*math.Ln2:
		z.SetInt64(1)
		z.SetMantExp(z, emax+1)
	case xf < float64(emin-2)*math.Ln2:
		z.SetInt64(1)
		z.SetMantExp(z, emin-3)
	default:
		expF(z, x)
	}
	return FlagInexact
}

func logR(z, x *Real) Flags {
	switch {
	case x.nan:
		return z.setNaN()
	case x.f.Sign() == 0:
		z.f.SetInf(true)
		return FlagDivZero
	case x.f.Signbit():
		return z.setNaN()
	case x.f.IsInf():
		z.f.SetInf(false)
		return 0
	case x.f.Cmp(one) == 0:
		z.f.SetInt64(0)
		return 0
	}
	logF(&z.f, &x.f)
	return FlagInexact
}

func powR(z, x, y *Real, emin, emax int) Flags {
	switch {
	case y.IsZero():
		z.f.SetInt64(1)
		return 0
	case !x.nan && x.f.Cmp(one) == 0:
		z.f.SetInt64(1)
		return 0
	case x.nan || y.nan:
		return z.setNaN()
	case y.IsInt():
		n, _ := y.f.Int(nil)
		return powRInt(z, x, n, emin, emax)
	}

	// y is infinite or not an integer.
	if y.f.IsInf() {
		a := new(big.Float).Abs(&x.f)
		switch c := a.Cmp(one); {
		case c == 0:
			z.f.SetInt64(1)
		case (c > 0) != y.f.Signbit():
			z.f.SetInf(false)
		default:
			z.f.SetInt64(0)
		}
		return 0
	}

	switch {
	case x.f.IsInf():
		if y.f.Signbit() {
			z.f.SetInt64(0)
		} else {
			z.f.SetInf(false)
		}
		return 0
	case x.f.Sign() == 0:
		if y.f.Signbit() {
			z.f.SetInf(false)
			return FlagDivZero
		}
		z.f.SetInt64(0)
		return 0
	case x.f.Signbit():
		return z.setNaN()
	}

	// x**y = e**(y·log(x)). The absolute error of the exponent is amplified by its magnitude.
	p := z.f.Prec() + guardBits
	t := logF(new(big.Float).SetPrec(p), &x.f)
	t.Mul(t, &y.f)
	if e := t.MantExp(nil); e > 0 {
		p += uint(e)
		t = logF(new(big.Float).SetPrec(p), &x.f)
		t.Mul(t, &y.f)
	}
	if t.Sign() == 0 {
		z.f.SetInt64(1)
		return FlagInexact
	}
	return expBig(&z.f, t, emin, emax)
}

// powRInt sets z to x**n for an integer n.
func powRInt(z, x *Real, n *big.Int, emin, emax int) Flags {
	neg := x.f.Signbit() && n.Bit(0) == 1
	switch {
	case x.nan:
		return z.setNaN()
	case x.f.Sign() == 0:
		if n.Sign() < 0 {
			z.f.SetInf(neg)
			return FlagDivZero
		}
		z.f.SetInt64(0)
		if neg {
			z.f.Neg(&z.f)
		}
		return 0
	case x.f.IsInf():
		if n.Sign() < 0 {
			z.f.SetInt64(0)
			if neg {
				z.f.Neg(&z.f)
			}
		} else {
			z.f.SetInf(neg)
		}
		return 0
	}

	// estimate the binary exponent of the result.
	mant := new(big.Float)
	e := x.f.MantExp(mant)
	m, _ := mant.Float64()
	nf, _ := new(big.Float).SetInt(n).Float64()
	est := (float64(e) + math.Log2(math.Abs(m))) * nf
	switch {
	case est > float64(emax+2):
		z.f.SetInt64(1)
		z.f.SetMantExp(&z.f, emax+1)
		if neg {
			z.f.Neg(&z.f)
		}
		return FlagInexact
	case est < float64(emin-3):
		z.f.SetInt64(1)
		z.f.SetMantExp(&z.f, emin-3)
		if neg {
			z.f.Neg(&z.f)
		}
		return FlagInexact
	}

	if n.Sign() >= 0 {
		if _, exact := powF(&z.f, &x.f, n); exact {
			return 0
		}
		return FlagInexact
	}

	t := new(big.Float).SetPrec(z.f.Prec() + guardBits)
	_, exact := powF(t, &x.f, new(big.Int).Neg(n))
	z.f.Quo(one, t)
	if exact && z.f.Acc() == big.Exact {
		return 0
	}
	return FlagInexact
}
