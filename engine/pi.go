package engine

import (
	"math/big"
	"math/bits"
	"sync"
)

var (
	constMu sync.Mutex
	_pi     = new(big.Float)
	_ln2    = new(big.Float)
)

// pi returns a new π with a precision of prec bits.
func pi(prec uint) *big.Float {
	constMu.Lock()
	defer constMu.Unlock()
	if _pi.Prec() < prec {
		gaussLegendre(_pi.SetPrec(prec))
	}
	return new(big.Float).SetPrec(prec).Set(_pi)
}

// ln2 returns a new log(2) with a precision of prec bits.
func ln2(prec uint) *big.Float {
	constMu.Lock()
	defer constMu.Unlock()
	if _ln2.Prec() < prec {
		logTwo(_ln2.SetPrec(prec))
	}
	return new(big.Float).SetPrec(prec).Set(_ln2)
}

// gaussLegendre computes π to z.Prec() bits and returns z.
func gaussLegendre(z *big.Float) *big.Float {
	prec := z.Prec()
	p := prec + guardBits
	var (
		a = new(big.Float).SetPrec(p).SetInt64(1)
		b = new(big.Float).SetPrec(p).SetInt64(2)
		t = new(big.Float).SetPrec(p).SetFloat64(0.25)
		u = new(big.Float).SetPrec(p)
		w = new(big.Float).SetPrec(p).SetInt64(1)
		d = new(big.Float).SetPrec(p)
	)
	b.Sqrt(b)
	b.Quo(w, b)

	for i := maxIter(p); i > 0; i-- {
		u.Set(a)
		a.Add(a, b)
		a.SetMantExp(a, -1)
		b.Sqrt(b.Mul(u, b))

		// t = t - p×(a_n - a_n+1)²
		d.Sub(u, a)
		d.Mul(d, d)
		d.Mul(d, w)
		t.Sub(t, d)

		if converged(d.Sub(a, b), a, p) {
			break
		}

		w.SetMantExp(w, 1)
	}

	d.Add(a, b)
	d.Mul(d, d)
	t.SetMantExp(t, 2)
	return z.Quo(d, t)
}

// logTwo computes log(2) to z.Prec() bits and returns z.
// With x = 2^m > 2^(p/2), log(x) = π/(2·agm(1, 4/x)) and log(2) = log(x)/m.
func logTwo(z *big.Float) *big.Float {
	prec := z.Prec()
	p := prec + guardBits
	m := int(p/2) + 2

	a := new(big.Float).SetPrec(p).SetInt64(1)
	b := new(big.Float).SetPrec(p).SetInt64(1)
	b.SetMantExp(b, 2-m)

	t := new(big.Float).SetPrec(p)
	agm(t, a, b)
	t.SetMantExp(t, 1)

	// π isn't taken from the cache while constMu is held.
	q := gaussLegendre(new(big.Float).SetPrec(p))
	q.Quo(q, t)
	q.Quo(q, new(big.Float).SetInt64(int64(m)))
	return z.Set(q)
}

// agm sets z to the arithmetic-geometric mean of a and b and returns z. a and b are not preserved.
func agm(z, a, b *big.Float) *big.Float {
	p := z.Prec()
	t := new(big.Float).SetPrec(p)
	for i := maxIter(p); i > 0; i-- {
		t.Set(a)
		a.Add(a, b)
		a.SetMantExp(a, -1)
		b.Sqrt(z.Mul(t, b))
		if converged(z.Sub(a, b), a, p) {
			break
		}
	}
	return z.Set(a)
}

// converged reports whether d is within a few ulps of x at p bits.
func converged(d, x *big.Float, p uint) bool {
	if d.Sign() == 0 {
		return true
	}
	return d.MantExp(nil) < x.MantExp(nil)-int(p)+4
}

// maxIter bounds the iterations of a quadratically convergent method at p bits.
func maxIter(p uint) int {
	return 2*bits.Len(p) + 8
}
