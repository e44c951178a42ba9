package engine

import (
	"math/big"
	"math/bits"
	"sync"
)

// Scratch values are pooled by size class: the number of machine words of storage, rounded up to a power of 4.
// Values bigger than the largest class are left to the garbage collector.
const poolClasses = 5

var (
	intPools  [poolClasses]sync.Pool
	realPools [poolClasses]sync.Pool
)

// sizeClass returns the pool for a value of n bits, or -1 if it's not pooled.
func sizeClass(n uint) int {
	words := (n + bits.UintSize - 1) / bits.UintSize
	for c, max := 0, uint(1); c < poolClasses; c, max = c+1, max*4 {
		if words <= max {
			return c
		}
	}
	return -1
}

// acquireInt returns a zero big.Int from the pool for values of up to n bits.
func acquireInt(n uint) *big.Int {
	c := sizeClass(n)
	if c < 0 {
		return new(big.Int)
	}
	i, ok := intPools[c].Get().(*big.Int)
	if !ok {
		return new(big.Int)
	}
	return i.SetInt64(0)
}

// releaseInt returns i to the pool. i must not be used afterwards.
func releaseInt(i *big.Int) {
	if i == nil {
		return
	}
	c := sizeClass(uint(i.BitLen()))
	if c < 0 {
		return
	}
	intPools[c].Put(i)
}

// acquireReal returns a scratch Real of the given precision rounded to nearest.
func acquireReal(prec uint) *Real {
	c := sizeClass(prec)
	if c < 0 {
		return newReal(prec, RoundNearest)
	}
	r, ok := realPools[c].Get().(*Real)
	if !ok {
		return newReal(prec, RoundNearest)
	}
	r.nan, r.checked = false, false
	r.f.SetInt64(0)
	r.f.SetPrec(prec).SetMode(big.ToNearestEven)
	return r
}

// releaseReal returns r to the pool. r must not be used afterwards.
func releaseReal(r *Real) {
	if r == nil {
		return
	}
	c := sizeClass(r.f.Prec())
	if c < 0 {
		return
	}
	realPools[c].Put(r)
}
