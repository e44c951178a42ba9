package engine

import (
	"math/big"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeClass(t *testing.T) {
	tests := []struct {
		words uint
		class int
	}{
		{words: 0, class: 0},
		{words: 1, class: 0},
		{words: 2, class: 1},
		{words: 4, class: 1},
		{words: 5, class: 2},
		{words: 16, class: 2},
		{words: 64, class: 3},
		{words: 256, class: 4},
		{words: 257, class: -1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.class, sizeClass(tt.words*bits.UintSize), "%d words", tt.words)
	}
	assert.Equal(t, 1, sizeClass(bits.UintSize+1))
}

func TestAcquireInt(t *testing.T) {
	i := acquireInt(64)
	assert.Equal(t, 0, i.Sign())
	i.SetInt64(-42)
	releaseInt(i)

	j := acquireInt(64)
	assert.Equal(t, 0, j.Sign())
	releaseInt(j)

	large := new(big.Int).Lsh(big.NewInt(1), 1<<15)
	releaseInt(large)
	releaseInt(nil)
	assert.Equal(t, 0, acquireInt(1<<15).Sign())
}

func TestAcquireReal(t *testing.T) {
	r := acquireReal(100)
	assert.Equal(t, uint(100), r.Prec())
	assert.Equal(t, big.ToNearestEven, r.f.Mode())
	r.f.SetMode(big.ToZero)
	r.setNaN()
	releaseReal(r)

	s := acquireReal(70)
	assert.Equal(t, uint(70), s.Prec())
	assert.False(t, s.IsNaN())
	assert.True(t, s.IsZero())
	assert.Equal(t, big.ToNearestEven, s.f.Mode())
	releaseReal(s)
	releaseReal(nil)
}
