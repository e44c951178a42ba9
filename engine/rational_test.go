package engine

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/cockroachdb/apd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fraction struct {
	n, d int64
}

func (f fraction) Numerator() *big.Int {
	return big.NewInt(f.n)
}

func (f fraction) Denominator() *big.Int {
	return big.NewInt(f.d)
}

func TestNewRational(t *testing.T) {
	tests := []struct {
		title string
		v     interface{}
		value string
		err   error
	}{
		{title: "integer", v: NewInt(3), value: "3"},
		{title: "string", v: "6/4", value: "3/2"},
		{title: "decimal string", v: "1.25", value: "5/4"},
		{title: "float is exact", v: 0.1, value: "3602879701896397/36028797018963968"},
		{title: "decimal", v: apd.New(-125, -3), value: "-1/8"},
		{title: "fraction", v: fraction{n: 2, d: -6}, value: "-1/3"},
		{title: "fraction with zero denominator", v: fraction{n: 1}, err: DivisionByZero},
		{title: "invalid string", v: "1/x", err: ValueInvalid},
		{title: "complex", v: complex(1, 0), err: TypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			r, err := NewRational(tt.v)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "%v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, r.String())
		})
	}
}

func TestNewRat(t *testing.T) {
	r, err := NewRat(2, -4)
	require.NoError(t, err)
	assert.Equal(t, "-1/2", r.String())
	assert.Equal(t, "-1", r.Num().String())
	assert.Equal(t, "2", r.Denom().String())
	assert.Equal(t, -1, r.Sign())
	assert.Equal(t, KindRational, r.Kind())

	_, err = NewRat(1, 0)
	assert.True(t, errors.Is(err, DivisionByZero))
}

func TestParseRational(t *testing.T) {
	tests := []struct {
		title string
		s     string
		base  int
		value string
		err   error
	}{
		{title: "hex", s: "ff/10", base: 16, value: "255/16"},
		{title: "binary integer", s: "-101", base: 2, value: "-5"},
		{title: "prefixed", s: "0x10/0b11", base: 0, value: "16/3"},
		{title: "zero denominator", s: "1/0", base: 16, err: DivisionByZero},
		{title: "invalid", s: "1/2/3", base: 8, err: ValueInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			r, err := ParseRational(tt.s, tt.base)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "%v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, r.String())
		})
	}
}

func TestRational_Format(t *testing.T) {
	r, err := NewRat(255, 16)
	require.NoError(t, err)
	assert.Equal(t, "255/16", fmt.Sprintf("%v", r))
	assert.Equal(t, "ff/10", fmt.Sprintf("%x", r))

	i, err := NewRat(4, 2)
	require.NoError(t, err)
	assert.Equal(t, "2", fmt.Sprintf("%d", i))
}
