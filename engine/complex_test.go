package engine

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComplex(t *testing.T) {
	tests := []struct {
		title  string
		re, im interface{}
		value  string
		err    error
	}{
		{title: "parts", re: 1, im: 2, value: "(1+2i)"},
		{title: "complex128", re: complex(1, -2), value: "(1-2i)"},
		{title: "integer", re: NewInt(3), value: "(3+0i)"},
		{title: "rational parts", re: mustRat(t, 1, 2), im: mustRat(t, -1, 4), value: "(0.5-0.25i)"},
		{title: "infinite part", re: math.Inf(-1), im: 0, value: "(-inf+0i)"},
		{title: "complex part", re: complex(1, 1), im: 2, err: TypeMismatch},
		{title: "unsupported", re: "1+2i", err: TypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			z, err := NewComplex(tt.re, tt.im, Using(DefaultContext()))
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "%v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, z.String())
		})
	}
}

func TestNewComplex_precision(t *testing.T) {
	c := newTestContext(t, WithRealPrecision(10), WithImagPrecision(20))
	z, err := NewComplex(1, 2, Using(c))
	require.NoError(t, err)
	assert.Equal(t, uint(10), z.Real().Prec())
	assert.Equal(t, uint(20), z.Imag().Prec())

	z, err = NewComplex(1, 2, Using(c), Precision(30))
	require.NoError(t, err)
	assert.Equal(t, uint(30), z.Real().Prec())
	assert.Equal(t, uint(30), z.Imag().Prec())
}

func TestComplex_accessors(t *testing.T) {
	z, err := NewComplex(1.5, -2, Using(DefaultContext()))
	require.NoError(t, err)
	assert.Equal(t, KindComplex, z.Kind())
	assert.Equal(t, complex(1.5, -2), z.Complex128())
	assert.False(t, z.IsNaN())
	assert.False(t, z.IsInf())
	assert.False(t, z.IsZero())
	assert.Equal(t, "(1.50-2.00i)", fmt.Sprintf("%.2f", z))
	assert.Equal(t, "(1.5-2i)", fmt.Sprintf("%v", z))

	// the parts are copies.
	re := z.Real()
	re.f.SetInt64(0)
	assert.Equal(t, 1.5, z.Real().Float64())

	z, err = NewComplex(math.Inf(1), 0, Using(DefaultContext()))
	require.NoError(t, err)
	assert.True(t, z.IsInf())

	z, err = NewComplex(0, 0, Using(DefaultContext()))
	require.NoError(t, err)
	assert.True(t, z.IsZero())
}

func TestContext_complex(t *testing.T) {
	tests := []struct {
		title string
		f     func(c *Context) (Number, error)
		want  complex128
	}{
		{title: "add", f: func(c *Context) (Number, error) {
			return c.Add(complex(1, 2), complex(3, -4))
		}, want: complex(4, -2)},
		{title: "sub", f: func(c *Context) (Number, error) {
			return c.Sub(complex(1, 2), 1)
		}, want: complex(0, 2)},
		{title: "div", f: func(c *Context) (Number, error) {
			return c.Div(complex(1, 2), complex(3, 4))
		}, want: complex(0.44, 0.08)},
		{title: "div by imaginary", f: func(c *Context) (Number, error) {
			return c.Div(complex(1, 2), complex(0, 2))
		}, want: complex(1, -0.5)},
		{title: "neg", f: func(c *Context) (Number, error) {
			return c.Neg(complex(1, -2))
		}, want: complex(-1, 2)},
		{title: "sqrt", f: func(c *Context) (Number, error) {
			return c.Sqrt(complex(3, 4))
		}, want: complex(2, 1)},
		{title: "exp", f: func(c *Context) (Number, error) {
			return c.Exp(complex(0, math.Pi))
		}, want: complex(-1, 0)},
		{title: "log", f: func(c *Context) (Number, error) {
			return c.Log(complex(-1, 0))
		}, want: complex(0, math.Pi)},
		{title: "pow integer", f: func(c *Context) (Number, error) {
			return c.Pow(complex(1, 1), -2)
		}, want: complex(0, -0.5)},
		{title: "pow fraction", f: func(c *Context) (Number, error) {
			return c.Pow(complex(-1, 0), 0.5)
		}, want: complex(0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			z, err := tt.f(DefaultContext())
			require.NoError(t, err)
			require.Equal(t, KindComplex, z.Kind())
			got := z.(*Complex).Complex128()
			assert.InDelta(t, real(tt.want), real(got), 1e-15)
			assert.InDelta(t, imag(tt.want), imag(got), 1e-15)
		})
	}
}

func TestContext_complexAbs(t *testing.T) {
	c := DefaultContext()
	z, err := c.Abs(complex(3, -4))
	require.NoError(t, err)
	assert.Equal(t, KindReal, z.Kind())
	assert.Equal(t, "5", z.String())
	assert.False(t, c.Flags().Has(FlagInexact))

	z, err = c.Abs(complex(1, 1))
	require.NoError(t, err)
	assert.Equal(t, math.Sqrt2, z.(*Real).Float64())
	assert.True(t, c.Flags().Has(FlagInexact))
}

func TestContext_allowComplex(t *testing.T) {
	t.Run("sqrt", func(t *testing.T) {
		c := newTestContext(t, WithAllowComplex(true))
		z, err := c.Sqrt(-4)
		require.NoError(t, err)
		assert.Equal(t, "(0+2i)", z.String())
		assert.False(t, c.Flags().Has(FlagInexact))
	})

	t.Run("log", func(t *testing.T) {
		c := newTestContext(t, WithAllowComplex(true))
		z, err := c.Log(NewInt(-1))
		require.NoError(t, err)
		require.Equal(t, KindComplex, z.Kind())
		assert.InDelta(t, math.Pi, imag(z.(*Complex).Complex128()), 1e-15)
	})

	t.Run("disallowed", func(t *testing.T) {
		c := DefaultContext()
		z, err := c.Sqrt(-4)
		require.NoError(t, err)
		assert.Equal(t, "nan", z.String())
		assert.True(t, c.Flags().Has(FlagInvalid))
	})
}

func TestContext_complexNaN(t *testing.T) {
	c := DefaultContext()
	z, err := c.Exp(complex(0, math.Inf(1)))
	require.NoError(t, err)
	assert.True(t, z.(*Complex).IsNaN())
	assert.True(t, c.Flags().Has(FlagInvalid))

	c = newTestContext(t, WithTraps(FlagInvalid))
	_, err = c.Exp(complex(0, math.Inf(1)))
	assert.True(t, errors.Is(err, InvalidOperation))
}
