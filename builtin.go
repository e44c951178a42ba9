package bignum

import (
	"github.com/ichiban/bignum/engine"
)

type function struct {
	min, max int
	call     func(c *engine.Context, args []interface{}) (engine.Number, error)
}

var builtins = map[string]function{
	"mpz":  {min: 1, max: 1, call: mpz},
	"mpq":  {min: 1, max: 2, call: mpq},
	"mpfr": {min: 1, max: 2, call: mpfr},
	"mpc":  {min: 1, max: 2, call: mpc},
	"sqrt": unary((*engine.Context).Sqrt),
	"exp":  unary((*engine.Context).Exp),
	"log":  unary((*engine.Context).Log),
	"abs":  unary((*engine.Context).Abs),
}

func unary(f func(*engine.Context, interface{}) (engine.Number, error)) function {
	return function{min: 1, max: 1, call: func(c *engine.Context, args []interface{}) (engine.Number, error) {
		return f(c, args[0])
	}}
}

// mpz truncates x to an integer.
func mpz(_ *engine.Context, args []interface{}) (engine.Number, error) {
	i, err := engine.NewInteger(args[0])
	if err != nil {
		return nil, err
	}
	return i, nil
}

// mpq converts x to a rational, or makes x/y exactly.
func mpq(c *engine.Context, args []interface{}) (engine.Number, error) {
	x, err := engine.NewRational(args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return x, nil
	}
	y, err := engine.NewRational(args[1])
	if err != nil {
		return nil, err
	}
	return c.Div(x, y)
}

// mpfr converts x to a real of the context precision or of the precision given as the second argument.
func mpfr(c *engine.Context, args []interface{}) (engine.Number, error) {
	opts := []engine.ValueOption{engine.Using(c)}
	if len(args) == 2 {
		p, err := precision(args[1])
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.Precision(p))
	}
	r, err := engine.NewReal(args[0], opts...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// mpc converts x to a complex, or makes x + y·i.
func mpc(c *engine.Context, args []interface{}) (engine.Number, error) {
	var im interface{}
	if len(args) == 2 {
		im = args[1]
	}
	z, err := engine.NewComplex(args[0], im, engine.Using(c))
	if err != nil {
		return nil, err
	}
	return z, nil
}

func precision(v interface{}) (uint, error) {
	i, ok := v.(*engine.Integer)
	if !ok {
		return 0, engine.TypeError("mpfr", engine.KindInteger, v)
	}
	if !i.IsInt64() || i.Int64() < 1 || i.Int64() > engine.MaxPrecision {
		return 0, engine.ValueError("mpfr", "precision out of range", i)
	}
	return uint(i.Int64()), nil
}
