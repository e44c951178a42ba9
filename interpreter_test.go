package bignum

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"github.com/ichiban/bignum/engine"
)

func TestNew(t *testing.T) {
	s := engine.NewStack()
	i := New(s)
	assert.Equal(t, s, i.Stack)
	assert.Equal(t, s.Current(), i.Context())

	var j Interpreter
	assert.NotNil(t, j.Context())
	assert.NotNil(t, j.Stack)
}

func TestInterpreter_Exec(t *testing.T) {
	tests := []struct {
		title   string
		src     string
		results []string
	}{
		{title: "addition", src: "1 + 2", results: []string{"3"}},
		{title: "true division", src: "7 / 2", results: []string{"3.5"}},
		{title: "floor division", src: "7 // 2", results: []string{"3"}},
		{title: "modulo", src: "-7 % 2", results: []string{"1"}},
		{title: "big power", src: "2 ** 100", results: []string{"1267650600228229401496703205376"}},
		{title: "rationals", src: "1/3 + 1/6", results: []string{"1/2"}},
		{title: "reals", src: "0.1 + 0.2", results: []string{"0.30000000000000004"}},
		{title: "square root", src: "sqrt(2)", results: []string{"1.4142135623730951"}},
		{title: "variable", src: "x = 3; x * x", results: []string{"9"}},
		{title: "last result", src: "4; _ + 1", results: []string{"4", "5"}},
		{title: "comparisons", src: "1 < 2; 1/2 == 0.5; 2 != 2", results: []string{"true", "true", "false"}},
		{title: "complex", src: "1 + 2i", results: []string{"(1+2i)"}},
		{title: "allow complex", src: ":complex on\nsqrt(-4)", results: []string{"(0+2i)"}},
		{title: "no complex", src: "sqrt(-4)", results: []string{"nan"}},
		{title: "precision", src: ":prec 10; 1 / 3", results: []string{"0.3335"}},
		{title: "ieee", src: ":ieee 32; 0.1", results: []string{"0.1"}},
		{title: "push and pop", src: ":push; :prec 10; :pop; 1 / 3", results: []string{"0.3333333333333333"}},
		{title: "constants", src: "inf; -inf; nan", results: []string{"inf", "-inf", "nan"}},
		{title: "flags", src: ":clear; 1 / 3; :flags", results: []string{"0.3333333333333333", "inexact"}},
		{title: "no flags", src: "1 + 1; :flags", results: []string{"2", "none"}},
		{title: "mpz", src: "mpz(7.9); mpz(-7/2)", results: []string{"7", "-3"}},
		{title: "mpq", src: "mpq(0.5); mpq(2, 6)", results: []string{"1/2", "1/3"}},
		{title: "mpfr", src: "mpfr(1/3, 10); mpfr(3)", results: []string{"0.3335", "3"}},
		{title: "mpc", src: "mpc(1, 2); mpc(3i)", results: []string{"(1+2i)", "(0+3i)"}},
		{title: "abs", src: "abs(-3); abs(3 - 4i)", results: []string{"3", "5"}},
		{title: "exp and log", src: "exp(0); log(1)", results: []string{"1", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			var i Interpreter
			vs, err := i.Exec(tt.src)
			assert.NoError(t, err)
			var results []string
			for _, v := range vs {
				results = append(results, v.String())
			}
			assert.Equal(t, tt.results, results)
		})
	}
}

func TestInterpreter_Exec_error(t *testing.T) {
	tests := []struct {
		title string
		src   string
		err   error
	}{
		{title: "division by zero", src: "1 / 0", err: engine.DivisionByZero},
		{title: "trapped inexact", src: ":trap inexact on; 1 / 3", err: engine.Inexact},
		{title: "trapped erange", src: ":trap erange on; nan < 1", err: engine.RangeError},
		{title: "comparison is not a number", src: "(1 < 2) + 1", err: engine.TypeMismatch},
		{title: "invalid precision", src: "mpfr(1, 0)", err: engine.ValueInvalid},
		{title: "unknown flag", src: ":trap foo on", err: engine.ValueInvalid},
		{title: "unknown rounding mode", src: ":round sideways", err: engine.ValueInvalid},
		{title: "unsupported width", src: ":ieee 48", err: engine.ValueInvalid},
		{title: "empty stack", src: ":pop", err: engine.ErrEmptyStack},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			var i Interpreter
			_, err := i.Exec(tt.src)
			assert.True(t, errors.Is(err, tt.err), "%v", err)
		})
	}
}

func TestInterpreter_Exec_undefined(t *testing.T) {
	tests := []struct {
		title string
		src   string
		err   *UndefinedError
	}{
		{title: "variable", src: "y + 1", err: &UndefinedError{Kind: "variable", Name: "y"}},
		{title: "function", src: "foo(1)", err: &UndefinedError{Kind: "function", Name: "foo"}},
		{title: "directive", src: ":nope", err: &UndefinedError{Kind: "directive", Name: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			var i Interpreter
			_, err := i.Exec(tt.src)
			assert.Equal(t, tt.err, err)
		})
	}
}

func TestInterpreter_Exec_partial(t *testing.T) {
	var i Interpreter
	vs, err := i.Exec("1; 2; 1 / 0; 3")
	assert.Error(t, err)
	assert.Len(t, vs, 2)

	_, err = i.Exec("1 +")
	assert.Error(t, err)
	var ut *UnexpectedToken
	assert.True(t, errors.As(err, &ut))
}

func TestInterpreter_Exec_directiveError(t *testing.T) {
	tests := []struct {
		title string
		src   string
		msg   string
	}{
		{title: "missing argument", src: ":prec", msg: "expected 1 arguments"},
		{title: "extra argument", src: ":flags now", msg: "expected 0 arguments"},
		{title: "invalid precision", src: ":prec x", msg: "invalid precision"},
		{title: "invalid switch", src: ":complex yes", msg: "expected on or off"},
		{title: "invalid width", src: ":ieee x", msg: "invalid width"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			var i Interpreter
			_, err := i.Exec(tt.src)
			var de *DirectiveError
			assert.True(t, errors.As(err, &de))
			assert.Equal(t, tt.msg, de.Msg)
		})
	}
}

func TestInterpreter_Exec_arity(t *testing.T) {
	var i Interpreter
	_, err := i.Exec("sqrt(1, 2)")
	assert.Equal(t, &ArityError{Func: "sqrt", Min: 1, Max: 1, Actual: 2}, err)
}

func TestInterpreter_ExecContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var i Interpreter
	vs, err := i.ExecContext(ctx, "1 + 1")
	assert.Equal(t, context.Canceled, err)
	assert.Empty(t, vs)
}

func TestInterpreter_Eval(t *testing.T) {
	var i Interpreter
	i.SetVar("x", engine.NewInt(20))

	v, err := i.Eval("x + 1")
	assert.NoError(t, err)
	assert.Equal(t, "21", v.String())

	_, err = i.Eval("x = 1")
	assert.Error(t, err)
}

func TestInterpreter_OnEval(t *testing.T) {
	var stmts []string
	i := Interpreter{
		OnEval: func(s Stmt, v Value, err error) {
			stmts = append(stmts, s.String())
		},
	}
	_, err := i.Exec("x = 2; x ** 3; :flags")
	assert.NoError(t, err)
	assert.Equal(t, []string{"x = 2", "(x ** 3)", ":flags"}, stmts)
}

func TestInterpreter_Register(t *testing.T) {
	var i Interpreter
	i.Register1("double", func(c *engine.Context, x interface{}) (engine.Number, error) {
		return c.Mul(x, 2)
	})
	i.Register2("hypot", func(c *engine.Context, x, y interface{}) (engine.Number, error) {
		xx, err := c.Mul(x, x)
		if err != nil {
			return nil, err
		}
		yy, err := c.Mul(y, y)
		if err != nil {
			return nil, err
		}
		s, err := c.Add(xx, yy)
		if err != nil {
			return nil, err
		}
		return c.Sqrt(s)
	})
	i.Register1("sqrt", func(c *engine.Context, x interface{}) (engine.Number, error) {
		return nil, errors.New("overridden")
	})

	vs, err := i.Exec("double(21); hypot(3, 4)")
	assert.NoError(t, err)
	assert.Len(t, vs, 2)
	assert.Equal(t, "42", vs[0].String())
	assert.Equal(t, "5", vs[1].String())

	_, err = i.Exec("sqrt(4)")
	assert.EqualError(t, err, "overridden")
}

func TestInterpreter_context(t *testing.T) {
	var i Interpreter
	vs, err := i.Exec(":round down; :context")
	assert.NoError(t, err)
	assert.Len(t, vs, 1)
	assert.Contains(t, vs[0].String(), "round=")
	assert.Equal(t, engine.RoundDown, i.Context().Round())
}

func TestInterpreter_LoadFile(t *testing.T) {
	fsys := fstest.MapFS{
		"lib/init.bn": &fstest.MapFile{Data: []byte(":prec 10\nthird = 1 / 3\n")},
		"main.bn":     &fstest.MapFile{Data: []byte(":load lib/init.bn\nthird * 3\n")},
	}

	i := Interpreter{FS: fsys}
	vs, err := i.LoadFile(context.Background(), "main.bn")
	assert.NoError(t, err)
	assert.Len(t, vs, 1)
	assert.Equal(t, uint(10), i.Context().Precision())

	third, ok := i.Var("third")
	assert.True(t, ok)
	assert.Equal(t, "0.3335", third.String())

	_, err = i.LoadFile(context.Background(), "missing.bn")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var j Interpreter
	_, err = j.Exec(":load main.bn")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestOverlayFS_Open(t *testing.T) {
	o := OverlayFS{
		fstest.MapFS{"a": &fstest.MapFile{Data: []byte("1")}},
		fstest.MapFS{"a": &fstest.MapFile{Data: []byte("2")}, "b": &fstest.MapFile{Data: []byte("3")}},
	}

	b, err := fs.ReadFile(o, "a")
	assert.NoError(t, err)
	assert.Equal(t, "1", string(b))

	b, err = fs.ReadFile(o, "b")
	assert.NoError(t, err)
	assert.Equal(t, "3", string(b))

	_, err = o.Open("c")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
