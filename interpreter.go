package bignum

import (
	"context"
	"io/fs"
	"strconv"
	"strings"

	"github.com/ichiban/bignum/engine"
)

// Interpreter evaluates statements of the calculator language.
// The zero value is a valid interpreter with its own context stack and the builtin functions.
type Interpreter struct {
	// Stack holds the current context. Directives :push and :pop operate on it.
	Stack *engine.Stack

	// OnEval is called after each statement with its result, if set.
	OnEval func(s Stmt, v Value, err error)

	// FS is the file system for :load and LoadFile. If nil, loading fails.
	FS fs.FS

	vars  map[string]Value
	funcs map[string]function
}

// New creates an interpreter on s. If s is nil, the interpreter gets its own stack.
func New(s *engine.Stack) *Interpreter {
	return &Interpreter{Stack: s}
}

// Context returns the current context.
func (i *Interpreter) Context() *engine.Context {
	if i.Stack == nil {
		i.Stack = engine.NewStack()
	}
	return i.Stack.Current()
}

// Var returns the value bound to name. The result of the last expression is bound to _.
func (i *Interpreter) Var(name string) (Value, bool) {
	v, ok := i.vars[name]
	return v, ok
}

// SetVar binds v to name.
func (i *Interpreter) SetVar(name string, v Value) {
	if i.vars == nil {
		i.vars = map[string]Value{}
	}
	i.vars[name] = v
}

// Register1 registers a function of 1 argument.
func (i *Interpreter) Register1(name string, f func(c *engine.Context, x interface{}) (engine.Number, error)) {
	i.register(name, function{min: 1, max: 1, call: func(c *engine.Context, args []interface{}) (engine.Number, error) {
		return f(c, args[0])
	}})
}

// Register2 registers a function of 2 arguments.
func (i *Interpreter) Register2(name string, f func(c *engine.Context, x, y interface{}) (engine.Number, error)) {
	i.register(name, function{min: 2, max: 2, call: func(c *engine.Context, args []interface{}) (engine.Number, error) {
		return f(c, args[0], args[1])
	}})
}

func (i *Interpreter) register(name string, f function) {
	if i.funcs == nil {
		i.funcs = map[string]function{}
	}
	i.funcs[name] = f
}

// Exec executes src and returns the results of its expressions and directives.
func (i *Interpreter) Exec(src string) ([]Value, error) {
	return i.ExecContext(context.Background(), src)
}

// ExecContext executes src with context. It stops at the first error, returning the results so far.
func (i *Interpreter) ExecContext(ctx context.Context, src string) ([]Value, error) {
	stmts, err := NewParser(src, nil).Program()
	if err != nil {
		return nil, err
	}

	var ret []Value
	for _, s := range stmts {
		if err := ctx.Err(); err != nil {
			return ret, err
		}
		v, err := i.exec(s)
		if i.OnEval != nil {
			i.OnEval(s, v, err)
		}
		if err != nil {
			return ret, err
		}
		if v != nil {
			ret = append(ret, v)
		}
	}
	return ret, nil
}

// LoadFile executes the source file name in FS.
func (i *Interpreter) LoadFile(ctx context.Context, name string) ([]Value, error) {
	if i.FS == nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	b, err := fs.ReadFile(i.FS, name)
	if err != nil {
		return nil, err
	}
	return i.ExecContext(ctx, string(b))
}

// Eval evaluates a single expression.
func (i *Interpreter) Eval(src string) (Value, error) {
	p := NewParser(src, nil)
	x, err := p.Expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.accept(TokenEOS); err != nil {
		return nil, err
	}
	return x.eval(i)
}

func (i *Interpreter) exec(s Stmt) (Value, error) {
	switch s := s.(type) {
	case *Directive:
		return i.directive(s)
	case *Assign:
		v, err := s.X.eval(i)
		if err != nil {
			return nil, err
		}
		i.SetVar(s.Name, v)
		return nil, nil
	case Expr:
		v, err := s.eval(i)
		if err != nil {
			return nil, err
		}
		i.SetVar("_", v)
		return v, nil
	default:
		return nil, &UndefinedError{Kind: "statement", Name: s.String()}
	}
}

func (l *Literal) eval(i *Interpreter) (Value, error) {
	c := i.Context()
	switch l.Kind {
	case TokenInteger:
		x, err := engine.ParseInteger(l.Text, 0)
		if err != nil {
			return nil, err
		}
		return x, nil
	case TokenRational:
		x, err := engine.ParseRational(l.Text, 10)
		if err != nil {
			return nil, err
		}
		return x, nil
	case TokenReal:
		x, err := engine.ParseReal(l.Text, engine.Using(c))
		if err != nil {
			return nil, err
		}
		return x, nil
	case TokenImaginary:
		im, err := (&Literal{Kind: realOrInteger(l.Text), Text: l.Text}).eval(i)
		if err != nil {
			return nil, err
		}
		z, err := engine.NewComplex(0, im, engine.Using(c))
		if err != nil {
			return nil, err
		}
		return z, nil
	default:
		return nil, &UndefinedError{Kind: "literal", Name: l.Text}
	}
}

func realOrInteger(s string) TokenKind {
	if strings.ContainsAny(s, ".eE") && !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return TokenReal
	}
	return TokenInteger
}

func (v *Variable) eval(i *Interpreter) (Value, error) {
	if x, ok := i.Var(v.Name); ok {
		return x, nil
	}
	switch v.Name {
	case "inf", "nan":
		x, err := engine.ParseReal(v.Name, engine.Using(i.Context()))
		if err != nil {
			return nil, err
		}
		return x, nil
	default:
		return nil, &UndefinedError{Kind: "variable", Name: v.Name}
	}
}

func (u *Unary) eval(i *Interpreter) (Value, error) {
	x, err := u.X.eval(i)
	if err != nil {
		return nil, err
	}
	c := i.Context()
	switch u.Op {
	case "-":
		return c.Neg(x)
	case "+":
		return c.Pos(x)
	default:
		return nil, &UndefinedError{Kind: "operator", Name: u.Op}
	}
}

var arithmetic = map[string]func(*engine.Context, interface{}, interface{}) (engine.Number, error){
	"+":  (*engine.Context).Add,
	"-":  (*engine.Context).Sub,
	"*":  (*engine.Context).Mul,
	"/":  (*engine.Context).Div,
	"//": (*engine.Context).FloorDiv,
	"%":  (*engine.Context).Mod,
	"**": (*engine.Context).Pow,
}

var comparison = map[string]engine.CompareOp{
	"==": engine.OpEq,
	"!=": engine.OpNe,
	"<":  engine.OpLt,
	"<=": engine.OpLe,
	">":  engine.OpGt,
	">=": engine.OpGe,
}

func (b *Binary) eval(i *Interpreter) (Value, error) {
	x, err := b.X.eval(i)
	if err != nil {
		return nil, err
	}
	y, err := b.Y.eval(i)
	if err != nil {
		return nil, err
	}
	c := i.Context()
	if f, ok := arithmetic[b.Op]; ok {
		return f(c, x, y)
	}
	if op, ok := comparison[b.Op]; ok {
		ok, err := c.Compare(op, x, y)
		if err != nil {
			return nil, err
		}
		return Bool(ok), nil
	}
	return nil, &UndefinedError{Kind: "operator", Name: b.Op}
}

func (f *Call) eval(i *Interpreter) (Value, error) {
	fn, ok := i.funcs[f.Func]
	if !ok {
		fn, ok = builtins[f.Func]
	}
	if !ok {
		return nil, &UndefinedError{Kind: "function", Name: f.Func}
	}
	if len(f.Args) < fn.min || len(f.Args) > fn.max {
		return nil, &ArityError{Func: f.Func, Min: fn.min, Max: fn.max, Actual: len(f.Args)}
	}

	args := make([]interface{}, len(f.Args))
	for n, a := range f.Args {
		v, err := a.eval(i)
		if err != nil {
			return nil, err
		}
		args[n] = v
	}
	return fn.call(i.Context(), args)
}

func (i *Interpreter) directive(d *Directive) (Value, error) {
	c := i.Context()
	arg := func(n int) (string, error) {
		if len(d.Args) != n {
			return "", &DirectiveError{Directive: d, Msg: "expected " + strconv.Itoa(n) + " arguments"}
		}
		if n == 0 {
			return "", nil
		}
		return d.Args[0], nil
	}
	onOff := func(s string) (bool, error) {
		switch s {
		case "on":
			return true, nil
		case "off":
			return false, nil
		default:
			return false, &DirectiveError{Directive: d, Msg: "expected on or off"}
		}
	}

	switch d.Name {
	case "prec":
		s, err := arg(1)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseUint(s, 10, 0)
		if err != nil {
			return nil, &DirectiveError{Directive: d, Msg: "invalid precision"}
		}
		return nil, c.SetPrecision(uint(n))
	case "round":
		s, err := arg(1)
		if err != nil {
			return nil, err
		}
		m, err := engine.ParseRoundingMode(s)
		if err != nil {
			return nil, err
		}
		return nil, c.SetRound(m)
	case "trap":
		if _, err := arg(2); err != nil {
			return nil, err
		}
		f, err := engine.ParseFlag(d.Args[0])
		if err != nil {
			return nil, err
		}
		on, err := onOff(d.Args[1])
		if err != nil {
			return nil, err
		}
		return nil, c.SetTrap(f, on)
	case "complex":
		s, err := arg(1)
		if err != nil {
			return nil, err
		}
		on, err := onOff(s)
		if err != nil {
			return nil, err
		}
		return nil, c.SetAllowComplex(on)
	case "ieee":
		s, err := arg(1)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, &DirectiveError{Directive: d, Msg: "invalid width"}
		}
		ieee, err := engine.IEEEContext(n)
		if err != nil {
			return nil, err
		}
		i.Stack.Set(ieee)
		return nil, nil
	case "flags":
		if _, err := arg(0); err != nil {
			return nil, err
		}
		return Text(c.Flags().String()), nil
	case "clear":
		if _, err := arg(0); err != nil {
			return nil, err
		}
		return nil, c.ClearFlags()
	case "context":
		if _, err := arg(0); err != nil {
			return nil, err
		}
		return Text(c.String()), nil
	case "push":
		if _, err := arg(0); err != nil {
			return nil, err
		}
		i.Stack.Push(c.Copy())
		return nil, nil
	case "pop":
		if _, err := arg(0); err != nil {
			return nil, err
		}
		_, err := i.Stack.Pop()
		return nil, err
	case "load":
		name, err := arg(1)
		if err != nil {
			return nil, err
		}
		vs, err := i.LoadFile(context.Background(), name)
		if err != nil {
			return nil, err
		}
		if len(vs) == 0 {
			return nil, nil
		}
		return vs[len(vs)-1], nil
	default:
		return nil, &UndefinedError{Kind: "directive", Name: d.Name}
	}
}
