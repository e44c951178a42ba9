package bignum

import (
	"fmt"
	"strings"
)

// Stmt is a statement of the calculator language: an Expr, an Assign or a Directive.
type Stmt interface {
	fmt.Stringer
}

// Expr is an expression which evaluates to a Value.
type Expr interface {
	Stmt
	eval(*Interpreter) (Value, error)
}

// Literal is a number as written in the source. It's converted to a number under the context current at the
// time of evaluation.
type Literal struct {
	Kind TokenKind
	Text string
}

func (l *Literal) String() string {
	if l.Kind == TokenImaginary {
		return l.Text + "i"
	}
	return l.Text
}

// Variable is a reference to a named value.
type Variable struct {
	Name string
}

func (v *Variable) String() string {
	return v.Name
}

// Unary is an application of a prefix operator.
type Unary struct {
	Op string
	X  Expr
}

func (u *Unary) String() string {
	return fmt.Sprintf("(%s%s)", u.Op, u.X)
}

// Binary is an application of an infix operator.
type Binary struct {
	Op   string
	X, Y Expr
}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.X, b.Op, b.Y)
}

// Call is a function call.
type Call struct {
	Func string
	Args []Expr
}

func (c *Call) String() string {
	var sb strings.Builder
	sb.WriteString(c.Func)
	sb.WriteString("(")
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Assign binds the value of X to Name.
type Assign struct {
	Name string
	X    Expr
}

func (a *Assign) String() string {
	return fmt.Sprintf("%s = %s", a.Name, a.X)
}

// Directive changes the state of the interpreter, e.g. :prec 100.
type Directive struct {
	Name string
	Args []string
}

func (d *Directive) String() string {
	if len(d.Args) == 0 {
		return ":" + d.Name
	}
	return ":" + d.Name + " " + strings.Join(d.Args, " ")
}

// Value is a result of a statement: a number, a truth value of a comparison, or a text from a directive.
type Value interface {
	fmt.Stringer
}

// Bool is a result of a comparison.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Text is a textual result of a directive.
type Text string

func (t Text) String() string {
	return string(t)
}
