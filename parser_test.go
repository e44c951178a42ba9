package bignum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParser_Program(t *testing.T) {
	tests := []struct {
		title string
		input string
		stmts []string
		err   bool
	}{
		{title: "empty", input: ""},
		{title: "blank lines", input: "\n;\n"},
		{title: "precedence", input: "1 + 2 * 3", stmts: []string{"(1 + (2 * 3))"}},
		{title: "left associative", input: "1 - 2 - 3", stmts: []string{"((1 - 2) - 3)"}},
		{title: "right associative", input: "2 ** 3 ** 2", stmts: []string{"(2 ** (3 ** 2))"}},
		{title: "power binds tighter than negation", input: "-2 ** 2", stmts: []string{"(-(2 ** 2))"}},
		{title: "negation then addition", input: "-2 + 3", stmts: []string{"((-2) + 3)"}},
		{title: "negative operand", input: "2 * -3", stmts: []string{"(2 * (-3))"}},
		{title: "parentheses", input: "(1 + 2) * 3", stmts: []string{"((1 + 2) * 3)"}},
		{title: "comparison", input: "1 + 2 <= 3", stmts: []string{"((1 + 2) <= 3)"}},
		{title: "literals", input: "2/3 + 4i - 0.5", stmts: []string{"((2/3 + 4i) - 0.5)"}},
		{title: "call", input: "mpfr(x, 100)", stmts: []string{"mpfr(x, 100)"}},
		{title: "call without arguments", input: "f()", stmts: []string{"f()"}},
		{title: "assignment", input: "x = 1 + 2", stmts: []string{"x = (1 + 2)"}},
		{title: "directive", input: ":trap inexact on", stmts: []string{":trap inexact on"}},
		{title: "statements", input: "x = 1; x + 1\n:flags\n", stmts: []string{"x = 1", "(x + 1)", ":flags"}},
		{title: "non-associative comparison", input: "1 < 2 < 3", err: true},
		{title: "missing operand", input: "1 +", err: true},
		{title: "unclosed parenthesis", input: "(1 + 2", err: true},
		{title: "two expressions", input: "1 2", err: true},
		{title: "invalid token", input: "1 $ 2", err: true},
		{title: "directive with path", input: ":load a/b.bn", stmts: []string{":load a/b.bn"}},
		{title: "bad argument list", input: "f(1 2)", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			stmts, err := NewParser(tt.input, nil).Program()
			if tt.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, stmts, len(tt.stmts))
			for i, s := range stmts {
				assert.Equal(t, tt.stmts[i], s.String())
			}
		})
	}
}

func TestParser_Expr(t *testing.T) {
	p := NewParser("x ** 2 + 1", nil)
	x, err := p.Expr()
	assert.NoError(t, err)
	assert.Equal(t, &Binary{
		Op: "+",
		X: &Binary{
			Op: "**",
			X:  &Variable{Name: "x"},
			Y:  &Literal{Kind: TokenInteger, Text: "2"},
		},
		Y: &Literal{Kind: TokenInteger, Text: "1"},
	}, x)
}

func TestParser_operators(t *testing.T) {
	ops := Operators{
		{Precedence: 500, Type: XFY, Name: "-"},
		{Precedence: 400, Type: YFX, Name: "*"},
	}
	stmts, err := NewParser("1 - 2 - 3 * 4", ops).Program()
	assert.NoError(t, err)
	assert.Len(t, stmts, 1)
	assert.Equal(t, "(1 - (2 - (3 * 4)))", stmts[0].String())
}

func TestUnexpectedToken_Error(t *testing.T) {
	_, err := NewParser("1 2", nil).Program()
	assert.EqualError(t, err, `expected: <separator [;]>, actual: <integer "2">`)

	_, err = NewParser(")", nil).Program()
	assert.EqualError(t, err, `unexpected token: <separator ")">`)
}

func TestOperators_AtMost(t *testing.T) {
	ops := DefaultOperators.AtMost(400)
	for _, op := range ops {
		assert.LessOrEqual(t, op.Precedence, 400)
	}
	assert.Len(t, ops, 7)
	assert.Nil(t, DefaultOperators.AtMost(100))
}
