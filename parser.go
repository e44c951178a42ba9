package bignum

import (
	"errors"
	"fmt"
)

var errNotUnary = errors.New("not unary")

// Parser turns tokens into statements.
type Parser struct {
	lexer     *Lexer
	current   Token
	operators Operators
}

// NewParser creates a parser for input with the given operators. If operators is nil, DefaultOperators is used.
func NewParser(input string, operators Operators) *Parser {
	if operators == nil {
		operators = DefaultOperators
	}
	p := Parser{
		lexer:     NewLexer(input),
		operators: operators,
	}
	p.current = p.lexer.Next()
	return &p
}

func (p *Parser) accept(k TokenKind, vals ...string) (string, error) {
	v, err := p.expect(k, vals...)
	if err != nil {
		return "", err
	}
	p.current = p.lexer.Next()
	return v, nil
}

func (p *Parser) expect(k TokenKind, vals ...string) (string, error) {
	if p.current.Kind != k {
		return "", &UnexpectedToken{
			ExpectedKind: k,
			ExpectedVals: vals,
			Actual:       p.current,
		}
	}

	if len(vals) > 0 {
		for _, v := range vals {
			if v == p.current.Val {
				return v, nil
			}
		}
		return "", &UnexpectedToken{
			ExpectedKind: k,
			ExpectedVals: vals,
			Actual:       p.current,
		}
	}

	return p.current.Val, nil
}

// Program parses statements separated by newlines or semicolons until the end of input.
func (p *Parser) Program() ([]Stmt, error) {
	var ret []Stmt
	for {
		if _, err := p.accept(TokenSeparator, ";"); err == nil {
			continue
		}
		if _, err := p.accept(TokenEOS); err == nil {
			return ret, nil
		}

		s, err := p.Statement()
		if err != nil {
			return nil, err
		}
		ret = append(ret, s)

		if p.current.Kind == TokenEOS {
			continue
		}
		if _, err := p.accept(TokenSeparator, ";"); err != nil {
			return nil, err
		}
	}
}

// Statement parses a directive, an assignment or an expression.
func (p *Parser) Statement() (Stmt, error) {
	if name, err := p.accept(TokenDirective); err == nil {
		d := Directive{Name: name}
		for p.current.Kind == TokenWord {
			d.Args = append(d.Args, p.current.Val)
			p.current = p.lexer.Next()
		}
		return &d, nil
	}

	x, err := p.Expr()
	if err != nil {
		return nil, err
	}

	if v, ok := x.(*Variable); ok {
		if _, err := p.accept(TokenOperator, "="); err == nil {
			y, err := p.Expr()
			if err != nil {
				return nil, err
			}
			return &Assign{Name: v.Name, X: y}, nil
		}
	}

	return x, nil
}

// Expr parses an expression.
func (p *Parser) Expr() (Expr, error) {
	return p.expr(1200)
}

// based on Pratt parser explained in this article: https://matklad.github.io/2020/04/13/simple-but-powerful-pratt-parsing.html
func (p *Parser) expr(max int) (Expr, error) {
	lhs, prec, err := p.prefixUnary(max)
	if err == errNotUnary {
		lhs, err = p.expr0()
	}
	if err != nil {
		return nil, err
	}

loop:
	for {
		for _, op := range p.operators.AtMost(max) {
			l, r := op.leftRight()
			if l < 0 || l < prec {
				continue
			}

			if _, err := p.accept(TokenOperator, op.Name); err != nil {
				continue
			}

			rhs, err := p.expr(r)
			if err != nil {
				return nil, err
			}

			lhs = &Binary{Op: op.Name, X: lhs, Y: rhs}
			prec = op.Precedence
			continue loop
		}
		break
	}

	return lhs, nil
}

func (p *Parser) prefixUnary(max int) (Expr, int, error) {
	for _, op := range p.operators.AtMost(max) {
		l, r := op.leftRight()
		if l >= 0 {
			continue
		}

		if _, err := p.accept(TokenOperator, op.Name); err != nil {
			continue
		}

		x, err := p.expr(r)
		if err != nil {
			return nil, 0, err
		}

		return &Unary{Op: op.Name, X: x}, op.Precedence, nil
	}

	return nil, 0, errNotUnary
}

func (p *Parser) expr0() (Expr, error) {
	if _, err := p.accept(TokenSeparator, "("); err == nil {
		x, err := p.expr(1200)
		if err != nil {
			return nil, err
		}
		if _, err := p.accept(TokenSeparator, ")"); err != nil {
			return nil, err
		}
		return x, nil
	}

	switch k := p.current.Kind; k {
	case TokenInteger, TokenRational, TokenReal, TokenImaginary:
		v := p.current.Val
		p.current = p.lexer.Next()
		return &Literal{Kind: k, Text: v}, nil
	case TokenIdent:
	default:
		return nil, p.unexpected()
	}

	name, _ := p.accept(TokenIdent)
	if _, err := p.accept(TokenSeparator, "("); err != nil {
		return &Variable{Name: name}, nil
	}

	c := Call{Func: name}
	if _, err := p.accept(TokenSeparator, ")"); err == nil {
		return &c, nil
	}
	for {
		x, err := p.expr(1200)
		if err != nil {
			return nil, err
		}
		c.Args = append(c.Args, x)

		sep, err := p.accept(TokenSeparator, ",", ")")
		if err != nil {
			return nil, err
		}
		if sep == ")" {
			break
		}
	}

	return &c, nil
}

func (p *Parser) unexpected() error {
	return &UnexpectedToken{Actual: p.current}
}

// UnexpectedToken is a syntax error.
type UnexpectedToken struct {
	ExpectedKind TokenKind
	ExpectedVals []string
	Actual       Token
}

func (e *UnexpectedToken) Error() string {
	if e.ExpectedKind == TokenEOS && len(e.ExpectedVals) == 0 {
		return fmt.Sprintf("unexpected token: %s", e.Actual)
	}
	return fmt.Sprintf("expected: <%s %s>, actual: %s", e.ExpectedKind, e.ExpectedVals, e.Actual)
}
