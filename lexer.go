package bignum

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const eof = -1

// Lexer turns a source text into tokens.
type Lexer struct {
	input  string
	state  lexState
	tokens []Token
	pos    int
	width  int
}

// NewLexer creates a lexer for input.
func NewLexer(input string) *Lexer {
	l := Lexer{input: input}
	l.state = l.program
	return &l
}

// Next returns the next token. It returns TokenEOS at the end of input and keeps doing so.
func (l *Lexer) Next() Token {
	for l.state != nil && len(l.tokens) == 0 {
		l.state = l.state(l.next())
	}

	if len(l.tokens) > 0 {
		var t Token
		t, l.tokens = l.tokens[0], l.tokens[1:]
		return t
	}

	return Token{}
}

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += l.width
	return r
}

func (l *Lexer) backup() {
	l.pos -= l.width
	l.width = 0
}

func (l *Lexer) emit(t Token) {
	l.tokens = append(l.tokens, t)
}

// Token is a lexical unit of the calculator language.
type Token struct {
	Kind TokenKind
	Val  string
}

func (t Token) String() string {
	if t.Kind == TokenEOS {
		return "<eos>"
	}
	return fmt.Sprintf("<%s %q>", t.Kind, t.Val)
}

// TokenKind is a kind of token.
type TokenKind byte

// TokenKind is one of these values.
const (
	TokenEOS TokenKind = iota
	TokenInteger
	TokenRational
	TokenReal
	TokenImaginary
	TokenIdent
	TokenOperator
	TokenSeparator
	TokenDirective
	TokenWord
	TokenInvalid
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOS:
		return "eos"
	case TokenInteger:
		return "integer"
	case TokenRational:
		return "rational"
	case TokenReal:
		return "real"
	case TokenImaginary:
		return "imaginary"
	case TokenIdent:
		return "ident"
	case TokenOperator:
		return "operator"
	case TokenSeparator:
		return "separator"
	case TokenDirective:
		return "directive"
	case TokenWord:
		return "word"
	case TokenInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

type lexState func(rune) lexState

// program emits a statement separator ";" for each ';' or newline.
func (l *Lexer) program(r rune) lexState {
	switch {
	case r == eof:
		return nil
	case r == ';', r == '\n':
		l.emit(Token{Kind: TokenSeparator, Val: ";"})
		return l.program
	case unicode.IsSpace(r):
		return l.program
	case r == '#':
		return l.comment(l.program)
	case r == '(', r == ')', r == ',':
		l.emit(Token{Kind: TokenSeparator, Val: string(r)})
		return l.program
	case r == ':':
		var b strings.Builder
		return l.directive(&b, l.program)
	case unicode.IsDigit(r):
		l.backup()
		var b strings.Builder
		return l.number(&b, l.program)
	case unicode.IsLetter(r), r == '_':
		l.backup()
		var b strings.Builder
		return l.ident(&b, TokenIdent, l.program)
	case strings.ContainsRune("+-*/%=!<>", r):
		l.backup()
		return l.operator(l.program)
	default:
		l.emit(Token{Kind: TokenInvalid, Val: string(r)})
		return nil
	}
}

func (l *Lexer) comment(ctx lexState) lexState {
	return func(r rune) lexState {
		switch r {
		case '\n', eof:
			l.backup()
			return ctx
		default:
			return l.comment(ctx)
		}
	}
}

func (l *Lexer) directive(b *strings.Builder, ctx lexState) lexState {
	return func(r rune) lexState {
		if !unicode.IsLetter(r) {
			l.emit(Token{Kind: TokenInvalid, Val: ":"})
			return nil
		}
		l.backup()
		return l.ident(b, TokenDirective, l.words(ctx))
	}
}

// words lexes the arguments of a directive, whitespace separated words up to the end of the statement.
func (l *Lexer) words(ctx lexState) lexState {
	return func(r rune) lexState {
		switch {
		case r == eof, r == ';', r == '\n', r == '#':
			l.backup()
			return ctx
		case unicode.IsSpace(r):
			return l.words(ctx)
		default:
			var b strings.Builder
			_, _ = b.WriteRune(r)
			return l.word(&b, ctx)
		}
	}
}

func (l *Lexer) word(b *strings.Builder, ctx lexState) lexState {
	return func(r rune) lexState {
		switch {
		case r == eof, r == ';', r == '#', unicode.IsSpace(r):
			l.backup()
			l.emit(Token{Kind: TokenWord, Val: b.String()})
			return l.words(ctx)
		default:
			_, _ = b.WriteRune(r)
			return l.word(b, ctx)
		}
	}
}

func (l *Lexer) ident(b *strings.Builder, k TokenKind, ctx lexState) lexState {
	return func(r rune) lexState {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			_, _ = b.WriteRune(r)
			return l.ident(b, k, ctx)
		default:
			l.backup()
			l.emit(Token{Kind: k, Val: b.String()})
			return ctx
		}
	}
}

var operators = []string{"**", "//", "==", "!=", "<=", ">=", "+", "-", "*", "/", "%", "<", ">", "="}

func (l *Lexer) operator(ctx lexState) lexState {
	return func(rune) lexState {
		l.backup()
		for _, op := range operators {
			if strings.HasPrefix(l.input[l.pos:], op) {
				l.pos += len(op)
				l.emit(Token{Kind: TokenOperator, Val: op})
				return ctx
			}
		}
		l.emit(Token{Kind: TokenInvalid, Val: l.input[l.pos : l.pos+1]})
		return nil
	}
}

// number lexes integer, rational, real and imaginary literals. Integers may have a 0x, 0o or 0b prefix.
func (l *Lexer) number(b *strings.Builder, ctx lexState) lexState {
	return func(r rune) lexState {
		_, _ = b.WriteRune(r)
		if r == '0' && l.pos < len(l.input) && strings.ContainsRune("xXoObB", rune(l.input[l.pos])) {
			_, _ = b.WriteRune(l.next())
			return l.prefixed(b, ctx)
		}
		return l.digits(b, TokenInteger, ctx)
	}
}

func (l *Lexer) prefixed(b *strings.Builder, ctx lexState) lexState {
	return func(r rune) lexState {
		switch {
		case unicode.IsDigit(r), 'a' <= r && r <= 'f', 'A' <= r && r <= 'F':
			_, _ = b.WriteRune(r)
			return l.prefixed(b, ctx)
		default:
			l.backup()
			l.emit(Token{Kind: TokenInteger, Val: b.String()})
			return ctx
		}
	}
}

func (l *Lexer) digits(b *strings.Builder, k TokenKind, ctx lexState) lexState {
	return func(r rune) lexState {
		switch {
		case unicode.IsDigit(r):
			_, _ = b.WriteRune(r)
			return l.digits(b, k, ctx)
		case r == '.' && k == TokenInteger:
			_, _ = b.WriteRune(r)
			return l.digits(b, TokenReal, ctx)
		case r == '/' && k == TokenInteger:
			return l.lookahead(b, "/", TokenRational, ctx)
		case (r == 'e' || r == 'E') && k != TokenRational && !strings.ContainsAny(b.String(), "eE"):
			return l.exponent(b, string(r), ctx)
		default:
			l.backup()
			return l.suffix(b, k, ctx)
		}
	}
}

// lookahead continues with the digits of kind k after s if a digit follows. Otherwise, s is left for the next
// token.
func (l *Lexer) lookahead(b *strings.Builder, s string, k TokenKind, ctx lexState) lexState {
	mark := l.pos - len(s)
	return func(r rune) lexState {
		if !unicode.IsDigit(r) {
			l.pos, l.width = mark, 0
			return l.suffix(b, TokenInteger, ctx)
		}
		b.WriteString(s)
		_, _ = b.WriteRune(r)
		return l.digits(b, k, ctx)
	}
}

func (l *Lexer) exponent(b *strings.Builder, e string, ctx lexState) lexState {
	mark := l.pos - len(e)
	k := TokenInteger
	if strings.ContainsRune(b.String(), '.') {
		k = TokenReal
	}
	return func(r rune) lexState {
		s := e
		if r == '+' || r == '-' {
			s += string(r)
			r = l.next()
		}
		if !unicode.IsDigit(r) {
			l.pos, l.width = mark, 0
			return l.suffix(b, k, ctx)
		}
		b.WriteString(s)
		_, _ = b.WriteRune(r)
		return l.digits(b, TokenReal, ctx)
	}
}

// suffix emits the number in b, as an imaginary literal if it's followed by a standalone i.
func (l *Lexer) suffix(b *strings.Builder, k TokenKind, ctx lexState) lexState {
	rest := l.input[l.pos:]
	if k != TokenRational && strings.HasPrefix(rest, "i") {
		r, _ := utf8.DecodeRuneInString(rest[1:])
		if len(rest) == 1 || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			l.pos++
			l.emit(Token{Kind: TokenImaginary, Val: b.String()})
			return ctx
		}
	}
	l.emit(Token{Kind: k, Val: b.String()})
	return ctx
}
