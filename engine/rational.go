package engine

import (
	"fmt"
	"math/big"
	"strings"
)

// Rational is an immutable arbitrary-precision rational number in lowest terms with a positive denominator.
type Rational struct {
	r big.Rat
}

// NewRat returns a Rational of a/b.
func NewRat(a, b int64) (*Rational, error) {
	if b == 0 {
		return nil, ZeroDivisionError("rational")
	}
	var z Rational
	z.r.SetFrac64(a, b)
	return &z, nil
}

// NewRational returns v converted to a Rational. Real values are converted exactly.
// Converting NaN is ValueInvalid and converting ±Inf is Overflow.
func NewRational(v interface{}) (*Rational, error) {
	if s, ok := v.(string); ok {
		return ParseRational(s, 10)
	}
	r, err := exactRat("rational", v)
	if err != nil {
		return nil, err
	}
	return newRational(r), nil
}

// ParseRational parses s of the form "a", "a/b" or a decimal number in base 10.
// Other bases, 0 or 2..62, are only supported for "a" and "a/b".
func ParseRational(s string, base int) (*Rational, error) {
	s = strings.TrimSpace(s)
	if base == 10 {
		var z Rational
		if _, ok := z.r.SetString(s); !ok {
			return nil, ValueError("rational", "invalid literal", s)
		}
		return &z, nil
	}

	n, d := s, "1"
	if i := strings.IndexByte(s, '/'); i >= 0 {
		n, d = s[:i], s[i+1:]
	}
	num, err := ParseInteger(n, base)
	if err != nil {
		return nil, err
	}
	den, err := ParseInteger(d, base)
	if err != nil {
		return nil, err
	}
	if den.Sign() == 0 {
		return nil, ZeroDivisionError("rational")
	}
	var z Rational
	z.r.SetFrac(&num.i, &den.i)
	return &z, nil
}

func newRational(r *big.Rat) *Rational {
	var z Rational
	z.r.Set(r)
	return &z
}

// Kind returns KindRational, even if the denominator is 1.
func (x *Rational) Kind() Kind {
	return KindRational
}

func (x *Rational) number() {}

// Rat returns a copy of x as a big.Rat.
func (x *Rational) Rat() *big.Rat {
	return new(big.Rat).Set(&x.r)
}

// Num returns the numerator of x.
func (x *Rational) Num() *Integer {
	return newInteger(x.r.Num())
}

// Denom returns the denominator of x. It's always positive.
func (x *Rational) Denom() *Integer {
	return newInteger(x.r.Denom())
}

// Sign returns -1, 0, or +1 depending on the sign of x.
func (x *Rational) Sign() int {
	return x.r.Sign()
}

func (x *Rational) String() string {
	return x.r.RatString()
}

// Format implements fmt.Formatter. %v and %s print a/b, the other verbs apply to the numerator and
// denominator as big.Int does.
func (x *Rational) Format(s fmt.State, ch rune) {
	switch ch {
	case 'v', 's':
		_, _ = fmt.Fprint(s, x.r.RatString())
	default:
		x.r.Num().Format(s, ch)
		if !x.r.IsInt() {
			_, _ = fmt.Fprint(s, "/")
			x.r.Denom().Format(s, ch)
		}
	}
}
