package engine

import (
	"fmt"
	"hash/fnv"
	"math/big"
	"strings"
)

// Integer is an immutable arbitrary-precision integer.
type Integer struct {
	i big.Int
}

// NewInt returns an Integer of v.
func NewInt(v int64) *Integer {
	var z Integer
	z.i.SetInt64(v)
	return &z
}

// NewInteger returns v converted to an Integer. Rational and Real values are truncated toward zero.
// Converting NaN is ValueInvalid and converting ±Inf is Overflow.
func NewInteger(v interface{}) (*Integer, error) {
	if s, ok := v.(string); ok {
		return ParseInteger(s, 10)
	}
	i, err := truncInt("integer", v)
	if err != nil {
		return nil, err
	}
	var z Integer
	z.i.Set(i)
	return &z, nil
}

// ParseInteger parses s in the given base, 0 or 2..62. With base 0, the prefix of s selects the base.
func ParseInteger(s string, base int) (*Integer, error) {
	if base != 0 && (base < 2 || base > 62) {
		return nil, ValueError("integer", "base out of range", base)
	}
	var z Integer
	if _, ok := z.i.SetString(strings.TrimSpace(s), base); !ok {
		return nil, ValueError("integer", "invalid literal", s)
	}
	return &z, nil
}

func newInteger(i *big.Int) *Integer {
	var z Integer
	z.i.Set(i)
	return &z
}

// Kind returns KindInteger.
func (x *Integer) Kind() Kind {
	return KindInteger
}

func (x *Integer) number() {}

// Int returns a copy of x as a big.Int.
func (x *Integer) Int() *big.Int {
	return new(big.Int).Set(&x.i)
}

// IsInt64 reports whether x can be represented as an int64.
func (x *Integer) IsInt64() bool {
	return x.i.IsInt64()
}

// Int64 returns the int64 representation of x. The result is undefined if x doesn't fit.
func (x *Integer) Int64() int64 {
	return x.i.Int64()
}

// Sign returns -1, 0, or +1 depending on the sign of x.
func (x *Integer) Sign() int {
	return x.i.Sign()
}

// BitLen returns the length of the absolute value of x in bits.
func (x *Integer) BitLen() int {
	return x.i.BitLen()
}

// Text returns x in the given base, 2..62.
func (x *Integer) Text(base int) string {
	return x.i.Text(base)
}

func (x *Integer) String() string {
	return x.i.String()
}

// Format implements fmt.Formatter with the verbs of big.Int.
func (x *Integer) Format(s fmt.State, ch rune) {
	x.i.Format(s, ch)
}

// Hash returns a hash of x. Equal integers have equal hashes.
// It writes nothing to x, so it may be called from any number of goroutines.
func (x *Integer) Hash() uint64 {
	return hashInt(&x.i)
}

func hashInt(i *big.Int) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte{byte(i.Sign() + 1)})
	_, _ = h.Write(i.Bytes())
	return h.Sum64()
}

// XInteger is a mutable arbitrary-precision integer. Its kind is Integer.
// An XInteger must not be mutated concurrently.
type XInteger struct {
	i big.Int

	hash   uint64
	hashed bool
}

// NewXInteger returns v converted to an XInteger like NewInteger does.
func NewXInteger(v interface{}) (*XInteger, error) {
	i, err := NewInteger(v)
	if err != nil {
		return nil, err
	}
	var z XInteger
	z.i.Set(&i.i)
	return &z, nil
}

// Kind returns KindInteger.
func (x *XInteger) Kind() Kind {
	return KindInteger
}

func (x *XInteger) number() {}

func (x *XInteger) changed() {
	x.hashed = false
}

// Integer returns an immutable snapshot of x.
func (x *XInteger) Integer() *Integer {
	return newInteger(&x.i)
}

// Int returns a copy of x as a big.Int.
func (x *XInteger) Int() *big.Int {
	return new(big.Int).Set(&x.i)
}

// Sign returns -1, 0, or +1 depending on the sign of x.
func (x *XInteger) Sign() int {
	return x.i.Sign()
}

// Text returns x in the given base, 2..62.
func (x *XInteger) Text(base int) string {
	return x.i.Text(base)
}

func (x *XInteger) String() string {
	return x.i.String()
}

// Format implements fmt.Formatter with the verbs of big.Int.
func (x *XInteger) Format(s fmt.State, ch rune) {
	x.i.Format(s, ch)
}

// Hash returns a hash of the current value of x. Mutating x invalidates it.
func (x *XInteger) Hash() uint64 {
	if !x.hashed {
		x.hash, x.hashed = hashInt(&x.i), true
	}
	return x.hash
}

// Set sets x to v converted to an integer.
func (x *XInteger) Set(v interface{}) error {
	i, err := NewInteger(v)
	if err != nil {
		return err
	}
	x.i.Set(&i.i)
	x.changed()
	return nil
}

// Bit returns the value of the i'th bit of x in two's complement.
func (x *XInteger) Bit(i int) (uint, error) {
	if i < 0 {
		return 0, ValueError("bit", "negative bit index", i)
	}
	return x.i.Bit(i), nil
}

// SetBit sets the i'th bit of x to 1 if on, otherwise to 0.
func (x *XInteger) SetBit(i int, on bool) error {
	if i < 0 {
		return ValueError("bit_set", "negative bit index", i)
	}
	if err := checkAlloc("bit_set", float64(i)); err != nil {
		return err
	}
	var b uint
	if on {
		b = 1
	}
	x.i.SetBit(&x.i, i, b)
	x.changed()
	return nil
}

// FlipBit inverts the i'th bit of x.
func (x *XInteger) FlipBit(i int) error {
	if i < 0 {
		return ValueError("bit_flip", "negative bit index", i)
	}
	return x.SetBit(i, x.i.Bit(i) == 0)
}

// Add adds y of Integer kind to x in place.
func (x *XInteger) Add(y interface{}) error {
	i, err := xOperand("add", y)
	if err != nil {
		return err
	}
	x.i.Add(&x.i, i)
	x.changed()
	return nil
}

// Sub subtracts y of Integer kind from x in place.
func (x *XInteger) Sub(y interface{}) error {
	i, err := xOperand("sub", y)
	if err != nil {
		return err
	}
	x.i.Sub(&x.i, i)
	x.changed()
	return nil
}

// Mul multiplies x by y of Integer kind in place.
func (x *XInteger) Mul(y interface{}) error {
	i, err := xOperand("mul", y)
	if err != nil {
		return err
	}
	x.i.Mul(&x.i, i)
	x.changed()
	return nil
}

// Lsh shifts x left by n bits in place.
func (x *XInteger) Lsh(n uint) error {
	if err := checkAlloc("lsh", float64(x.i.BitLen())+float64(n)); err != nil {
		return err
	}
	x.i.Lsh(&x.i, n)
	x.changed()
	return nil
}

// Rsh shifts x right by n bits in place, rounding toward negative infinity.
func (x *XInteger) Rsh(n uint) {
	x.i.Rsh(&x.i, n)
	x.changed()
}

// Neg negates x in place.
func (x *XInteger) Neg() {
	x.i.Neg(&x.i)
	x.changed()
}

func xOperand(op string, y interface{}) (*big.Int, error) {
	if Classify(y) != KindInteger {
		return nil, TypeError(op, KindInteger, y)
	}
	return bigInt(op, y)
}
