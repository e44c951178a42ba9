package engine

import (
	"fmt"
	"math"
	"strings"
)

// Limits of the context settings.
const (
	DefaultPrecision = 53
	MaxPrecision     = 1 << 30

	DefaultEmin = 1 - (1 << 30)
	DefaultEmax = (1 << 30) - 1

	EminMin = DefaultEmin
	EminMax = DefaultEmax
	EmaxMin = DefaultEmin
	EmaxMax = DefaultEmax
)

// Context holds the precision, rounding, exponent range, sticky flags and traps consulted by every Real and
// Complex operation.
// A Context is not safe for concurrent use. Use NewContext or DefaultContext to create one.
type Context struct {
	prec, realPrec, imagPrec    uint
	round, realRound, imagRound RoundingMode
	emin, emax                  int
	bounded                     bool

	subnormalize     bool
	allowComplex     bool
	rationalDivision bool

	flags Flags
	traps Flags

	readOnly bool
}

// Option configures a new Context.
type Option func(*Context) error

// WithPrecision sets the precision in bits of Real results and, unless overridden, both parts of Complex results.
func WithPrecision(bits uint) Option {
	return func(c *Context) error {
		return c.SetPrecision(bits)
	}
}

// WithRealPrecision sets the precision of the real part of Complex results. 0 inherits the precision.
func WithRealPrecision(bits uint) Option {
	return func(c *Context) error {
		return c.SetRealPrecision(bits)
	}
}

// WithImagPrecision sets the precision of the imaginary part of Complex results. 0 inherits the precision.
func WithImagPrecision(bits uint) Option {
	return func(c *Context) error {
		return c.SetImagPrecision(bits)
	}
}

// WithRound sets the rounding mode.
func WithRound(m RoundingMode) Option {
	return func(c *Context) error {
		return c.SetRound(m)
	}
}

// WithRealRound sets the rounding mode of the real part of Complex results.
func WithRealRound(m RoundingMode) Option {
	return func(c *Context) error {
		return c.SetRealRound(m)
	}
}

// WithImagRound sets the rounding mode of the imaginary part of Complex results.
func WithImagRound(m RoundingMode) Option {
	return func(c *Context) error {
		return c.SetImagRound(m)
	}
}

// WithEmin sets the minimum exponent.
func WithEmin(e int) Option {
	return func(c *Context) error {
		return c.SetEmin(e)
	}
}

// WithEmax sets the maximum exponent.
func WithEmax(e int) Option {
	return func(c *Context) error {
		return c.SetEmax(e)
	}
}

// WithSubnormalize enables gradual underflow.
func WithSubnormalize(on bool) Option {
	return func(c *Context) error {
		return c.SetSubnormalize(on)
	}
}

// WithAllowComplex lets Real operations without a real result return a Complex.
func WithAllowComplex(on bool) Option {
	return func(c *Context) error {
		return c.SetAllowComplex(on)
	}
}

// WithRationalDivision makes Integer/Integer true division return a Rational.
func WithRationalDivision(on bool) Option {
	return func(c *Context) error {
		return c.SetRationalDivision(on)
	}
}

// WithTraps enables the traps in f.
func WithTraps(f Flags) Option {
	return func(c *Context) error {
		return c.SetTraps(f)
	}
}

// NewContext creates a new context with the default settings modified by opts.
func NewContext(opts ...Option) (*Context, error) {
	c := DefaultContext()
	for _, o := range opts {
		if err := o(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// DefaultContext returns a new context with 53 bits of precision, round to nearest, the widest exponent range
// and every trap disabled.
func DefaultContext() *Context {
	return &Context{
		prec:    DefaultPrecision,
		round:   RoundNearest,
		emin:    DefaultEmin,
		emax:    DefaultEmax,
		bounded: true,
	}
}

// IEEEContext returns a new context that emulates the IEEE-754 binary interchange format of the given width:
// 16, 32, 64, 128 or a multiple of 32 greater than 128.
func IEEEContext(bits int) (*Context, error) {
	var prec, emax int
	switch {
	case bits == 16:
		prec, emax = 11, 16
	case bits == 32:
		prec, emax = 24, 128
	case bits == 64:
		prec, emax = 53, 1024
	case bits == 128:
		prec, emax = 113, 16384
	case bits > 128 && bits%32 == 0:
		// IEEE 754-2008 3.6
		prec = bits - int(math.Round(4*math.Log2(float64(bits)))) + 13
		emax = 1 << (bits - prec - 1)
		if emax > EmaxMax {
			return nil, ValueError("ieee", "unsupported width", bits)
		}
	default:
		return nil, ValueError("ieee", "unsupported width", bits)
	}
	return NewContext(
		WithPrecision(uint(prec)),
		WithEmax(emax),
		WithEmin(4-emax-prec),
		WithSubnormalize(true),
	)
}

// Copy returns a mutable copy of c including its sticky flags.
func (c *Context) Copy() *Context {
	d := *c
	d.readOnly = false
	return &d
}

// ReadOnly returns a read-only copy of c which can be shared as a template.
// Settings of a read-only context can't be modified and operations under it don't record sticky flags.
func (c *Context) ReadOnly() *Context {
	d := *c
	d.readOnly = true
	return &d
}

// IsReadOnly reports whether c is read-only.
func (c *Context) IsReadOnly() bool {
	return c.readOnly
}

func (c *Context) writable() error {
	if c.readOnly {
		return ErrReadOnly
	}
	return nil
}

// Precision returns the precision in bits of Real results.
func (c *Context) Precision() uint {
	if c.prec == 0 {
		return DefaultPrecision
	}
	return c.prec
}

// SetPrecision sets the precision in bits of Real results.
func (c *Context) SetPrecision(bits uint) error {
	if err := c.writable(); err != nil {
		return err
	}
	if bits < 1 || bits > MaxPrecision {
		return ValueError("precision", "out of range", bits)
	}
	c.prec = bits
	return nil
}

// RealPrecision returns the effective precision of the real part of Complex results.
func (c *Context) RealPrecision() uint {
	if c.realPrec == 0 {
		return c.Precision()
	}
	return c.realPrec
}

// SetRealPrecision sets the precision of the real part of Complex results. 0 inherits the precision.
func (c *Context) SetRealPrecision(bits uint) error {
	if err := c.writable(); err != nil {
		return err
	}
	if bits > MaxPrecision {
		return ValueError("real_precision", "out of range", bits)
	}
	c.realPrec = bits
	return nil
}

// ImagPrecision returns the effective precision of the imaginary part of Complex results.
func (c *Context) ImagPrecision() uint {
	if c.imagPrec == 0 {
		return c.Precision()
	}
	return c.imagPrec
}

// SetImagPrecision sets the precision of the imaginary part of Complex results. 0 inherits the precision.
func (c *Context) SetImagPrecision(bits uint) error {
	if err := c.writable(); err != nil {
		return err
	}
	if bits > MaxPrecision {
		return ValueError("imag_precision", "out of range", bits)
	}
	c.imagPrec = bits
	return nil
}

// Round returns the rounding mode of Real results.
func (c *Context) Round() RoundingMode {
	if c.round == RoundDefault {
		return RoundNearest
	}
	return c.round
}

// SetRound sets the rounding mode of Real results.
func (c *Context) SetRound(m RoundingMode) error {
	if err := c.writable(); err != nil {
		return err
	}
	if m == RoundDefault || !m.valid() {
		return ValueError("round", "invalid rounding mode", m)
	}
	c.round = m
	return nil
}

// RealRound returns the effective rounding mode of the real part of Complex results.
func (c *Context) RealRound() RoundingMode {
	if c.realRound == RoundDefault {
		return c.Round()
	}
	return c.realRound
}

// SetRealRound sets the rounding mode of the real part of Complex results. RoundDefault inherits the rounding mode.
func (c *Context) SetRealRound(m RoundingMode) error {
	if err := c.writable(); err != nil {
		return err
	}
	if !m.valid() {
		return ValueError("real_round", "invalid rounding mode", m)
	}
	c.realRound = m
	return nil
}

// ImagRound returns the effective rounding mode of the imaginary part of Complex results.
// It follows the real part's rounding mode unless set.
func (c *Context) ImagRound() RoundingMode {
	if c.imagRound == RoundDefault {
		return c.RealRound()
	}
	return c.imagRound
}

// SetImagRound sets the rounding mode of the imaginary part of Complex results. RoundDefault inherits.
func (c *Context) SetImagRound(m RoundingMode) error {
	if err := c.writable(); err != nil {
		return err
	}
	if !m.valid() {
		return ValueError("imag_round", "invalid rounding mode", m)
	}
	c.imagRound = m
	return nil
}

// Emin returns the minimum exponent.
func (c *Context) Emin() int {
	if !c.bounded {
		return DefaultEmin
	}
	return c.emin
}

// Emax returns the maximum exponent.
func (c *Context) Emax() int {
	if !c.bounded {
		return DefaultEmax
	}
	return c.emax
}

func (c *Context) bound() {
	if !c.bounded {
		c.emin, c.emax, c.bounded = DefaultEmin, DefaultEmax, true
	}
}

// SetEmin sets the minimum exponent. It must be within [EminMin, EminMax].
func (c *Context) SetEmin(e int) error {
	if err := c.writable(); err != nil {
		return err
	}
	if e < EminMin || e > EminMax {
		return ValueError("emin", "out of range", e)
	}
	c.bound()
	c.emin = e
	return nil
}

// SetEmax sets the maximum exponent. It must be within [EmaxMin, EmaxMax].
func (c *Context) SetEmax(e int) error {
	if err := c.writable(); err != nil {
		return err
	}
	if e < EmaxMin || e > EmaxMax {
		return ValueError("emax", "out of range", e)
	}
	c.bound()
	c.emax = e
	return nil
}

// Subnormalize reports whether gradual underflow is emulated.
func (c *Context) Subnormalize() bool {
	return c.subnormalize
}

// SetSubnormalize enables or disables gradual underflow.
func (c *Context) SetSubnormalize(on bool) error {
	if err := c.writable(); err != nil {
		return err
	}
	c.subnormalize = on
	return nil
}

// AllowComplex reports whether Real operations may return a Complex.
func (c *Context) AllowComplex() bool {
	return c.allowComplex
}

// SetAllowComplex sets whether Real operations may return a Complex.
func (c *Context) SetAllowComplex(on bool) error {
	if err := c.writable(); err != nil {
		return err
	}
	c.allowComplex = on
	return nil
}

// RationalDivision reports whether Integer/Integer true division returns a Rational.
func (c *Context) RationalDivision() bool {
	return c.rationalDivision
}

// SetRationalDivision sets whether Integer/Integer true division returns a Rational.
func (c *Context) SetRationalDivision(on bool) error {
	if err := c.writable(); err != nil {
		return err
	}
	c.rationalDivision = on
	return nil
}

// Flags returns the sticky flags.
func (c *Context) Flags() Flags {
	return c.flags
}

// ClearFlags resets every sticky flag.
func (c *Context) ClearFlags() error {
	if err := c.writable(); err != nil {
		return err
	}
	c.flags = 0
	return nil
}

// Traps returns the enabled traps.
func (c *Context) Traps() Flags {
	return c.traps
}

// SetTraps enables exactly the traps in f.
func (c *Context) SetTraps(f Flags) error {
	if err := c.writable(); err != nil {
		return err
	}
	if f&^flagsAll != 0 {
		return ValueError("traps", "unknown flags", f)
	}
	c.traps = f
	return nil
}

// SetTrap enables or disables the traps in f.
func (c *Context) SetTrap(f Flags, on bool) error {
	if on {
		return c.SetTraps(c.traps | f)
	}
	return c.SetTraps(c.traps &^ f)
}

// apply merges the flags raised by op into the sticky state and returns an exception for the highest priority
// flag whose trap is enabled. Every flag is merged before any exception is returned.
func (c *Context) apply(op string, f Flags) error {
	if !c.readOnly {
		c.flags |= f
	}
	if t := (f & c.traps).first(); t != 0 {
		return trapError(op, t, c.flags|f)
	}
	return nil
}

func (c *Context) String() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "context(precision=%d, real_prec=%s, imag_prec=%s,\n", c.Precision(), precString(c.realPrec), precString(c.imagPrec))
	_, _ = fmt.Fprintf(&b, "        round=%s, real_round=%s, imag_round=%s,\n", c.Round(), c.realRound, c.imagRound)
	_, _ = fmt.Fprintf(&b, "        emax=%d, emin=%d,\n", c.Emax(), c.Emin())
	_, _ = fmt.Fprintf(&b, "        subnormalize=%t, allow_complex=%t, rational_division=%t,\n", c.subnormalize, c.allowComplex, c.rationalDivision)
	for _, n := range flagNames {
		_, _ = fmt.Fprintf(&b, "        trap_%s=%t, %s=%t,\n", n.name, c.traps&n.flag != 0, n.name, c.flags&n.flag != 0)
	}
	_, _ = fmt.Fprintf(&b, "        read_only=%t)", c.readOnly)
	return b.String()
}

func precString(p uint) string {
	if p == 0 {
		return "default"
	}
	return fmt.Sprint(p)
}
