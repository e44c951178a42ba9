package engine

import (
	"fmt"
	"strings"
)

// Flags is a set of IEEE-754 style exception flags.
// Bits are ordered by trap priority: when several trapped flags are raised at once, the lowest bit wins.
type Flags uint8

// Flags is a combination of these values.
const (
	FlagUnderflow Flags = 1 << iota
	FlagOverflow
	FlagInexact
	FlagInvalid
	FlagDivZero
	FlagERange

	flagsAll = FlagUnderflow | FlagOverflow | FlagInexact | FlagInvalid | FlagDivZero | FlagERange
)

var flagNames = [...]struct {
	flag Flags
	name string
}{
	{flag: FlagUnderflow, name: "underflow"},
	{flag: FlagOverflow, name: "overflow"},
	{flag: FlagInexact, name: "inexact"},
	{flag: FlagInvalid, name: "invalid"},
	{flag: FlagDivZero, name: "divzero"},
	{flag: FlagERange, name: "erange"},
}

// ParseFlag returns the flag named s.
func ParseFlag(s string) (Flags, error) {
	for _, n := range flagNames {
		if n.name == s {
			return n.flag, nil
		}
	}
	return 0, ValueError("flag", "unknown flag", s)
}

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var b strings.Builder
	for _, n := range flagNames {
		if f&n.flag == 0 {
			continue
		}
		f &^= n.flag
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n.name)
	}
	if f != 0 {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "unknown(%d)", uint8(f))
	}
	return b.String()
}

// Has reports whether all of g are set in f.
func (f Flags) Has(g Flags) bool {
	return f&g == g
}

// first returns the highest priority flag in f, or 0.
func (f Flags) first() Flags {
	return f & -f
}

func (f Flags) kind() ExceptionKind {
	switch f {
	case FlagUnderflow:
		return RealUnderflow
	case FlagOverflow:
		return RealOverflow
	case FlagInexact:
		return Inexact
	case FlagInvalid:
		return InvalidOperation
	case FlagDivZero:
		return DivisionByZero
	default:
		return RangeError
	}
}
