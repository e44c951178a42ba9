package engine

import (
	"math/big"
)

// RoundingMode determines how a Real or Complex result is rounded.
type RoundingMode uint8

// RoundingMode is one of these values.
const (
	// RoundDefault inherits the rounding mode of the enclosing setting.
	// It is only meaningful for the real and imaginary parts of complex results.
	RoundDefault RoundingMode = iota
	RoundNearest
	RoundZero
	RoundUp
	RoundDown
	RoundAway
)

var roundNames = [...]string{
	RoundDefault: "default",
	RoundNearest: "nearest",
	RoundZero:    "zero",
	RoundUp:      "up",
	RoundDown:    "down",
	RoundAway:    "away",
}

// ParseRoundingMode returns the rounding mode named s.
func ParseRoundingMode(s string) (RoundingMode, error) {
	for m, n := range roundNames {
		if n == s {
			return RoundingMode(m), nil
		}
	}
	return 0, ValueError("round", "unknown rounding mode", s)
}

func (m RoundingMode) String() string {
	if int(m) >= len(roundNames) {
		return "unknown"
	}
	return roundNames[m]
}

func (m RoundingMode) valid() bool {
	return m <= RoundAway
}

func (m RoundingMode) big() big.RoundingMode {
	switch m {
	case RoundZero:
		return big.ToZero
	case RoundUp:
		return big.ToPositiveInf
	case RoundDown:
		return big.ToNegativeInf
	case RoundAway:
		return big.AwayFromZero
	default:
		return big.ToNearestEven
	}
}

// towardZero reports whether rounding a value of the given sign under m moves it toward zero.
func (m RoundingMode) towardZero(neg bool) bool {
	switch m {
	case RoundZero:
		return true
	case RoundUp:
		return neg
	case RoundDown:
		return !neg
	default:
		return false
	}
}
