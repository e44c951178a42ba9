package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNotImplemented is returned by the operator protocol when neither operand can be classified.
	// Named functions turn it into a TypeMismatch exception.
	ErrNotImplemented = errors.New("not implemented")

	// ErrReadOnly is returned when a read-only context is modified.
	ErrReadOnly = errors.New("context is read-only")

	// ErrUnordered is returned by Cmp when either operand is NaN and the erange trap is disabled.
	ErrUnordered = errors.New("unordered")
)

// ExceptionKind is a kind of exception in the numeric tower.
type ExceptionKind uint8

// ExceptionKind is one of these values.
const (
	TypeMismatch ExceptionKind = iota
	ValueInvalid
	Overflow
	DivisionByZero
	Inexact
	RealOverflow
	RealUnderflow
	InvalidOperation
	RangeError
)

func (k ExceptionKind) Error() string {
	return k.String()
}

func (k ExceptionKind) String() string {
	return [...]string{
		TypeMismatch:     "type_mismatch",
		ValueInvalid:     "value_invalid",
		Overflow:         "overflow",
		DivisionByZero:   "division_by_zero",
		Inexact:          "inexact",
		RealOverflow:     "real_overflow",
		RealUnderflow:    "real_underflow",
		InvalidOperation: "invalid_operation",
		RangeError:       "range_error",
	}[k]
}

// Trappable reports whether the kind is raised only when the matching trap is enabled.
func (k ExceptionKind) Trappable() bool {
	switch k {
	case Inexact, RealOverflow, RealUnderflow, InvalidOperation, RangeError:
		return true
	default:
		return false
	}
}

// Exception is an error raised by an operation of the numeric tower.
type Exception struct {
	Kind    ExceptionKind
	Op      string
	Culprit interface{}
	Msg     string

	// Flags is the sticky state of the context at the time a trap fired.
	Flags Flags
}

func (e *Exception) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	switch {
	case e.Op != "" && e.Culprit != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Culprit)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, msg)
	case e.Culprit != nil:
		return fmt.Sprintf("%s: %v", msg, e.Culprit)
	default:
		return msg
	}
}

// Unwrap returns the kind so that errors.Is(err, engine.Overflow) holds.
func (e *Exception) Unwrap() error {
	return e.Kind
}

// TypeError creates a new type mismatch exception. want is the kind the operation required.
func TypeError(op string, want Kind, culprit interface{}) *Exception {
	return &Exception{
		Kind:    TypeMismatch,
		Op:      op,
		Culprit: culprit,
		Msg:     fmt.Sprintf("expected %s, got %T", want, culprit),
	}
}

// ValueError creates a new invalid value exception.
func ValueError(op, msg string, culprit interface{}) *Exception {
	return &Exception{Kind: ValueInvalid, Op: op, Msg: msg, Culprit: culprit}
}

// OverflowError creates a new overflow exception.
func OverflowError(op, msg string, culprit interface{}) *Exception {
	return &Exception{Kind: Overflow, Op: op, Msg: msg, Culprit: culprit}
}

// ZeroDivisionError creates a new division by zero exception for exact kinds.
func ZeroDivisionError(op string) *Exception {
	return &Exception{Kind: DivisionByZero, Op: op, Msg: "division by zero"}
}

// unsupported creates a type mismatch exception for operands that can't be classified. y is nil for unary
// operations.
func unsupported(op string, x, y interface{}) *Exception {
	if y == nil {
		return &Exception{
			Kind:    TypeMismatch,
			Op:      op,
			Culprit: x,
			Msg:     fmt.Sprintf("unsupported operand type %T", x),
		}
	}
	return &Exception{
		Kind:    TypeMismatch,
		Op:      op,
		Culprit: [2]interface{}{x, y},
		Msg:     fmt.Sprintf("unsupported operand types %T and %T", x, y),
	}
}

// trapError creates the exception for a trapped flag.
func trapError(op string, f Flags, sticky Flags) *Exception {
	return &Exception{Kind: f.kind(), Op: op, Flags: sticky}
}
