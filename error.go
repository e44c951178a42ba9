package bignum

import (
	"fmt"
)

// UndefinedError is an error that signifies a reference to an unknown variable, function or directive.
type UndefinedError struct {
	Kind string
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("undefined %s: %s", e.Kind, e.Name)
}

// ArityError is an error that signifies a function called with a wrong number of arguments.
type ArityError struct {
	Func     string
	Min, Max int
	Actual   int
}

func (e *ArityError) Error() string {
	if e.Min == e.Max {
		return fmt.Sprintf("%s: expected %d arguments, got %d", e.Func, e.Min, e.Actual)
	}
	return fmt.Sprintf("%s: expected %d to %d arguments, got %d", e.Func, e.Min, e.Max, e.Actual)
}

// DirectiveError is an error that signifies a directive with invalid arguments.
type DirectiveError struct {
	Directive *Directive
	Msg       string
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("%s: %s", e.Directive, e.Msg)
}
