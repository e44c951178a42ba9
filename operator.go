package bignum

import (
	"sort"
)

// DefaultOperators are the operators of the calculator language. A lower precedence binds tighter.
var DefaultOperators = Operators{
	{Precedence: 700, Type: XFX, Name: `==`},
	{Precedence: 700, Type: XFX, Name: `!=`},
	{Precedence: 700, Type: XFX, Name: `<`},
	{Precedence: 700, Type: XFX, Name: `<=`},
	{Precedence: 700, Type: XFX, Name: `>`},
	{Precedence: 700, Type: XFX, Name: `>=`},
	{Precedence: 500, Type: YFX, Name: `+`},
	{Precedence: 500, Type: YFX, Name: `-`},
	{Precedence: 400, Type: YFX, Name: `*`},
	{Precedence: 400, Type: YFX, Name: `/`},
	{Precedence: 400, Type: YFX, Name: `//`},
	{Precedence: 400, Type: YFX, Name: `%`},
	{Precedence: 200, Type: FY, Name: `+`},
	{Precedence: 200, Type: FY, Name: `-`},
	{Precedence: 200, Type: XFY, Name: `**`},
}

func init() {
	sort.Stable(DefaultOperators)
}

// Operators is a list of operators sorted by descending precedence.
type Operators []Operator

func (os Operators) Len() int {
	return len(os)
}

func (os Operators) Less(i, j int) bool {
	return os[i].Precedence > os[j].Precedence
}

func (os Operators) Swap(i, j int) {
	os[i], os[j] = os[j], os[i]
}

// AtMost returns the operators with precedence p or lower.
func (os Operators) AtMost(p int) Operators {
	i := sort.Search(len(os), func(i int) bool { return os[i].Precedence <= p })
	if i == len(os) {
		return nil // not found
	}
	return os[i:]
}

// Operator is a prefix or infix operator.
type Operator struct {
	Precedence int // 1 ~ 1200
	Type       OperatorType
	Name       string
}

func (o *Operator) leftRight() (int, int) {
	switch o.Type {
	case XFX:
		return o.Precedence - 1, o.Precedence - 1
	case XFY:
		return o.Precedence - 1, o.Precedence
	case YFX:
		return o.Precedence, o.Precedence - 1
	case FX:
		return -1, o.Precedence - 1
	case FY:
		return -1, o.Precedence
	default:
		return -1, -1
	}
}

// OperatorType is the class and associativity of an operator.
type OperatorType byte

// OperatorType is one of these values.
const (
	NAO OperatorType = iota // not an operator
	XFX
	XFY
	YFX
	FX
	FY
)
