package engine

// ValueOption configures the construction of a value.
type ValueOption func(*valueConfig)

type valueConfig struct {
	prec    uint
	base    int
	baseSet bool
	ctx     *Context
}

// Precision sets the precision in bits of a new Real, or of both parts of a new Complex.
// 0 uses the context precision.
func Precision(bits uint) ValueOption {
	return func(o *valueConfig) {
		o.prec = bits
	}
}

// Base sets the base of a string to parse. 0 detects the base from the prefix.
func Base(b int) ValueOption {
	return func(o *valueConfig) {
		o.base = b
		o.baseSet = true
	}
}

// Using constructs the value under c instead of the active context of the process-wide stack.
func Using(c *Context) ValueOption {
	return func(o *valueConfig) {
		o.ctx = c
	}
}

func valueOptions(opts []ValueOption) valueConfig {
	var o valueConfig
	for _, f := range opts {
		f(&o)
	}
	return o
}

func (o *valueConfig) context() *Context {
	if o.ctx != nil {
		return o.ctx
	}
	return Shared().Current()
}

func (o *valueConfig) precision(c *Context) uint {
	if o.prec != 0 {
		return o.prec
	}
	return c.Precision()
}
