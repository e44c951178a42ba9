package engine

import (
	"context"
	"errors"
	"sync"
)

// ErrEmptyStack is returned when popping a stack that has no pushed context.
var ErrEmptyStack = errors.New("no context to pop")

// Stack is a stack of contexts whose top is the active context.
//
// A Stack created by NewStack is meant to be owned by a single goroutine, which gives that goroutine its own
// rounding settings and sticky flags. The process-wide stack returned by Shared serializes access to the stack
// itself, but every goroutine then observes and mutates the same active Context: callers must serialize their
// operations on it.
type Stack struct {
	mu     *sync.Mutex
	frames []*Context
}

// NewStack creates a stack for the exclusive use of one goroutine.
func NewStack() *Stack {
	return &Stack{}
}

var shared = Stack{mu: &sync.Mutex{}}

// Shared returns the process-wide stack.
func Shared() *Stack {
	return &shared
}

func (s *Stack) lock() func() {
	if s.mu == nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Current returns the active context. The first call creates a default context.
func (s *Stack) Current() *Context {
	defer s.lock()()
	return s.current()
}

func (s *Stack) current() *Context {
	if len(s.frames) == 0 {
		s.frames = append(s.frames, DefaultContext())
	}
	return s.frames[len(s.frames)-1]
}

// Set replaces the active context with c. A read-only c is replaced by a mutable copy.
func (s *Stack) Set(c *Context) *Context {
	defer s.lock()()
	_ = s.current()
	if c.readOnly {
		c = c.Copy()
	}
	s.frames[len(s.frames)-1] = c
	return c
}

// Push activates c and returns it. A read-only c is replaced by a mutable copy.
func (s *Stack) Push(c *Context) *Context {
	c, _ = s.push(c)
	return c
}

// push activates c and returns it with its frame index.
func (s *Stack) push(c *Context) (*Context, int) {
	defer s.lock()()
	_ = s.current()
	if c.readOnly {
		c = c.Copy()
	}
	s.frames = append(s.frames, c)
	return c, len(s.frames) - 1
}

// Pop deactivates the context activated by the last Push and reactivates the one before it.
func (s *Stack) Pop() (*Context, error) {
	defer s.lock()()
	if len(s.frames) < 2 {
		return nil, ErrEmptyStack
	}
	c := s.frames[len(s.frames)-1]
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	return c, nil
}

// Depth returns the number of pushed contexts.
func (s *Stack) Depth() int {
	defer s.lock()()
	if len(s.frames) == 0 {
		return 0
	}
	return len(s.frames) - 1
}

// Local activates c while f runs. The previously active context is restored even if f panics.
// On a stack of its own, contexts left pushed by f are dropped as well. On the process-wide stack, only the frame
// of c is removed since other goroutines may have pushed theirs on top of it.
func (s *Stack) Local(c *Context, f func(*Context) error) error {
	c, n := s.push(c)
	defer s.restore(c, n)
	return f(c)
}

func (s *Stack) restore(c *Context, n int) {
	defer s.lock()()
	if s.mu == nil {
		for i := n; i < len(s.frames); i++ {
			s.frames[i] = nil
		}
		if n < len(s.frames) {
			s.frames = s.frames[:n]
		}
		return
	}
	for i := len(s.frames) - 1; i > 0; i-- {
		if s.frames[i] != c {
			continue
		}
		copy(s.frames[i:], s.frames[i+1:])
		s.frames[len(s.frames)-1] = nil
		s.frames = s.frames[:len(s.frames)-1]
		return
	}
}

type stackCtxKey struct{}

// WithStack returns a copy of parent which carries s.
func WithStack(parent context.Context, s *Stack) context.Context {
	return context.WithValue(parent, stackCtxKey{}, s)
}

// StackFrom returns the stack carried by ctx, or the process-wide stack.
func StackFrom(ctx context.Context) *Stack {
	if ctx == nil {
		return Shared()
	}
	s, ok := ctx.Value(stackCtxKey{}).(*Stack)
	if !ok {
		return Shared()
	}
	return s
}

// Current returns the active context of the stack carried by ctx.
func Current(ctx context.Context) *Context {
	return StackFrom(ctx).Current()
}
