package reactor

import "github.com/flowgraph/reactor/internal/core"

type contextKey struct{ name string }

// Context provides a value inherited down the active scope tree: a
// descendant scope sees the nearest ancestor's Set value, or def if none
// set it. It is unrelated to Go's context.Context; the name mirrors the
// reactive-framework convention (React context, Solid context) this
// runtime's effect and scope model is otherwise grounded on.
type Context[T any] struct {
	key *contextKey
	def T
}

// NewContext creates a context identified by name (used only for
// diagnostics; two contexts are distinct even with the same name) with
// default value def.
func NewContext[T any](name string, def T) *Context[T] {
	return &Context[T]{key: &contextKey{name: name}, def: def}
}

// Value returns the nearest ancestor scope's value for c, or c's default if
// none is active or none set it.
func (c *Context[T]) Value() T {
	scope := core.Current().ActiveScope()
	if scope == nil {
		return c.def
	}
	if v, ok := scope.GetContext(c.key); ok {
		return v.(T)
	}
	return c.def
}

// Set attaches v to the currently active scope, visible to that scope and
// every descendant until shadowed by a nearer Set on the same context. It
// panics if called with no active scope.
func (c *Context[T]) Set(v T) {
	scope := core.Current().ActiveScope()
	if scope == nil {
		panic("reactor: Context.Set called with no active scope")
	}
	scope.SetContext(c.key, v)
}
