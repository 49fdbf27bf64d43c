package reactor

import (
	"github.com/flowgraph/reactor/graph"
	"github.com/flowgraph/reactor/internal/core"
)

// Computed is a memoized derivation. It recomputes lazily, the next time
// Get is called after one of its dependencies changed. A recomputed value
// that compares equal to the cached one leaves the cached value in place;
// dependents are notified when the computed goes stale, before it
// recomputes, so they re-run even when the new value turns out equal.
type Computed[T any] struct {
	inner *core.Computed
}

// NewComputed creates a computed backed by fn, using == to decide whether
// a recompute actually changed the value.
func NewComputed[T comparable](fn func() T) *Computed[T] {
	return NewComputedFunc(fn, func(a, b T) bool { return a == b })
}

// NewComputedFunc creates a computed backed by fn, using equals to decide
// whether a recompute actually changed the value. A nil equals falls back
// to DefaultEquals semantics.
func NewComputedFunc[T any](fn func() T, equals func(a, b T) bool) *Computed[T] {
	rt := core.Current()
	c := rt.NewComputed(func() any { return fn() }, wrapEquals(equals))
	return &Computed[T]{inner: c}
}

// Get returns the current value, recomputing first if stale, and tracks
// the computed as a dependency of whatever computed or effect is currently
// running.
func (c *Computed[T]) Get() T {
	return c.inner.Get().(T)
}

// Peek returns the current value (recomputing first if stale) without
// tracking it.
func (c *Computed[T]) Peek() T {
	return c.inner.Peek().(T)
}

// Dispose tears the computed down: its edges are cleared and it stops
// recomputing.
func (c *Computed[T]) Dispose() {
	c.inner.Dispose()
}

// NodeID returns the computed's identity in the dependency graph.
func (c *Computed[T]) NodeID() graph.NodeID {
	return c.inner.NodeID()
}
