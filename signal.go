package reactor

import (
	"github.com/flowgraph/reactor/graph"
	"github.com/flowgraph/reactor/internal/core"
)

// Observer is anything with a node identity that can be the target of
// Signal.Subscribe, such as a Computed or an Effect. Signal has a NodeID
// method as well, so it satisfies Observer; Subscribe rejects a signal
// observer at run time with ErrIllegalEdge, matching the invariant that
// signals never have dependencies.
type Observer interface {
	NodeID() graph.NodeID
}

// Signal is a leaf reactive value. The zero value is not usable; create
// one with NewSignal or NewSignalFunc.
type Signal[T any] struct {
	inner *core.Signal
}

// NewSignal creates a signal holding initial, using == to decide whether a
// write actually changes the value.
func NewSignal[T comparable](initial T) *Signal[T] {
	return NewSignalFunc(initial, func(a, b T) bool { return a == b })
}

// NewSignalFunc creates a signal holding initial, using equals to decide
// whether a write actually changes the value. A nil equals falls back to
// DefaultEquals semantics (identity comparison, NaN equal to NaN, +0
// distinct from -0).
func NewSignalFunc[T any](initial T, equals func(a, b T) bool) *Signal[T] {
	rt := core.Current()
	return &Signal[T]{inner: rt.NewSignal(initial, wrapEquals(equals))}
}

func wrapEquals[T any](equals func(a, b T) bool) core.EqualsFunc {
	if equals == nil {
		return nil
	}
	return func(a, b any) bool { return equals(unbox[T](a), unbox[T](b)) }
}

// unbox converts a boxed value back to T. A nil box becomes T's zero value,
// which a plain type assertion rejects when T is an interface type.
func unbox[T any](v any) T {
	t, _ := v.(T)
	return t
}

// Get returns the current value, tracking the signal as a dependency of
// whatever computed or effect is currently running.
func (s *Signal[T]) Get() T {
	return unbox[T](s.inner.Read())
}

// Peek returns the current value without tracking it.
func (s *Signal[T]) Peek() T {
	return unbox[T](s.inner.Peek())
}

// Set writes a new value. A write that compares equal to the current value
// under the signal's equality function is a no-op.
func (s *Signal[T]) Set(v T) {
	s.inner.Write(v)
}

// Update reads the current value, applies fn, and writes the result back.
func (s *Signal[T]) Update(fn func(T) T) {
	s.Set(fn(s.Peek()))
}

// NodeID returns the signal's identity in the dependency graph.
func (s *Signal[T]) NodeID() graph.NodeID {
	return s.inner.NodeID()
}

// Subscribe links observer as an explicit dependent of s, without
// requiring observer to be the currently tracked computation. The returned
// disposer removes the edge. It fails with ErrIllegalEdge if observer is
// itself a Signal.
func (s *Signal[T]) Subscribe(observer Observer) (func(), error) {
	return s.inner.Subscribe(observer.NodeID())
}
