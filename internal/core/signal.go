package core

import (
	"math"

	"github.com/flowgraph/reactor/graph"
)

// EqualsFunc decides whether a write changes a signal or computed's value.
// Returning true from a write suppresses it entirely: no downstream
// invalidation, no scheduling.
type EqualsFunc func(a, b any) bool

// DefaultEquals implements the spec's identity-comparison default:
// IEEE-754 NaN is treated as equal to NaN, and +0/-0 are treated as
// distinct, matching Object.is rather than Go's built-in == for floats
// (which gets both of those backwards). Everything else falls back to ==,
// treated as "not equal" if the underlying type is not comparable.
func DefaultEquals(a, b any) bool {
	if af, ok := a.(float64); ok {
		if bf, ok := b.(float64); ok {
			return floatBitsEqual(af, bf)
		}
	}
	if af, ok := a.(float32); ok {
		if bf, ok := b.(float32); ok {
			return floatBitsEqual(float64(af), float64(bf))
		}
	}
	return safeEqual(a, b)
}

func floatBitsEqual(a, b float64) bool {
	if a != a && b != b { // both NaN
		return true
	}
	return math.Float64bits(a) == math.Float64bits(b)
}

func safeEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// Signal is a leaf reactive node: a value cell that notifies its
// dependents whenever a write changes it.
type Signal struct {
	rt     *Runtime
	id     graph.NodeID
	value  any
	equals EqualsFunc
}

// NewSignal creates a signal node holding initial, using equals (or
// DefaultEquals if nil) to decide whether a write is a no-op.
func (r *Runtime) NewSignal(initial any, equals EqualsFunc) *Signal {
	if equals == nil {
		equals = DefaultEquals
	}
	id := r.Graph.NewNode(graph.KindSignal)
	s := &Signal{rt: r, id: id, value: initial, equals: equals}
	r.Hooks.RegisterNode(uint64(id), "signal")
	return s
}

// NodeID returns s's identity in the dependency graph.
func (s *Signal) NodeID() graph.NodeID { return s.id }

func (s *Signal) checkThread() {
	if err := s.rt.CheckThread(); err != nil {
		panic(err)
	}
}

// Read returns the current value, tracking the signal as a dependency of
// whatever is currently being computed.
func (s *Signal) Read() any {
	s.checkThread()
	s.rt.Graph.Track(s.id)
	return s.value
}

// Peek returns the current value without tracking it.
func (s *Signal) Peek() any {
	s.checkThread()
	return s.value
}

// Write sets the signal's value. If equals reports the new value as
// unchanged, this is a no-op: no invalidation, no scheduling. Inside an
// atomic scope, the pre-write value is recorded so a rollback can restore
// it and re-mark dependents stale.
func (s *Signal) Write(next any) {
	s.checkThread()
	if s.equals(s.value, next) {
		return
	}
	prev := s.value
	if s.rt.Scheduler.InAtomic() {
		s.rt.Scheduler.RecordAtomicWrite(s.id, func() {
			s.value = prev
			s.rt.notify(s.id)
		})
	}
	s.value = next
	s.rt.Hooks.RecordUpdate(uint64(s.id), "signal")
	// Notify inside a batch, so every dependent is marked stale or queued
	// before any effect runs.
	s.rt.Scheduler.Batch(func() { s.rt.notify(s.id) })
}

// Subscribe links observer as an explicit subscriber of s, without
// requiring observer to be the currently tracked computation. It fails
// with graph.ErrIllegalEdge if observer is itself a signal. The returned
// disposer removes the edge.
func (s *Signal) Subscribe(observer graph.NodeID) (func(), error) {
	s.checkThread()
	if err := s.rt.Graph.Link(observer, s.id); err != nil {
		return nil, err
	}
	return func() { s.rt.Graph.Unlink(observer, s.id) }, nil
}
