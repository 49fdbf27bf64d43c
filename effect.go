package reactor

import (
	"github.com/flowgraph/reactor/graph"
	"github.com/flowgraph/reactor/internal/core"
)

// Effect is an eager side-effecting job. It runs once on creation and
// again every time one of the signals or computeds it read on its last run
// changes. Effects never have their own dependents: nothing in this
// package ever lets another node track an effect.
type Effect struct {
	inner *core.Effect
}

// Cleanup is a teardown callback. An effect body may return one instead of
// (or alongside) calling OnCleanup explicitly; a nil return registers
// nothing.
type Cleanup = func()

// NewEffect creates and immediately runs a user effect. If fn returns a
// non-nil Cleanup, it runs the next time the effect re-runs or is disposed,
// the same as a cleanup registered with OnCleanup from inside fn.
func NewEffect(fn func() Cleanup) *Effect {
	return &Effect{inner: core.Current().NewEffect(core.EffectUser, fn)}
}

// NewRenderEffect creates and immediately runs a render effect. Within a
// single flush round, every render effect runs before every user effect,
// and OnRenderSettled fires once the round's render effects are done,
// before its user effects start.
func NewRenderEffect(fn func() Cleanup) *Effect {
	return &Effect{inner: core.Current().NewEffect(core.EffectRender, fn)}
}

// Dispose tears the effect down: its owned scope is disposed (LIFO
// cleanups, nested effects torn down) and it stops being scheduled.
func (e *Effect) Dispose() {
	e.inner.Dispose()
}

// NodeID returns the effect's identity in the dependency graph.
func (e *Effect) NodeID() graph.NodeID {
	return e.inner.NodeID()
}

// OnCleanup registers cb to run, in LIFO order with every other cleanup
// registered during the same run, the next time the currently running
// effect (or scope) re-runs or is disposed. It is a no-op outside of an
// effect or Scope.Run.
func OnCleanup(cb func()) {
	core.Current().OnCleanup(cb)
}
