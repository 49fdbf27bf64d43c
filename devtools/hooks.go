// Package devtools defines the hook interface the runtime calls into for
// every node lifecycle and recompute event. The runtime depends on nothing
// beyond this interface by default (Noop); the optional adapters in this
// package give those hooks a concrete home in OpenTelemetry tracing and
// Prometheus metrics without ever making the core reactive packages import
// either.
package devtools

// Hooks receives node lifecycle and execution events from a runtime. All
// methods must be cheap and must not themselves read or write signals.
type Hooks interface {
	// RegisterNode is called once, when a signal, computed or effect is
	// created.
	RegisterNode(id uint64, kind string)
	// UnregisterNode is called once, when a computed or effect is
	// disposed.
	UnregisterNode(id uint64)
	// RecordUpdate is called every time a signal's value changes or a
	// computed is marked stale.
	RecordUpdate(id uint64, kind string)
	// WithTiming wraps the execution of a computed recompute or an
	// effect run. Implementations must call fn exactly once and must let
	// a panic from fn propagate.
	WithTiming(id uint64, kind string, fn func())
}

type noop struct{}

func (noop) RegisterNode(uint64, string)    {}
func (noop) UnregisterNode(uint64)          {}
func (noop) RecordUpdate(uint64, string)    {}
func (noop) WithTiming(_ uint64, _ string, fn func()) { fn() }

// Noop discards every event. It is the default Hooks for a new runtime.
var Noop Hooks = noop{}
