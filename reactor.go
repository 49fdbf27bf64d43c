// Package reactor is a fine-grained reactivity runtime: signals hold
// state, computed values derive from other signals and computeds with
// automatic dependency tracking and memoization, and effects run side
// effects whenever the values they read change. Propagation is glitch
// free: a computed never observes a mix of old and new upstream values,
// because it always recomputes lazily, in full, the next time it is read.
//
// A runtime is pinned to the goroutine that first touches it (via
// Current, called implicitly by every constructor in this package).
// Calling a Signal or Computed method, or Effect.Dispose, from a different
// goroutine than the one that created it panics with ErrWrongThread rather
// than racing. Scope methods do not check the calling goroutine.
package reactor

import (
	"github.com/flowgraph/reactor/devtools"
	"github.com/flowgraph/reactor/internal/core"
)

// SetHooks installs devtools hooks on the calling goroutine's runtime,
// replacing the default no-op implementation. Call it before creating any
// signal, computed or effect.
func SetHooks(h devtools.Hooks) {
	core.Current().SetHooks(h)
}
