package reactor

import (
	"github.com/flowgraph/reactor/graph"
	"github.com/flowgraph/reactor/internal/core"
	"github.com/flowgraph/reactor/scheduler"
)

// Sentinel errors, checked with errors.Is. They are defined in the leaf
// packages that actually detect each condition and re-exported here so
// callers only need to import this package.
var (
	// ErrIllegalEdge is raised by Signal.Subscribe when the observer is
	// itself a signal (signals never have dependencies).
	ErrIllegalEdge = graph.ErrIllegalEdge
	// ErrCycleDetected is raised when a computed recomputes while
	// already computing, directly or through another computed.
	ErrCycleDetected = core.ErrCycleDetected
	// ErrInfiniteUpdateLoop is raised when a flush runs more jobs than
	// its iteration guard allows.
	ErrInfiniteUpdateLoop = scheduler.ErrInfiniteUpdateLoop
	// ErrWrongThread is raised, as a panic, when a Signal or Computed
	// method, or Effect.Dispose, is called from a goroutine other than the
	// one that created it.
	ErrWrongThread = core.ErrWrongThread
)
