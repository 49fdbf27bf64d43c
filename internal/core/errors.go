package core

import "errors"

// ErrCycleDetected is raised when a computed's recompute re-enters itself,
// directly or through another computed, while already computing.
var ErrCycleDetected = errors.New("reactor: cycle detected during recompute")

// ErrWrongThread is raised when a runtime operation runs on a goroutine
// other than the one that created the runtime.
var ErrWrongThread = errors.New("reactor: called from a goroutine that does not own this runtime")
