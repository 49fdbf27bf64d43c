// Package scheduler batches, orders and flushes the jobs a write to a
// signal gives rise to. It knows nothing about signals or computeds: it
// only deals in Jobs, the queue/batch/atomic bookkeeping around them, and
// the microtask that decides when a flush actually happens.
package scheduler

import "errors"

// ErrInfiniteUpdateLoop is raised when a single flush runs more jobs than
// its configured iteration guard allows, almost always because a job keeps
// rescheduling itself or another job forever.
var ErrInfiniteUpdateLoop = errors.New("scheduler: flush exceeded its iteration guard")

// Job is the thing a node becomes once it needs to run outside of the call
// that scheduled it. Effects are the only job kind reactor schedules today;
// Height lets flush strategies that care about topological order avoid
// glitches without the scheduler knowing anything about the dependency
// graph itself.
type Job interface {
	Run()
	Disposed() bool
	Height() int
}
