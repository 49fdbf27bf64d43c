package reactor

import "github.com/flowgraph/reactor/internal/core"

// Batch runs fn with scheduling deferred: every effect a write inside fn
// would otherwise trigger immediately instead runs once, after fn returns,
// with duplicates collapsed. Nested batches only flush when the outermost
// one exits. The batch still balances and still flushes even if fn panics.
func Batch(fn func()) {
	core.Current().Scheduler.Batch(fn)
}

// Transaction is an alias for Atomic.
func Transaction(fn func() error) error {
	return core.Current().Scheduler.Transaction(fn)
}

// Atomic runs fn inside an atomic scope: every signal write inside fn is
// rolled back to its pre-scope value, and the computeds that depended on
// it re-marked stale, if fn returns a non-nil error or panics. Nothing
// scheduled during a rollback actually runs, by design: a rolled-back
// write never had an externally visible effect. A panic from fn is rolled
// back and then re-raised.
func Atomic(fn func() error) error {
	return core.Current().Scheduler.Atomic(fn)
}

// AtomicAsync opens an atomic scope immediately and defers its commit or
// rollback until the channel fn returns resolves. Nested atomics opened
// before that resolution merge into this one, first write wins, the same
// way nested synchronous Atomic scopes do. The commit/rollback bookkeeping
// runs on whatever goroutine is waiting on the result channel, not the
// calling goroutine; call FlushSync from the goroutine that owns this
// runtime after reading from the returned channel to run any effects that
// were scheduled during the scope.
func AtomicAsync(fn func() <-chan error) <-chan error {
	return core.Current().Scheduler.AtomicAsync(fn)
}

// InAtomic reports whether the calling goroutine currently has an atomic
// scope open.
func InAtomic() bool {
	return core.Current().Scheduler.InAtomic()
}

// FlushSync runs any pending flush immediately, synchronously, rather than
// waiting for the scheduler's microtask. It is a no-op if nothing is
// scheduled or queued.
func FlushSync() error {
	return core.Current().Scheduler.FlushSync()
}

// Untrack runs fn without tracking any signal or computed it reads as a
// dependency of the caller, and returns fn's result.
func Untrack[T any](fn func() T) T {
	rt := core.Current()
	var out T
	rt.Graph.Untrack(func() { out = fn() })
	return out
}

// OnSettled registers cb to run once, the next time a flush drains
// completely, including every effect chained during that flush.
func OnSettled(cb func()) {
	core.Current().OnSettled(cb)
}

// OnUserSettled registers cb to run once, after the next round's user
// effects finish, even if they chain into further rounds.
func OnUserSettled(cb func()) {
	core.Current().OnUserSettled(cb)
}

// OnRenderSettled registers cb to run once, after the next round's render
// effects finish and before that round's user effects start.
func OnRenderSettled(cb func()) {
	core.Current().OnRenderSettled(cb)
}
