package reactor

import "github.com/flowgraph/reactor/internal/core"

// Scope is an explicit owner for cleanups and nested reactive resources,
// independent of any single effect. It is the same lifecycle mechanism an
// Effect uses internally, exposed directly for code that wants its own
// disposal boundary: tear down a whole subtree of signals, computeds and
// effects together, or catch panics raised underneath it with OnError.
type Scope struct {
	inner *core.Scope
}

// NewScope creates a scope as a child of the currently active scope (or a
// root scope, if none is active).
func NewScope() *Scope {
	return &Scope{inner: core.Current().NewScope()}
}

// Run runs fn with s installed as the active scope: OnCleanup calls inside
// fn attach to s, and a panic inside fn is caught by s's own OnError
// catchers (or an ancestor scope's, if s has none) rather than escaping
// Run.
func (s *Scope) Run(fn func()) {
	s.inner.Run(fn)
}

// Dispose tears s down: every child scope (and every effect owned
// transitively underneath it) is disposed first, then s's own cleanups run
// in LIFO order. Dispose is idempotent.
func (s *Scope) Dispose() {
	s.inner.Dispose()
}

// OnCleanup registers cb to run, once, the next time s is disposed.
func (s *Scope) OnCleanup(cb func()) {
	s.inner.OnCleanup(cb)
}

// OnDispose is an alias for OnCleanup.
func (s *Scope) OnDispose(cb func()) {
	s.inner.OnDispose(cb)
}

// OnError registers cb as an error catcher: a panic raised by Run, or by
// any effect created while s (or a descendant scope) is active, is passed
// to the nearest ancestor scope with at least one catcher. If no scope in
// the chain has one, the panic continues unwinding.
func (s *Scope) OnError(cb func(any)) {
	s.inner.OnError(cb)
}
