package core

// Scope is the owner-tree node behind both the public Scope/Owner type and
// every Effect's private lifecycle bookkeeping: child scopes, cleanups run
// in LIFO order, and error catchers consulted from the nearest scope
// outward. An Effect owns one Scope and resets it (disposing children,
// draining cleanups) at the start of every run, which is what makes
// OnCleanup inside an effect body behave like a per-run teardown rather
// than a once-ever one.
type Scope struct {
	rt       *Runtime
	parent   *Scope
	children []*Scope
	cleanups []func()
	catchers []func(any)
	context  map[any]any
	disposed bool
}

func (r *Runtime) newScope(parent *Scope) *Scope {
	s := &Scope{rt: r, parent: parent}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// NewScope creates a child of the currently active scope (or a root scope,
// if none is active).
func (r *Runtime) NewScope() *Scope {
	return r.newScope(r.activeScope)
}

// ActiveScope returns the scope currently running, or nil.
func (r *Runtime) ActiveScope() *Scope {
	return r.activeScope
}

// OnCleanup registers cb against the currently active scope, if any.
func (r *Runtime) OnCleanup(cb func()) {
	if r.activeScope != nil {
		r.activeScope.addCleanup(cb)
	}
}

func (s *Scope) addCleanup(cb func()) {
	s.cleanups = append(s.cleanups, cb)
}

// OnCleanup registers cb to run, in LIFO order with every other cleanup on
// s, the next time s is reset or disposed.
func (s *Scope) OnCleanup(cb func()) {
	s.addCleanup(cb)
}

// OnDispose is an alias for OnCleanup: since Dispose only ever runs once
// per scope (guarded by s.disposed), "once when disposed" and "every time
// Dispose runs" coincide.
func (s *Scope) OnDispose(cb func()) {
	s.addCleanup(cb)
}

// OnError registers cb as an error catcher on s. A panic raised inside s's
// Run, or inside any effect owned transitively by s, is caught by the
// nearest ancestor scope with at least one catcher; if none exists, the
// panic continues unwinding.
func (s *Scope) OnError(cb func(any)) {
	s.catchers = append(s.catchers, cb)
}

// reportError walks from s outward looking for a scope with at least one
// catcher, invokes every catcher on the first one found, and reports
// whether it found one.
func (s *Scope) reportError(err any) bool {
	if len(s.catchers) == 0 {
		if s.parent != nil {
			return s.parent.reportError(err)
		}
		return false
	}
	for _, c := range s.catchers {
		c(err)
	}
	return true
}

func (s *Scope) drainCleanups() {
	cleanups := s.cleanups
	s.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		s.runCleanupSafely(cleanups[i])
	}
}

func (s *Scope) runCleanupSafely(cb func()) {
	defer func() {
		if r := recover(); r != nil {
			s.reportError(r)
		}
	}()
	cb()
}

// disposeChildren tears down every child scope in reverse creation order,
// the same LIFO order cleanups drain in: the most recently created sibling
// (and everything under it) goes first.
func (s *Scope) disposeChildren() {
	children := s.children
	s.children = nil
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}
}

// reset disposes every child and drains every cleanup, in that order,
// without marking s itself disposed. This is what an effect does at the
// start of each run before re-acquiring its dependencies.
func (s *Scope) reset() {
	s.disposeChildren()
	s.drainCleanups()
}

// Dispose tears s down: children first (recursively), then s's own
// cleanups, then detaches s from its parent. It is idempotent.
func (s *Scope) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.disposeChildren()
	s.drainCleanups()
	if s.parent != nil {
		s.parent.removeChild(s)
	}
}

func (s *Scope) removeChild(child *Scope) {
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

// Run runs fn with s installed as the active scope, catching any panic
// through s's own error catchers (or an ancestor's, if s has none).
func (s *Scope) Run(fn func()) {
	prev := s.rt.activeScope
	s.rt.activeScope = s
	defer func() { s.rt.activeScope = prev }()
	defer func() {
		if r := recover(); r != nil {
			if !s.reportError(r) {
				panic(r)
			}
		}
	}()
	fn()
}

// SetContext stores value under key, visible to Run calls in s and every
// descendant scope until shadowed by a nearer SetContext with the same
// key.
func (s *Scope) SetContext(key, value any) {
	if s.context == nil {
		s.context = make(map[any]any)
	}
	s.context[key] = value
}

// GetContext looks up key starting at s and walking out through ancestors.
func (s *Scope) GetContext(key any) (any, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.context != nil {
			if v, ok := cur.context[key]; ok {
				return v, true
			}
		}
	}
	return nil, false
}
