package core

import "github.com/flowgraph/reactor/graph"

// EffectKind distinguishes the two effect lanes a flush drains separately:
// render effects run before user effects within a round, and each lane has
// its own settled hook.
type EffectKind uint8

const (
	EffectUser EffectKind = iota
	EffectRender
)

func (k EffectKind) label() string {
	if k == EffectRender {
		return "render-effect"
	}
	return "effect"
}

// Cleanup is a callback an effect body can return to register its own
// teardown, instead of (or alongside) calling OnCleanup explicitly. A nil
// Cleanup registers nothing.
type Cleanup = func()

// Effect is an eager side-effecting job: it runs once on creation, and
// again every time one of its dependencies changes. Effects never have
// subscribers (nothing should ever treat an effect's execution as a value
// to depend on); that invariant holds by construction here, since nothing
// in this package ever links another node against an effect's id.
type Effect struct {
	rt       *Runtime
	id       graph.NodeID
	fn       func() Cleanup
	kind     EffectKind
	scope    *Scope
	disposed bool
}

// NewEffect creates and immediately runs an effect of the given kind. If
// fn returns a non-nil Cleanup, it is appended to the effect's own
// cleanups, the same as an explicit OnCleanup call from inside fn.
func (r *Runtime) NewEffect(kind EffectKind, fn func() Cleanup) *Effect {
	id := r.Graph.NewNode(graph.KindEffect)
	e := &Effect{rt: r, id: id, fn: fn, kind: kind}
	e.scope = r.newScope(r.activeScope)
	r.Registry.Set(id, e)
	r.Hooks.RegisterNode(uint64(id), "effect")
	e.run()
	return e
}

// NodeID returns e's identity in the dependency graph.
func (e *Effect) NodeID() graph.NodeID { return e.id }

// Disposed implements scheduler.Job. An effect whose owned scope was
// disposed by an ancestor scope counts as disposed too.
func (e *Effect) Disposed() bool { return e.disposed || e.scope.disposed }

// Height implements scheduler.Job.
func (e *Effect) Height() int { return e.rt.Graph.Height(e.id) }

// Run implements scheduler.Job.
func (e *Effect) Run() { e.run() }

// Kind reports whether e is a user or render effect.
func (e *Effect) Kind() EffectKind { return e.kind }

func (e *Effect) run() {
	if e.Disposed() {
		return
	}

	e.scope.reset()
	e.rt.Graph.ClearDeps(e.id)

	prevScope := e.rt.activeScope
	e.rt.activeScope = e.scope
	defer func() { e.rt.activeScope = prevScope }()

	func() {
		defer func() {
			if r := recover(); r != nil {
				if !e.scope.reportError(r) {
					panic(r)
				}
			}
		}()
		var cleanup Cleanup
		e.rt.Hooks.WithTiming(uint64(e.id), e.kind.label(), func() {
			e.rt.Graph.WithObserver(e.id, func() {
				cleanup = e.fn()
			})
		})
		if cleanup != nil {
			e.scope.addCleanup(cleanup)
		}
	}()
}

// Dispose tears the effect down: its owned scope is disposed (LIFO
// cleanups, nested effects torn down), its dependency edges are cleared,
// and it is removed from the registry so future writes can no longer
// schedule it.
func (e *Effect) Dispose() {
	if err := e.rt.CheckThread(); err != nil {
		panic(err)
	}
	if e.disposed {
		return
	}
	e.disposed = true
	e.scope.Dispose()
	e.rt.Graph.ClearDeps(e.id)
	e.rt.Registry.Delete(e.id)
	e.rt.Hooks.UnregisterNode(uint64(e.id))
}
