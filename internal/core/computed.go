package core

import "github.com/flowgraph/reactor/graph"

// Computed is a memoized derivation: it recomputes lazily, the next time it
// is read after being marked stale. equals only decides whether a
// recompute replaces the cached value; dependents are notified by
// markStale, before the recompute, whether or not the value changes.
type Computed struct {
	rt     *Runtime
	id     graph.NodeID
	fn     func() any
	equals EqualsFunc

	stale     bool
	hasValue  bool
	computing bool
	value     any
}

// NewComputed creates a computed node backed by fn, using equals (or
// DefaultEquals if nil) to decide whether a recompute actually changed the
// value.
func (r *Runtime) NewComputed(fn func() any, equals EqualsFunc) *Computed {
	if equals == nil {
		equals = DefaultEquals
	}
	id := r.Graph.NewNode(graph.KindComputed)
	c := &Computed{rt: r, id: id, fn: fn, equals: equals, stale: true}
	r.setComputed(id, c)
	r.Hooks.RegisterNode(uint64(id), "computed")
	return c
}

// NodeID returns c's identity in the dependency graph.
func (c *Computed) NodeID() graph.NodeID { return c.id }

func (c *Computed) checkThread() {
	if err := c.rt.CheckThread(); err != nil {
		panic(err)
	}
}

// Get returns the current value, recomputing first if stale, and tracks
// the computed as a dependency of whatever is currently being computed.
func (c *Computed) Get() any {
	c.checkThread()
	c.rt.Graph.Track(c.id)
	if c.stale || !c.hasValue {
		c.recompute()
	}
	return c.value
}

// Peek returns the last computed value (recomputing first if stale, since
// there is no cached value to peek at otherwise) without tracking it.
func (c *Computed) Peek() any {
	c.checkThread()
	if c.stale || !c.hasValue {
		c.recompute()
	}
	return c.value
}

// markStale marks c stale and, if this is a fresh transition (c was not
// already stale), propagates to c's own dependents. Already-stale computeds
// short-circuit here: their dependents were already notified the first
// time they went stale.
func (c *Computed) markStale() {
	if c.stale {
		return
	}
	c.stale = true
	c.rt.Hooks.RecordUpdate(uint64(c.id), "computed")
	c.rt.notify(c.id)
}

// recompute re-runs fn with c installed as the observer, rebuilding c's
// dependency set from scratch (stale subscriptions from a branch fn no
// longer takes are dropped automatically). A cycle (c recomputing while
// already computing) panics with ErrCycleDetected. On any panic escaping
// fn, c is left stale with computing cleared, and its existing cached
// value (if any) is left untouched; the panic continues unwinding so the
// nearest effect's OnError scope can see it.
func (c *Computed) recompute() {
	if c.computing {
		panic(ErrCycleDetected)
	}
	c.computing = true

	succeeded := false
	defer func() {
		c.computing = false
		if !succeeded {
			c.stale = true
		}
	}()

	c.rt.Graph.ClearDeps(c.id)

	var next any
	c.rt.Hooks.WithTiming(uint64(c.id), "computed", func() {
		c.rt.Graph.WithObserver(c.id, func() { next = c.fn() })
	})

	if !c.hasValue || !c.equals(c.value, next) {
		c.value = next
		c.hasValue = true
	}
	c.stale = false
	succeeded = true
}

// Dispose tears c down: its dependency and subscriber edges are cleared,
// it stops being discoverable by node id, and it is left stale with no
// cached value.
func (c *Computed) Dispose() {
	c.checkThread()
	c.rt.Graph.ClearDeps(c.id)
	c.rt.Graph.ClearSubs(c.id)
	c.rt.deleteComputed(c.id)
	c.rt.Hooks.UnregisterNode(uint64(c.id))
	c.stale = true
	c.hasValue = false
}
