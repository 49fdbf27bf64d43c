// Package core is the non-generic engine behind the public reactor API: a
// Runtime ties together a dependency graph, a scheduler and a registry,
// pinned to the goroutine that created it. The public package wraps this
// engine's any-boxed values in generic Signal[T]/Computed[T] handles, the
// same split the teacher's own root package keeps over its internal
// package.
package core

import (
	"sync"

	"github.com/petermattis/goid"

	"github.com/flowgraph/reactor/devtools"
	"github.com/flowgraph/reactor/graph"
	"github.com/flowgraph/reactor/registry"
	"github.com/flowgraph/reactor/scheduler"
)

var runtimes sync.Map // goroutine id (int64) -> *Runtime

// Runtime bundles the graph, scheduler and registry backing one goroutine's
// reactive computations, plus the node bookkeeping (computed lookup,
// current scope) those three packages don't know about on their own.
type Runtime struct {
	ownerGID int64

	Graph     *graph.Graph
	Scheduler *scheduler.Scheduler
	Registry  *registry.Registry
	Hooks     devtools.Hooks

	computeds   map[graph.NodeID]*Computed
	activeScope *Scope

	settled       []func()
	userSettled   []func()
	renderSettled []func()
}

func newRuntime() *Runtime {
	r := &Runtime{
		ownerGID:  goid.Get(),
		Graph:     graph.New(),
		Registry:  registry.New(),
		Hooks:     devtools.Noop,
		computeds: make(map[graph.NodeID]*Computed),
	}
	r.Scheduler = scheduler.New(
		scheduler.WithFlushFunc(r.flush),
		scheduler.WithFlushStrategy(scheduler.TopologicalFlush),
	)
	return r
}

// Current returns the calling goroutine's Runtime, creating it on first
// use.
func Current() *Runtime {
	gid := goid.Get()
	if v, ok := runtimes.Load(gid); ok {
		return v.(*Runtime)
	}
	r := newRuntime()
	runtimes.Store(gid, r)
	return r
}

// SetHooks installs devtools hooks for this runtime, replacing the default
// no-op implementation. It should be called before any signal, computed or
// effect is created.
func (r *Runtime) SetHooks(h devtools.Hooks) {
	if h == nil {
		h = devtools.Noop
	}
	r.Hooks = h
}

// CheckThread returns ErrWrongThread if the calling goroutine does not own
// r.
func (r *Runtime) CheckThread() error {
	if goid.Get() != r.ownerGID {
		return ErrWrongThread
	}
	return nil
}

func (r *Runtime) getComputed(id graph.NodeID) (*Computed, bool) {
	c, ok := r.computeds[id]
	return c, ok
}

func (r *Runtime) setComputed(id graph.NodeID, c *Computed) {
	r.computeds[id] = c
}

func (r *Runtime) deleteComputed(id graph.NodeID) {
	delete(r.computeds, id)
}

// notify marks downstream computeds stale and schedules downstream
// effects, given a node whose subs should be walked. Signals and computeds
// both call this after changing.
func (r *Runtime) notify(id graph.NodeID) {
	for sub := range r.Graph.Subs(id) {
		switch r.Graph.Kind(sub) {
		case graph.KindComputed:
			if c, ok := r.getComputed(sub); ok {
				c.markStale()
			}
		case graph.KindEffect:
			if job, ok := r.Registry.Get(sub); ok {
				r.Scheduler.ScheduleJob(job)
			}
		}
	}
}
