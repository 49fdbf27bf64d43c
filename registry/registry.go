// Package registry maps effect nodes to the scheduler.Job that owns them.
// Signals and computeds notify downstream effects by node id alone; the
// registry is the only place that turns an id back into something
// runnable, so neither a signal nor a computed ever needs a direct
// reference to the effects that depend on them.
package registry

import (
	"github.com/flowgraph/reactor/graph"
	"github.com/flowgraph/reactor/scheduler"
)

// Registry is a simple id-to-job map. It is not safe for concurrent use,
// matching the rest of the runtime's single-goroutine-per-instance model.
type Registry struct {
	jobs map[graph.NodeID]scheduler.Job
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{jobs: make(map[graph.NodeID]scheduler.Job)}
}

// Get returns the job registered for id, if any.
func (r *Registry) Get(id graph.NodeID) (scheduler.Job, bool) {
	j, ok := r.jobs[id]
	return j, ok
}

// Set registers job under id, replacing any previous entry.
func (r *Registry) Set(id graph.NodeID, job scheduler.Job) {
	r.jobs[id] = job
}

// Delete removes id's entry, if any.
func (r *Registry) Delete(id graph.NodeID) {
	delete(r.jobs, id)
}
