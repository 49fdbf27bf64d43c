// Package graph implements the dependency graph and automatic tracking
// machinery that the rest of the runtime builds on: a dense arena of nodes
// addressed by NodeID, bidirectional dep/sub edges maintained through link
// and unlink, and the current-observer slot that withObserver/track use to
// build edges as user code runs.
package graph

import (
	"errors"
	"iter"
)

// ErrIllegalEdge is returned when link (or Subscribe) is asked to make a
// signal depend on something, or to use a signal as an observer.
var ErrIllegalEdge = errors.New("graph: signals cannot have dependencies")

// Kind identifies what a Node represents. It is immutable once a node is
// created.
type Kind uint8

const (
	KindSignal Kind = iota
	KindComputed
	KindEffect
)

func (k Kind) String() string {
	switch k {
	case KindSignal:
		return "signal"
	case KindComputed:
		return "computed"
	case KindEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// NodeID addresses a node in a Graph's arena. The zero value never refers to
// a real node.
type NodeID uint32

type depLink struct {
	dep, sub NodeID

	prevDep, nextDep *depLink
	prevSub, nextSub *depLink
}

type node struct {
	kind   Kind
	height int

	depsHead *depLink
	subsHead *depLink
}

// Graph owns the node arena and the current-observer slot for one runtime.
// It is not safe for concurrent use; callers pin a Graph to one goroutine.
type Graph struct {
	nodes []node // nodes[0] is an unused sentinel so NodeID 0 means "none"

	observer NodeID
	tracking bool
}

// New returns an empty Graph with tracking enabled.
func New() *Graph {
	return &Graph{nodes: make([]node, 1), tracking: true}
}

// NewNode allocates a node of the given kind and returns its NodeID.
func (g *Graph) NewNode(kind Kind) NodeID {
	g.nodes = append(g.nodes, node{kind: kind})
	return NodeID(len(g.nodes) - 1)
}

func (g *Graph) at(id NodeID) *node {
	return &g.nodes[id]
}

// Kind returns the immutable kind of id.
func (g *Graph) Kind(id NodeID) Kind {
	return g.at(id).kind
}

// Height returns id's current height: 0 for signals and for nodes with no
// fn-bearing (computed) dependency, otherwise one more than the tallest
// fn-bearing dependency. Height only ever grows as edges are added; it is
// used by the scheduler's topological flush strategy.
func (g *Graph) Height(id NodeID) int {
	return g.at(id).height
}

// Link records that sub depends on dep, inserting sub into dep's subscriber
// set and dep into sub's dependency set. It fails with ErrIllegalEdge if sub
// is a signal (signals never have dependencies). Linking an already-linked
// pair is a no-op (edges are sets, not a multiset).
func (g *Graph) Link(sub, dep NodeID) error {
	subNode := g.at(sub)
	if subNode.kind == KindSignal {
		return ErrIllegalEdge
	}

	for l := subNode.depsHead; l != nil; l = l.nextDep {
		if l.dep == dep {
			return nil
		}
	}

	link := &depLink{dep: dep, sub: sub}
	addDepLink(subNode, link)

	depNode := g.at(dep)
	addSubLink(depNode, link)

	if depNode.kind != KindSignal && depNode.height >= subNode.height {
		subNode.height = depNode.height + 1
	}

	return nil
}

// Unlink removes the edge between sub and dep, if present. It is a no-op
// otherwise.
func (g *Graph) Unlink(sub, dep NodeID) {
	subNode := g.at(sub)
	for l := subNode.depsHead; l != nil; l = l.nextDep {
		if l.dep == dep {
			removeDepLink(subNode, l)
			removeSubLink(g.at(dep), l)
			return
		}
	}
}

// ClearDeps removes every dependency edge sub currently has.
func (g *Graph) ClearDeps(sub NodeID) {
	subNode := g.at(sub)
	for l := subNode.depsHead; l != nil; {
		next := l.nextDep
		removeSubLink(g.at(l.dep), l)
		l = next
	}
	subNode.depsHead = nil
}

// ClearSubs removes every subscriber edge dep currently has, i.e. it
// un-links everything that depends on dep.
func (g *Graph) ClearSubs(dep NodeID) {
	depNode := g.at(dep)
	for l := depNode.subsHead; l != nil; {
		next := l.nextSub
		removeDepLink(g.at(l.sub), l)
		l = next
	}
	depNode.subsHead = nil
}

// Deps iterates the current dependencies of sub.
func (g *Graph) Deps(sub NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for l := g.at(sub).depsHead; l != nil; l = l.nextDep {
			if !yield(l.dep) {
				return
			}
		}
	}
}

// Subs iterates the current subscribers of dep.
func (g *Graph) Subs(dep NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for l := g.at(dep).subsHead; l != nil; l = l.nextSub {
			if !yield(l.sub) {
				return
			}
		}
	}
}

// CurrentObserver returns the node currently acquiring dependencies, or the
// zero NodeID if there is none.
func (g *Graph) CurrentObserver() NodeID {
	return g.observer
}

// WithObserver runs fn with obs installed as the current observer, restoring
// the previous observer on every exit path including a panic unwinding
// through fn.
func (g *Graph) WithObserver(obs NodeID, fn func()) {
	prev := g.observer
	g.observer = obs
	defer func() { g.observer = prev }()
	fn()
}

// Untrack runs fn with dependency tracking suppressed, restoring the
// previous tracking state on every exit path.
func (g *Graph) Untrack(fn func()) {
	prev := g.tracking
	g.tracking = false
	defer func() { g.tracking = prev }()
	fn()
}

// Track links dep as a dependency of the current observer, if any. It is a
// no-op outside of an observer scope or while untracked.
func (g *Graph) Track(dep NodeID) {
	if g.observer == 0 || !g.tracking {
		return
	}
	// The observer is never a signal (signals are never installed via
	// WithObserver), so this can only fail on a programmer error.
	_ = g.Link(g.observer, dep)
}
