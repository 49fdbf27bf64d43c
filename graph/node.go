package graph

// The dep and sub lists are each a circular doubly-linked list where the
// head's prev pointer points at the tail, so appends and single-element
// removals are O(1) without a separate tail pointer.

func addDepLink(n *node, l *depLink) {
	if n.depsHead == nil {
		l.prevDep = l
		l.nextDep = nil
		n.depsHead = l
		return
	}
	tail := n.depsHead.prevDep
	tail.nextDep = l
	l.prevDep = tail
	l.nextDep = nil
	n.depsHead.prevDep = l
}

func removeDepLink(n *node, l *depLink) {
	if l.prevDep == l && l.nextDep == nil {
		n.depsHead = nil
		l.prevDep, l.nextDep = nil, nil
		return
	}
	if l == n.depsHead {
		n.depsHead = l.nextDep
	} else {
		l.prevDep.nextDep = l.nextDep
	}
	if l.nextDep != nil {
		l.nextDep.prevDep = l.prevDep
	} else {
		n.depsHead.prevDep = l.prevDep
	}
	l.prevDep, l.nextDep = nil, nil
}

func addSubLink(n *node, l *depLink) {
	if n.subsHead == nil {
		l.prevSub = l
		l.nextSub = nil
		n.subsHead = l
		return
	}
	tail := n.subsHead.prevSub
	tail.nextSub = l
	l.prevSub = tail
	l.nextSub = nil
	n.subsHead.prevSub = l
}

func removeSubLink(n *node, l *depLink) {
	if l.prevSub == l && l.nextSub == nil {
		n.subsHead = nil
		l.prevSub, l.nextSub = nil, nil
		return
	}
	if l == n.subsHead {
		n.subsHead = l.nextSub
	} else {
		l.prevSub.nextSub = l.nextSub
	}
	if l.nextSub != nil {
		l.nextSub.prevSub = l.prevSub
	} else {
		n.subsHead.prevSub = l.prevSub
	}
	l.prevSub, l.nextSub = nil, nil
}
