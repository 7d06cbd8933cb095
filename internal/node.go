package internal

import "iter"

type NodeFlags int

const (
	FlagNone   NodeFlags = 0
	FlagInHeap NodeFlags = 1 << 0
	FlagDead   NodeFlags = 1 << 1
)

// ReactiveNode is the part of the dependency graph shared by signals and computeds.
type ReactiveNode struct {
	// the current height of the node in the dependency graph
	height int

	// the node's state
	flags NodeFlags

	subsHead *DependencyLink
}

func (n *ReactiveNode) GetHeight() int { return n.height }

func (n *ReactiveNode) HasFlag(f NodeFlags) bool { return n.flags&f != 0 }
func (n *ReactiveNode) AddFlag(f NodeFlags)      { n.flags |= f }
func (n *ReactiveNode) RemoveFlag(f NodeFlags)   { n.flags &^= f }
func (n *ReactiveNode) SetFlags(f NodeFlags)     { n.flags = f }

// Subs returns an iterator over every computed subscribed to this node.
func (n *ReactiveNode) Subs() iter.Seq[*Computed] {
	return func(yield func(*Computed) bool) {
		for link := n.subsHead; link != nil; link = link.nextSub {
			if !yield(link.sub) {
				return
			}
		}
	}
}

func (n *ReactiveNode) addSubLink(link *DependencyLink) {
	if n.subsHead == nil {
		n.subsHead = link
		link.prevSub = link // loop to self
		link.nextSub = nil
		return
	}

	tail := n.subsHead.prevSub
	tail.nextSub = link
	link.prevSub = tail
	link.nextSub = nil
	n.subsHead.prevSub = link
}

func (n *ReactiveNode) removeSubLink(link *DependencyLink) {
	head := n.subsHead
	if head == nil {
		return
	}

	if link == head {
		n.subsHead = link.nextSub
		if n.subsHead != nil {
			n.subsHead.prevSub = link.prevSub // keep the tail pointer
		}
	} else {
		link.prevSub.nextSub = link.nextSub
		if link.nextSub != nil {
			link.nextSub.prevSub = link.prevSub
		} else {
			head.prevSub = link.prevSub
		}
	}

	link.prevSub = nil
	link.nextSub = nil
}

// DependencyLink is one edge between a signal (dep) and a computed reading it (sub).
// It lives in two lists at once: the sub's deps and the dep's subs.
type DependencyLink struct {
	dep *Signal
	sub *Computed

	prevDep *DependencyLink
	nextDep *DependencyLink

	prevSub *DependencyLink
	nextSub *DependencyLink
}
