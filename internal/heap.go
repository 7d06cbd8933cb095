package internal

import "iter"

// PriorityHeap buckets dirty computeds by height so they can be recomputed in topological order.
type PriorityHeap struct {
	min  int
	max  int
	size int

	nodes []*heapNode // [height]head

	lookup map[*Computed]*heapNode // for O(1) removal
}

type heapNode struct {
	node *Computed

	// height at insertion time, the node may move while queued
	height int

	next *heapNode
	prev *heapNode
}

func NewHeap() *PriorityHeap {
	return &PriorityHeap{
		nodes:  make([]*heapNode, 64),
		lookup: make(map[*Computed]*heapNode),
	}
}

func (h *PriorityHeap) Len() int { return h.size }

func (h *PriorityHeap) Insert(node *Computed) {
	if node.HasFlag(FlagInHeap) || node.HasFlag(FlagDead) {
		return
	}
	node.AddFlag(FlagInHeap)

	height := node.GetHeight()
	for height >= len(h.nodes) {
		h.nodes = append(h.nodes, make([]*heapNode, len(h.nodes))...)
	}

	entry := &heapNode{node: node, height: height}
	h.lookup[node] = entry
	h.size++

	if h.nodes[height] == nil {
		h.nodes[height] = entry
		entry.prev = entry // loop to self
		entry.next = nil
	} else {
		head := h.nodes[height]
		tail := head.prev

		tail.next = entry
		entry.prev = tail
		entry.next = nil
		head.prev = entry
	}

	if height > h.max {
		h.max = height
	}
}

func (h *PriorityHeap) InsertAll(nodes iter.Seq[*Computed]) {
	for node := range nodes {
		h.Insert(node)
	}
}

func (h *PriorityHeap) Remove(node *Computed) {
	if !node.HasFlag(FlagInHeap) {
		return
	}
	node.RemoveFlag(FlagInHeap)

	entry, ok := h.lookup[node]
	if !ok {
		return
	}
	delete(h.lookup, node)
	h.size--

	height := entry.height

	// single node
	if entry.prev == entry {
		h.nodes[height] = nil
		entry.next = nil
		return
	}

	// multiple nodes
	head := h.nodes[height]
	if entry == head {
		h.nodes[height] = entry.next
	} else {
		entry.prev.next = entry.next
	}

	next := entry.next
	if next == nil {
		next = h.nodes[height]
	}
	next.prev = entry.prev

	entry.prev = entry
	entry.next = nil
}

// Drain processes each entry in topological order with the `process` function.
// Nodes inserted below the current height while draining stay queued for the next drain.
func (h *PriorityHeap) Drain(process func(*Computed)) {
	for h.min = 0; h.min <= h.max; h.min++ {
		entry := h.nodes[h.min]

		for entry != nil {
			h.Remove(entry.node)
			process(entry.node)
			entry = h.nodes[h.min]
		}
	}

	if h.size == 0 {
		h.max = 0
	}
}

// Clear drops every queued node without processing it.
func (h *PriorityHeap) Clear() {
	for node := range h.lookup {
		node.RemoveFlag(FlagInHeap)
	}
	clear(h.nodes)
	clear(h.lookup)
	h.size = 0
	h.max = 0
}
