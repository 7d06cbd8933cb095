package internal

// Computed is a derived node. Its fn reads signals (tracked as dependencies)
// and writes its results into other signals.
type Computed struct {
	*ReactiveNode
	*Owner

	// called whenever the node has to recompute
	fn func()

	depsHead *DependencyLink

	// signals written by the last run
	writes []*Signal
}

func (r *Runtime) NewComputed(fn func()) *Computed {
	c := &Computed{
		ReactiveNode: &ReactiveNode{},
		Owner:        r.NewOwner(),
		fn:           fn,
	}

	c.OnCleanup(func() {
		r.heap.Remove(c)
		c.ClearDeps()
		c.writes = nil
		c.SetFlags(FlagDead)
	})

	r.recompute(c)

	return c
}

// Link creates a bidirectional dependency link between this node (subscriber) and the given signal (dependency).
func (c *Computed) Link(dep *Signal) {
	// dont link if already present as the most recent dependency
	if c.depsHead != nil {
		tail := c.depsHead.prevDep
		if tail.dep == dep {
			return
		}
	}

	link := &DependencyLink{dep: dep, sub: c}

	c.addDepLink(link)
	dep.addSubLink(link)

	if dep.height >= c.height {
		dep.rt.liftComputed(c, dep.height+1, map[*Computed]bool{})
	}
}

func (c *Computed) noteWrite(s *Signal) {
	for _, w := range c.writes {
		if w == s {
			return
		}
	}
	c.writes = append(c.writes, s)
}

// liftSignal raises s to height and pushes the new height down to the
// computeds reading it. seen holds the computeds already lifted in this pass.
func (r *Runtime) liftSignal(s *Signal, height int, seen map[*Computed]bool) {
	if s.height >= height {
		return
	}
	s.height = height

	for sub := range s.Subs() {
		r.liftComputed(sub, height+1, seen)
	}
}

// liftComputed raises c to height, moves it to its new bucket if it is queued
// and lifts the signals it writes along with it.
func (r *Runtime) liftComputed(c *Computed, height int, seen map[*Computed]bool) {
	if c.height >= height || seen[c] {
		return
	}
	seen[c] = true

	queued := c.HasFlag(FlagInHeap)
	if queued {
		r.heap.Remove(c)
	}
	c.height = height
	if queued {
		r.heap.Insert(c)
	}

	for _, s := range c.writes {
		r.liftSignal(s, height, seen)
	}
}

// ClearDeps removes all dependencies
func (c *Computed) ClearDeps() {
	for link := c.depsHead; link != nil; {
		next := link.nextDep
		link.dep.removeSubLink(link)
		link = next
	}

	c.depsHead = nil
}

func (c *Computed) addDepLink(link *DependencyLink) {
	if c.depsHead == nil {
		c.depsHead = link
		link.prevDep = link // loop to self
		link.nextDep = nil
		return
	}

	tail := c.depsHead.prevDep
	tail.nextDep = link
	link.prevDep = tail
	link.nextDep = nil
	c.depsHead.prevDep = link
}
