package internal

import (
	"iter"
)

// Owner scopes the lifetime of cells observers, computeds and tasks created under it.
type Owner struct {
	rt *Runtime

	// cleanup functions to be called when the owner is disposed
	cleanups []func()

	// panic error handlers
	catchers []func(any)

	parent       *Owner
	prevSibling  *Owner
	nextSibling  *Owner
	childrenHead *Owner
}

// NewOwner creates an owner attached to the current one.
func (r *Runtime) NewOwner() *Owner {
	o := &Owner{
		rt:       r,
		cleanups: make([]func(), 0),
	}

	if parent := r.CurrentOwner(); parent != nil {
		parent.AddChild(o)
	}

	return o
}

// Run executes fn with o as the current owner.
// A panic is handed to the nearest owner with error listeners, or re-raised.
func (o *Owner) Run(fn func()) {
	o.rt.tracker.RunWithOwner(o, fn)
}

func (o *Owner) recover() {
	if v := recover(); v != nil {
		if !o.handle(v) {
			panic(v)
		}
	}
}

// handle passes v to the catchers of o or of its closest ancestor having some.
func (o *Owner) handle(v any) bool {
	for owner := o; owner != nil; owner = owner.parent {
		if len(owner.catchers) == 0 {
			continue
		}

		for _, catcher := range owner.catchers {
			catcher(v)
		}
		return true
	}

	return false
}

func (parent *Owner) AddChild(child *Owner) {
	child.parent = parent
	child.prevSibling = nil
	child.nextSibling = parent.childrenHead

	if parent.childrenHead != nil {
		parent.childrenHead.prevSibling = child
	}

	parent.childrenHead = child
}

func (o *Owner) Children() iter.Seq[*Owner] {
	return func(yield func(*Owner) bool) {
		child := o.childrenHead

		for child != nil {
			next := child.nextSibling
			if !yield(child) {
				return
			}

			child = next
		}
	}
}

func (o *Owner) Dispose() {
	o.DisposeChildren()

	cleanups := o.cleanups
	o.cleanups = nil
	for _, cleanup := range cleanups {
		cleanup()
	}
}

func (o *Owner) DisposeChildren() {
	for child := range o.Children() {
		child.Dispose()
	}
	o.childrenHead = nil
}

func (o *Owner) OnCleanup(fn func()) {
	o.cleanups = append(o.cleanups, fn)
}

func (o *Owner) OnError(fn func(any)) {
	o.catchers = append(o.catchers, fn)
}
