package railsig

import "github.com/AnatoleLucet/railsig/internal"

// View is the read side of a cell. It is what every consumer holds.
type View[T comparable] struct {
	signal *internal.Signal
}

// Cell is the write side of a cell. Only its designated writer should hold it,
// everybody else gets a View.
type Cell[T comparable] struct {
	view View[T]
}

// NewCell creates a cell holding initial.
func NewCell[T comparable](initial T) *Cell[T] {
	return &Cell[T]{
		view: View[T]{internal.GetRuntime().NewSignal(initial)},
	}
}

// Const returns a view that never changes.
func Const[T comparable](v T) View[T] {
	return NewCell(v).View()
}

// Get the latest committed value, tracking the dependency if within a derived node.
func (v View[T]) Get() T {
	return as[T](v.signal.Read())
}

// Version increases by one on every commit.
func (v View[T]) Version() uint64 {
	return v.signal.Version()
}

// Valid reports whether the view points to a cell.
func (v View[T]) Valid() bool {
	return v.signal != nil
}

// OnChange calls fn with the committed value once per commit made after registration.
// The current value is not replayed.
func (v View[T]) OnChange(fn func(T)) {
	v.signal.Observe(func(value any) { fn(as[T](value)) })
}

// Changed is a Wait satisfied by the next commit. Read the new value with Get.
func (v View[T]) Changed() Wait {
	return Wait{internal.Wait{Kind: internal.WaitChanged, Signal: v.signal}}
}

// View returns the read-only side of the cell.
func (c *Cell[T]) View() View[T] {
	return c.view
}

func (c *Cell[T]) Get() T              { return c.view.Get() }
func (c *Cell[T]) Version() uint64     { return c.view.Version() }
func (c *Cell[T]) OnChange(fn func(T)) { c.view.OnChange(fn) }
func (c *Cell[T]) Changed() Wait       { return c.view.Changed() }

// Set commits value and notifies dependents even when it is unchanged.
func (c *Cell[T]) Set(value T) {
	c.view.signal.Write(value, true)
}

// SetIfChanged commits value only when it differs from the current one.
// It reports whether a commit happened.
func (c *Cell[T]) SetIfChanged(value T) bool {
	return c.view.signal.Write(value, false)
}

// Update commits fn(current) if it differs from the current value.
func (c *Cell[T]) Update(fn func(T) T) bool {
	return c.SetIfChanged(fn(as[T](c.view.signal.Value())))
}

// Derive makes out follow fn. Every view read inside fn becomes a dependency;
// fn runs once immediately and again whenever a dependency commits, after the
// nodes it depends on and before the triggering write returns.
func Derive[T comparable](out *Cell[T], fn func() T) {
	internal.GetRuntime().NewComputed(func() {
		out.SetIfChanged(fn())
	})
}

// Effect runs fn now and again whenever a view it read commits.
// Cleanups registered with OnCleanup inside fn run before the next run.
func Effect(fn func()) {
	internal.GetRuntime().NewEffect(fn)
}
