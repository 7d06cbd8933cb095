// Package railsig is a reactive dataflow runtime for vehicle behaviour scripts.
//
// Cells hold values and notify their dependents on commit, derived nodes are
// settled in topological order before a write returns, and tasks are
// cooperative coroutines resumed once per simulation tick when the condition
// they wait on (an input edge, a duration, a cell change) is met.
//
// Every goroutine gets its own runtime; tasks run on behalf of the runtime
// that spawned them.
package railsig

import (
	"github.com/AnatoleLucet/railsig/host"
	"github.com/AnatoleLucet/railsig/internal"
)

// ErrCycle is the panic value raised when a write does not settle.
var ErrCycle = internal.ErrCycle

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// Batch defers settlement of every write made inside fn until fn returns.
func Batch(fn func()) {
	internal.GetRuntime().NewBatch(fn)
}

// Untrack runs the given function without tracking any reactive dependencies.
func Untrack[T any](fn func() T) T {
	var result T
	internal.GetRuntime().Untrack(func() { result = fn() })
	return result
}

// OnCleanup registers a function to be called when the current owner is disposed.
func OnCleanup(fn func()) {
	internal.GetRuntime().OnCleanup(fn)
}

// OnError registers a handler for panics raised by tasks, observers and derived nodes.
// Without a handler the panic escapes from Tick or from the write that caused it.
func OnError(fn func(any)) {
	internal.GetRuntime().Root().OnError(fn)
}

// OnTickEnd registers fn to run after every Tick, once all tasks have been resumed.
func OnTickEnd(fn func()) {
	internal.GetRuntime().OnSettled(fn)
}

// Vars returns the host variable namespace bound to the current runtime.
func Vars() host.Variables {
	return internal.GetRuntime().Vars()
}

// BindVars binds the host variable namespace. nil binds a fresh in-memory store.
func BindVars(v host.Variables) {
	internal.GetRuntime().SetVars(v)
}

// Reset disposes the current runtime: tasks are stopped, observers and derived nodes dropped.
// The next call creates a fresh one.
func Reset() {
	internal.ResetRuntime()
}

type Owner struct {
	owner *internal.Owner
}

// NewOwner creates a new owner attached to the current one.
// An owner manages the lifecycle of tasks, observers and derived nodes created within its context.
func NewOwner() *Owner {
	return &Owner{
		internal.GetRuntime().NewOwner(),
	}
}

// Run a function within the context of this owner.
func (o *Owner) Run(fn func()) { o.owner.Run(fn) }

// Dispose this owner and all its children.
func (o *Owner) Dispose() { o.owner.Dispose() }

// Add a cleanup function to be called when the owner is disposed.
func (o *Owner) OnCleanup(fn func()) { o.owner.OnCleanup(fn) }

// Add a function to be called when a panic occurs within this owner.
// If no error listener is registered, the panic will propagate as usual.
func (o *Owner) OnError(fn func(any)) { o.owner.OnError(fn) }
