package internal

import (
	"errors"

	"github.com/AnatoleLucet/railsig/host"
)

// MaxFlushSteps bounds the recomputations and observer calls a single write may trigger.
const MaxFlushSteps = 100_000

// ErrCycle is raised when propagation does not settle, which only happens on a dependency cycle.
var ErrCycle = errors.New("railsig: propagation did not settle (dependency cycle?)")

type Runtime struct {
	heap      *PriorityHeap
	tracker   *Tracker
	batcher   *Batcher
	effects   *EffectQueue
	settled   *SettledQueue
	scheduler *Scheduler
	inputs    *Inputs

	root *Owner
	vars host.Variables

	flushing bool
	steps    int
}

func NewRuntime() *Runtime {
	r := &Runtime{
		heap:      NewHeap(),
		tracker:   NewTracker(),
		batcher:   NewBatcher(),
		effects:   NewEffectQueue(),
		settled:   NewSettledQueue(),
		scheduler: NewScheduler(),
		inputs:    NewInputs(),
		vars:      host.NewMemory(),
	}

	r.root = r.NewOwner()
	r.tracker.currentOwner = r.root

	return r
}

// Schedule settles pending work unless a batch is open.
func (r *Runtime) Schedule() {
	if r.batcher.IsBatching() {
		return
	}

	r.Flush()
}

// Flush recomputes dirty computeds in height order, then runs queued observers,
// until nothing is left. Re-entrant calls return immediately, the outer loop picks their work up.
func (r *Runtime) Flush() {
	if r.flushing {
		return
	}
	r.flushing = true
	r.steps = 0
	defer func() { r.flushing = false }()

	r.tracker.RunDetached(func() {
		for r.heap.Len() > 0 || r.effects.Len() > 0 {
			r.heap.Drain(r.recompute)
			r.effects.Run(r.step)
		}
	})
}

func (r *Runtime) step() {
	r.steps++
	if r.steps > MaxFlushSteps {
		r.heap.Clear()
		r.effects.Clear()
		panic(ErrCycle)
	}
}

func (r *Runtime) recompute(node *Computed) {
	if node.HasFlag(FlagDead) || node.fn == nil {
		return
	}

	r.step()

	node.DisposeChildren()
	node.ClearDeps()
	node.writes = node.writes[:0]

	r.tracker.RunWithComputation(node, node.fn)
}

func (r *Runtime) Root() *Owner { return r.root }

func (r *Runtime) CurrentOwner() *Owner {
	return r.tracker.CurrentOwner()
}

func (r *Runtime) CurrentComputation() *Computed {
	return r.tracker.CurrentComputation()
}

func (r *Runtime) OnCleanup(fn func()) {
	owner := r.CurrentOwner()
	if owner != nil {
		owner.OnCleanup(fn)
	}
}

func (r *Runtime) Untrack(fn func()) {
	r.tracker.RunUntracked(fn)
}

// OnSettled registers fn to run at the end of every tick.
func (r *Runtime) OnSettled(fn func()) {
	r.settled.Add(fn)
}

func (r *Runtime) Vars() host.Variables { return r.vars }

func (r *Runtime) SetVars(v host.Variables) {
	if v == nil {
		v = host.NewMemory()
	}
	r.vars = v
}

func (r *Runtime) Inputs() *Inputs { return r.inputs }

func (r *Runtime) Scheduler() *Scheduler { return r.scheduler }

// Dispose stops every task and drops every observer and computed.
func (r *Runtime) Dispose() {
	r.root.Dispose()
	r.heap.Clear()
	r.effects.Clear()
}
