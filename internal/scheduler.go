package internal

import (
	"errors"
	"iter"
	"slices"
)

var errTaskStopped = errors.New("railsig: task stopped")

// Scheduler keeps the simulation clock and the tasks, in spawn order.
type Scheduler struct {
	// incremented once per Tick, tasks compare it against their registration tick
	tick uint64

	delta   float64
	elapsed float64

	tasks []*Task
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		tasks: make([]*Task, 0),
	}
}

func (s *Scheduler) TickCount() uint64 { return s.tick }
func (s *Scheduler) Delta() float64    { return s.delta }
func (s *Scheduler) Elapsed() float64  { return s.elapsed }

// Task is a coroutine driven by the scheduler. It only ever runs between two
// of its own suspension points, on the runtime goroutine's behalf.
type Task struct {
	rt    *Runtime
	owner *Owner

	next  func() (struct{}, bool)
	stop  func()
	yield func(struct{}) bool

	waits   []armedWait
	fired   int
	running bool
	done    bool
}

func (t *Task) Done() bool { return t.done }

// Awaiting returns the conditions the task is suspended on.
func (t *Task) Awaiting() []Wait {
	waits := make([]Wait, len(t.waits))
	for i, w := range t.waits {
		waits[i] = w.Wait
	}
	return waits
}

// Await suspends the task until one of the waits is satisfied and returns its index.
// With several waits this is a select: the other branches are dropped.
func (t *Task) Await(waits ...Wait) int {
	if !t.running {
		panic("railsig: Await called outside of its task")
	}

	t.waits = t.waits[:0]
	for _, w := range waits {
		t.waits = append(t.waits, t.rt.arm(w))
	}

	t.running = false
	if !t.yield(struct{}{}) {
		panic(errTaskStopped)
	}
	t.running = true

	return t.fired
}

// Stop unwinds a suspended task. Deferred calls in the task body still run.
func (t *Task) Stop() {
	if t.done || t.running {
		return
	}
	t.done = true
	t.stop()
}

func (r *Runtime) Spawn(fn func(*Task)) *Task {
	s := r.scheduler

	t := &Task{
		rt:    r,
		owner: r.NewOwner(),
	}

	seq := func(yield func(struct{}) bool) {
		bindRuntime(r)
		defer unbindRuntime()

		defer func() {
			if v := recover(); v != nil && v != errTaskStopped {
				panic(v)
			}
		}()

		t.yield = yield
		t.running = true
		fn(t)
	}
	t.next, t.stop = iter.Pull(iter.Seq[struct{}](seq))

	t.owner.OnCleanup(t.Stop)
	s.tasks = append(s.tasks, t)

	r.resume(t)

	return t
}

// resume runs t until its next suspension point.
func (r *Runtime) resume(t *Task) {
	t.owner.Run(func() {
		r.tracker.RunDetached(func() {
			defer func() {
				if v := recover(); v != nil {
					t.finish()
					panic(v)
				}
			}()

			if _, ok := t.next(); !ok {
				t.finish()
			}
		})
	})
}

func (t *Task) finish() {
	t.done = true
	t.running = false
	t.waits = nil
}

// Tick advances the clock by dt, applies the queued input edges and resumes,
// in spawn order, each task whose wait is satisfied. A task resumes at most once per tick.
func (r *Runtime) Tick(dt float64) {
	s := r.scheduler

	if dt < 0 {
		dt = 0
	}

	r.inputs.Advance()
	s.tick++
	s.delta = dt
	s.elapsed += dt

	for i := 0; i < len(s.tasks); i++ {
		t := s.tasks[i]
		if t.done || t.running {
			continue
		}

		for idx, w := range t.waits {
			if r.satisfied(w) {
				t.fired = idx
				r.resume(t)
				break
			}
		}
	}

	s.tasks = slices.DeleteFunc(s.tasks, func(t *Task) bool { return t.done })

	r.settled.Run()
}
