package railsig

import "github.com/AnatoleLucet/railsig/internal"

// AnyCockpit matches input edges from every cockpit.
const AnyCockpit = internal.AnyCockpit

// Wait is a condition a task can suspend on.
type Wait struct {
	w internal.Wait
}

func (w Wait) String() string { return w.w.String() }

// JustPressed is satisfied by a press edge of name applied after the wait was registered.
func JustPressed(name string) Wait {
	return JustPressedIn(name, AnyCockpit)
}

// JustReleased is satisfied by a release edge of name applied after the wait was registered.
func JustReleased(name string) Wait {
	return JustReleasedIn(name, AnyCockpit)
}

// JustPressedIn only accepts edges from the given cockpit. Edges reported
// without a cockpit match any filter.
func JustPressedIn(name string, cockpit int) Wait {
	return Wait{internal.Wait{Kind: internal.WaitPressed, Name: name, Cockpit: cockpit}}
}

func JustReleasedIn(name string, cockpit int) Wait {
	return Wait{internal.Wait{Kind: internal.WaitReleased, Name: name, Cockpit: cockpit}}
}

// NextTick is satisfied by the following tick.
func NextTick() Wait {
	return Ticks(1)
}

// Ticks is satisfied n ticks after registration. Ticks(0) behaves like NextTick.
func Ticks(n uint64) Wait {
	return Wait{internal.Wait{Kind: internal.WaitTicks, Ticks: n}}
}

// Seconds is satisfied on the first tick where at least d seconds of simulated
// time have passed since registration, never on the registration tick itself.
func Seconds(d float64) Wait {
	return Wait{internal.Wait{Kind: internal.WaitSeconds, Seconds: d}}
}

// Changed is satisfied by the next commit to v.
func Changed[T comparable](v View[T]) Wait {
	return v.Changed()
}

// Task is a cooperative coroutine resumed by Tick.
type Task struct {
	task *internal.Task
}

// Spawn registers fn as a task and runs it up to its first Await.
// The task is stopped when the current owner is disposed.
func Spawn(fn func(t *Task)) *Task {
	t := &Task{}
	t.task = internal.GetRuntime().Spawn(func(it *internal.Task) {
		if t.task == nil {
			t.task = it
		}
		fn(t)
	})
	return t
}

// Loop spawns a task calling fn once per tick, starting with the next one.
func Loop(fn func()) *Task {
	return Spawn(func(t *Task) {
		for {
			t.Await(NextTick())
			fn()
		}
	})
}

// Await suspends the task until one of waits is satisfied and returns its index.
// When several are satisfied on the same tick the first one wins.
func (t *Task) Await(waits ...Wait) int {
	ws := make([]internal.Wait, len(waits))
	for i, w := range waits {
		ws[i] = w.w
	}
	return t.task.Await(ws...)
}

// Awaiting lists the waits the task is suspended on.
func (t *Task) Awaiting() []Wait {
	ws := t.task.Awaiting()
	waits := make([]Wait, len(ws))
	for i, w := range ws {
		waits[i] = Wait{w}
	}
	return waits
}

func (t *Task) Done() bool { return t.task.Done() }

// Stop unwinds a suspended task, deferred calls in its body still run.
// It does nothing on a task that is running, so a task cannot stop itself,
// even by disposing its owner: it keeps going until it returns or suspends.
func (t *Task) Stop() { t.task.Stop() }

// Tick advances the simulation by dt seconds. Negative values count as zero.
func Tick(dt float64) {
	internal.GetRuntime().Tick(dt)
}

// Press queues a press edge for name, applied by the next Tick.
// Other goroutines push through an Input.
func Press(name string, cockpit int) {
	internal.GetRuntime().Inputs().Push(internal.InputEdge{Name: name, Pressed: true, Cockpit: cockpit})
}

func Release(name string, cockpit int) {
	internal.GetRuntime().Inputs().Push(internal.InputEdge{Name: name, Pressed: false, Cockpit: cockpit})
}

// IsPressed reports whether name is held in any cockpit as of the last Tick.
// Held state is kept per cockpit.
func IsPressed(name string) bool {
	return internal.GetRuntime().Inputs().IsPressed(name)
}

// InputEdge is a press or release of a named input.
type InputEdge = internal.InputEdge

// AppliedInputs lists the edges the last Tick applied, in submission order.
// Edges deferred to a later tick or dropped as repeats are not included.
func AppliedInputs() []InputEdge {
	return internal.GetRuntime().Inputs().Applied()
}

// Delta is the dt of the last Tick.
func Delta() float64 { return internal.GetRuntime().Scheduler().Delta() }

// Elapsed is the sum of every dt so far.
func Elapsed() float64 { return internal.GetRuntime().Scheduler().Elapsed() }

// TickCount is the number of ticks so far.
func TickCount() uint64 { return internal.GetRuntime().Scheduler().TickCount() }

// Input is a handle for pushing edges into a runtime from another goroutine.
type Input struct {
	in *internal.Inputs
}

// NewInput returns an Input bound to the current runtime.
func NewInput() Input {
	return Input{internal.GetRuntime().Inputs()}
}

func (i Input) Press(name string, cockpit int) {
	i.in.Push(internal.InputEdge{Name: name, Pressed: true, Cockpit: cockpit})
}

func (i Input) Release(name string, cockpit int) {
	i.in.Push(internal.InputEdge{Name: name, Pressed: false, Cockpit: cockpit})
}
