package internal

import (
	"fmt"
	"math"
)

type WaitKind int

const (
	WaitPressed WaitKind = iota
	WaitReleased
	WaitTicks
	WaitSeconds
	WaitChanged
)

func (k WaitKind) String() string {
	switch k {
	case WaitPressed:
		return "pressed"
	case WaitReleased:
		return "released"
	case WaitTicks:
		return "ticks"
	case WaitSeconds:
		return "seconds"
	case WaitChanged:
		return "changed"
	default:
		return fmt.Sprintf("WaitKind(%d)", int(k))
	}
}

// Wait is a condition a task can suspend on.
type Wait struct {
	Kind WaitKind

	Name    string // input name, pressed/released
	Cockpit int    // cockpit filter, pressed/released

	Ticks   uint64  // ticks
	Seconds float64 // seconds

	Signal *Signal // changed
}

func (w Wait) String() string {
	switch w.Kind {
	case WaitPressed, WaitReleased:
		if w.Cockpit == AnyCockpit {
			return fmt.Sprintf("%s(%s)", w.Kind, w.Name)
		}
		return fmt.Sprintf("%s(%s@%d)", w.Kind, w.Name, w.Cockpit)
	case WaitTicks:
		return fmt.Sprintf("ticks(%d)", w.Ticks)
	case WaitSeconds:
		return fmt.Sprintf("seconds(%g)", w.Seconds)
	default:
		return w.Kind.String()
	}
}

// armedWait is a Wait plus the clock readings taken when the task suspended.
type armedWait struct {
	Wait

	tick    uint64
	elapsed float64
	version uint64
}

// float sums of frame deltas drift, a few ulps must not cost a whole frame
const secondsEpsilon = 1e-9

func (r *Runtime) arm(w Wait) armedWait {
	a := armedWait{
		Wait:    w,
		tick:    r.scheduler.tick,
		elapsed: r.scheduler.elapsed,
	}
	if w.Kind == WaitChanged && w.Signal != nil {
		a.version = w.Signal.version
	}
	return a
}

func (r *Runtime) satisfied(a armedWait) bool {
	s := r.scheduler

	switch a.Kind {
	case WaitPressed, WaitReleased:
		if s.tick <= a.tick {
			return false
		}
		e, ok := r.inputs.Edge(a.Name)
		if !ok || e.Pressed != (a.Kind == WaitPressed) {
			return false
		}
		return a.Cockpit == AnyCockpit || e.Cockpit == AnyCockpit || e.Cockpit == a.Cockpit
	case WaitTicks:
		return s.tick-a.tick >= max(a.Ticks, 1)
	case WaitSeconds:
		if math.IsNaN(a.Seconds) {
			return false
		}
		return s.tick > a.tick && s.elapsed-a.elapsed+secondsEpsilon >= a.Seconds
	case WaitChanged:
		return a.Signal != nil && a.Signal.version != a.version
	default:
		return false
	}
}
