package elements

import (
	"fmt"

	"github.com/AnatoleLucet/railsig"
)

// TimerSet drives a timer.
type TimerSet int

const (
	// Reset expires the timer immediately.
	Reset TimerSet = iota
	// Hold keeps the timer loaded with its full time.
	Hold
	// LetRun counts the timer down by the frame time.
	LetRun
)

func (s TimerSet) String() string {
	switch s {
	case Reset:
		return "Reset"
	case Hold:
		return "Hold"
	case LetRun:
		return "LetRun"
	default:
		return fmt.Sprintf("TimerSet(%d)", int(s))
	}
}

type TimerConfig struct {
	Time float64 `yaml:"time"`
}

// value the countdown is parked at after a reset, strictly expired
const timerResetValue = -0.1

type countdown struct {
	remaining float64
}

func (c *countdown) step(set TimerSet, time, dt float64) bool {
	switch set {
	case Hold:
		c.remaining = time
	case LetRun:
		if c.remaining > 0 {
			c.remaining -= dt
		}
	default:
		c.remaining = timerResetValue
	}

	return c.remaining <= 0
}

// Timer outputs true once expired. Hold loads the timer with cfg.Time, LetRun
// counts it down, Reset expires it. The output is updated at creation and
// then once per tick.
func Timer(cfg TimerConfig, set railsig.View[TimerSet], target *railsig.Cell[bool]) railsig.View[bool] {
	out := orNew(target)

	var c countdown
	out.SetIfChanged(c.step(set.Get(), cfg.Time, 0))

	railsig.Loop(func() {
		out.SetIfChanged(c.step(set.Get(), cfg.Time, railsig.Delta()))
	})

	return out.View()
}

// TimerVarSet drives a TimerVarTime. Build it with VarSet or HoldFor.
type TimerVarSet struct {
	Set TimerSet

	// with Set == Hold, overrides the timer time
	time    float64
	hasTime bool
}

func VarSet(s TimerSet) TimerVarSet {
	return TimerVarSet{Set: s}
}

// HoldFor holds the timer and sets its time to t.
func HoldFor(t float64) TimerVarSet {
	return TimerVarSet{Set: Hold, time: t, hasTime: true}
}

func (s TimerVarSet) String() string {
	if s.hasTime {
		return fmt.Sprintf("Hold(%g)", s.time)
	}
	return s.Set.String()
}

// TimerVarTime is a Timer whose time is read from a cell. HoldFor writes its
// time into that cell, so the timer is the writer of time. The remaining time
// never exceeds the current time value.
func TimerVarTime(time *railsig.Cell[float64], set railsig.View[TimerVarSet], target *railsig.Cell[bool]) railsig.View[bool] {
	out := orNew(target)

	var c countdown
	step := func(dt float64) {
		s := set.Get()
		if s.Set == Hold && s.hasTime {
			time.SetIfChanged(s.time)
		}

		c.step(s.Set, time.Get(), dt)
		c.remaining = min(c.remaining, time.Get())

		out.SetIfChanged(c.remaining <= 0)
	}

	step(0)
	railsig.Loop(func() { step(railsig.Delta()) })

	return out.View()
}
