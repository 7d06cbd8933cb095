package cockpit

import (
	"fmt"

	"github.com/AnatoleLucet/railsig"
)

type ButtonConfig struct {
	Input     string
	Animation string
	SoundOn   string
	SoundOff  string

	// only edges from this cockpit, or without a cockpit, operate the button
	Cockpit int
}

// Button is true while held.
func Button(cfg ButtonConfig) railsig.View[bool] {
	vars := railsig.Vars()
	pressed := railsig.NewCell(false)

	railsig.Spawn(func(t *railsig.Task) {
		for {
			t.Await(railsig.JustPressedIn(cfg.Input, cfg.Cockpit))
			pressed.Set(true)
			setFloat(vars, cfg.Animation, 1)
			trigger(vars, cfg.SoundOn)

			t.Await(railsig.JustReleasedIn(cfg.Input, cfg.Cockpit))
			pressed.Set(false)
			setFloat(vars, cfg.Animation, 0)
			trigger(vars, cfg.SoundOff)
		}
	})

	return pressed.View()
}

// ButtonInOut is a push-on push-off button. While held its animation shows
// the pressed-in position (2).
func ButtonInOut(cfg ButtonConfig) railsig.View[bool] {
	vars := railsig.Vars()
	on := railsig.NewCell(false)

	railsig.Spawn(func(t *railsig.Task) {
		for {
			t.Await(railsig.JustPressedIn(cfg.Input, cfg.Cockpit))
			next := !on.Get()
			on.Set(next)
			setFloat(vars, cfg.Animation, 2)
			trigger(vars, cfg.SoundOn)

			t.Await(railsig.JustReleasedIn(cfg.Input, cfg.Cockpit))
			setFloat(vars, cfg.Animation, boolToFloat(next))
			trigger(vars, cfg.SoundOff)
		}
	})

	return on.View()
}

type TimedButtonConfig struct {
	Input   string
	OnTime  float64
	Lockout float64
}

// TimedButton is a touch button: a press keeps it on for OnTime seconds,
// after which it ignores presses for another Lockout seconds.
func TimedButton(cfg TimedButtonConfig) railsig.View[bool] {
	pressed := railsig.NewCell(false)

	railsig.Spawn(func(t *railsig.Task) {
		for {
			t.Await(railsig.JustPressed(cfg.Input))
			pressed.Set(true)
			t.Await(railsig.Seconds(cfg.OnTime))
			pressed.Set(false)
			t.Await(railsig.Seconds(cfg.Lockout))
		}
	})

	return pressed.View()
}

// SpringLoaded is the state of a two-sided spring loaded button.
type SpringLoaded int

const (
	SpringReleased SpringLoaded = iota
	SpringHoldOn
	SpringHoldOff
)

func (s SpringLoaded) String() string {
	switch s {
	case SpringReleased:
		return "Released"
	case SpringHoldOn:
		return "HoldOn"
	case SpringHoldOff:
		return "HoldOff"
	default:
		return fmt.Sprintf("SpringLoaded(%d)", int(s))
	}
}

type ButtonTwoSidedConfig struct {
	Plus      string
	Minus     string
	Animation string
	SoundOn   string
	SoundOff  string
}

// ButtonTwoSidedSpringLoaded is a rocker: plus holds it on (+1), minus holds
// it off (-1), releasing either springs it back to the middle.
func ButtonTwoSidedSpringLoaded(cfg ButtonTwoSidedConfig) railsig.View[SpringLoaded] {
	vars := railsig.Vars()
	state := railsig.NewCell(SpringReleased)

	side := func(input string, held SpringLoaded, angle float64) {
		railsig.Spawn(func(t *railsig.Task) {
			for {
				t.Await(railsig.JustPressed(input))
				state.Set(held)
				setFloat(vars, cfg.Animation, angle)
				trigger(vars, cfg.SoundOn)

				t.Await(railsig.JustReleased(input))
				state.Set(SpringReleased)
				setFloat(vars, cfg.Animation, 0)
				trigger(vars, cfg.SoundOff)
			}
		})
	}

	side(cfg.Plus, SpringHoldOn, 1)
	side(cfg.Minus, SpringHoldOff, -1)

	return state.View()
}

// IndicatorLight drives variable with voltage while the returned cell or
// lighttest is true, and with 0 otherwise. The caller owns the returned cell.
// A zero lighttest view is ignored.
func IndicatorLight(variable string, lighttest railsig.View[bool], voltage railsig.View[float64]) *railsig.Cell[bool] {
	vars := railsig.Vars()
	on := railsig.NewCell(false)

	railsig.Effect(func() {
		lit := on.Get()
		if lighttest.Valid() {
			lit = lighttest.Get() || lit
		}

		v := 0.0
		if lit {
			v = voltage.Get()
		}
		vars.SetFloat(variable, v)
	})

	return on
}
