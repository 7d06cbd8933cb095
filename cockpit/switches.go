package cockpit

import (
	"github.com/AnatoleLucet/railsig"
)

type ComplexStepSwitchConfig[T any] struct {
	Plus      string
	Minus     string
	Animation string
	Sound     string
	Initial   T
}

// ComplexStepSwitch steps through the positions of T on plus/minus presses.
// Presses are ignored while blocked is true or at the ends of the range.
// A zero blocked view never blocks.
func ComplexStepSwitch[T StepPosition[T]](cfg ComplexStepSwitchConfig[T], blocked railsig.View[bool]) railsig.View[T] {
	vars := railsig.Vars()
	state := railsig.NewCell(cfg.Initial)

	setFloat(vars, cfg.Animation, cfg.Initial.Angle())

	step := func(input string, move func(T) T) {
		railsig.Spawn(func(t *railsig.Task) {
			for {
				t.Await(railsig.JustPressed(input))

				if blocked.Valid() && blocked.Get() {
					continue
				}

				next := move(state.Get())
				if next == state.Get() {
					continue
				}

				state.Set(next)
				setFloat(vars, cfg.Animation, next.Angle())
				trigger(vars, cfg.Sound)
			}
		})
	}

	step(cfg.Plus, func(p T) T { return p.Next() })
	step(cfg.Minus, func(p T) T { return p.Previous() })

	return state.View()
}

type RichtungswenderConfig struct {
	Plus      string
	Minus     string
	Animation string
	Sound     string
}

func DefaultRichtungswenderConfig() RichtungswenderConfig {
	return RichtungswenderConfig{
		Plus:      "ReverserPlus",
		Minus:     "ReverserMinus",
		Animation: "A_CP_Richtungswender",
		Sound:     "Snd_CP_A_Reverser",
	}
}

// Richtungswender is the reverser: O, I, V, R. It cannot be moved while lock
// is true, which the Sollwertgeber holds while its handle is off neutral.
func Richtungswender(cfg RichtungswenderConfig, lock railsig.View[bool]) railsig.View[Reverser] {
	return ComplexStepSwitch(ComplexStepSwitchConfig[Reverser]{
		Plus:      cfg.Plus,
		Minus:     cfg.Minus,
		Animation: cfg.Animation,
		Sound:     cfg.Sound,
	}, lock)
}

type SwitchConfig struct {
	Input     string
	Animation string
	Sound     string
	Initial   bool
}

// Switch toggles on every press.
func Switch(cfg SwitchConfig) railsig.View[bool] {
	vars := railsig.Vars()
	position := railsig.NewCell(cfg.Initial)

	set := func(v bool) {
		position.Set(v)
		setFloat(vars, cfg.Animation, boolToFloat(v))
	}
	set(cfg.Initial)

	railsig.Spawn(func(t *railsig.Task) {
		for {
			t.Await(railsig.JustPressed(cfg.Input))
			set(!position.Get())
			trigger(vars, cfg.Sound)
		}
	})

	return position.View()
}

type StepSwitchConfig struct {
	Min, Max    int
	Plus, Minus string
	Animation   string
	Sound       string
	Initial     int

	// the minimum position springs back by one step on release
	MinSpringLoaded bool
}

// StepSwitch is an integer position in [Min, Max] moved by plus/minus presses.
func StepSwitch(cfg StepSwitchConfig) railsig.View[int] {
	vars := railsig.Vars()
	position := railsig.NewCell(min(max(cfg.Initial, cfg.Min), cfg.Max))

	set := func(v int, sound bool) {
		if v < cfg.Min || v > cfg.Max {
			return
		}
		position.Set(v)
		setFloat(vars, cfg.Animation, float64(v))
		if sound {
			trigger(vars, cfg.Sound)
		}
	}
	set(position.Get(), false)

	railsig.Spawn(func(t *railsig.Task) {
		for {
			t.Await(railsig.JustPressed(cfg.Plus))
			set(position.Get()+1, true)
		}
	})

	railsig.Spawn(func(t *railsig.Task) {
		for {
			t.Await(railsig.JustPressed(cfg.Minus))
			set(position.Get()-1, true)

			if cfg.MinSpringLoaded && position.Get() == cfg.Min {
				t.Await(railsig.JustReleased(cfg.Minus))
				set(cfg.Min+1, true)
			}
		}
	})

	return position.View()
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
