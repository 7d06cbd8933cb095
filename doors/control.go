package doors

import (
	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/elements"
)

type ControlConfig struct {
	// how long a door stays open after its last request
	RequestTime float64 `yaml:"request_time"`
	// how long an open door waits before closing once the release is withdrawn
	WarningTime float64 `yaml:"warning_time"`
}

type ControlInputs struct {
	SystemActive railsig.View[bool]
	Request      railsig.View[bool]
	Released     railsig.View[bool]
	// zero view means Automatic
	Force railsig.View[ControlMode]
	Door  railsig.View[Position]
}

type ControlState struct {
	Warning railsig.View[bool]
	Target  railsig.View[Target]
}

// Control decides where a door is driven. In Automatic the door opens on
// request while released and closes once the open timer has run down; the
// timer is reloaded with the request time whenever the release comes back
// while the door is not closed. Without the release the timer is cut to the
// warning time and Warning is true until the door is closed. A nil target
// gets a fresh cell.
func Control(cfg ControlConfig, in ControlInputs, target *railsig.Cell[Target]) ControlState {
	if target == nil {
		target = railsig.NewCell(NoEnergy)
	}

	timerSet := railsig.NewCell(elements.VarSet(elements.Reset))
	timerTime := railsig.NewCell(cfg.WarningTime)

	reload := false
	in.Released.OnChange(func(released bool) {
		if released && in.Door.Get() != FullyClosed {
			reload = true
		}
	})

	setTimer := func() {
		if in.Released.Get() {
			timerTime.SetIfChanged(cfg.RequestTime)
		} else {
			timerTime.SetIfChanged(cfg.WarningTime)
		}

		switch {
		case !in.SystemActive.Get():
			reload = false
			timerSet.SetIfChanged(elements.VarSet(elements.Reset))
		case reload:
			reload = false
			timerSet.SetIfChanged(elements.HoldFor(cfg.RequestTime))
		case in.Request.Get():
			timerSet.SetIfChanged(elements.VarSet(elements.Hold))
		default:
			timerSet.SetIfChanged(elements.VarSet(elements.LetRun))
		}
	}
	setTimer()
	railsig.Loop(setTimer)

	expired := elements.TimerVarTime(timerTime, timerSet.View(), nil)

	warning := railsig.NewCell(false)
	setWarning := func() {
		warning.SetIfChanged(!in.Released.Get() && in.Door.Get() != FullyClosed)
	}
	setWarning()
	railsig.Loop(setWarning)

	setTarget := func() {
		target.SetIfChanged(doorTarget(in.SystemActive.Get(), force(in.Force), expired.Get()))
	}
	setTarget()
	railsig.Loop(setTarget)

	return ControlState{
		Warning: warning.View(),
		Target:  target.View(),
	}
}

func force(v railsig.View[ControlMode]) ControlMode {
	if !v.Valid() {
		return Automatic
	}
	return v.Get()
}

func doorTarget(active bool, mode ControlMode, expired bool) Target {
	if !active {
		return NoEnergy
	}

	switch mode {
	case ForceOpen:
		return Open
	case ForceClose:
		return Close
	default:
		if expired {
			return Close
		}
		return Open
	}
}

type WarningOutsideConfig struct {
	// how long the warning keeps going after the doors closed
	AfterClosed float64 `yaml:"after_closed"`
	// above this vehicle speed the warning stops
	MaxSpeed float64 `yaml:"max_speed"`
}

// releaseSettleTicks is how long the relay ignores the release after it changed.
const releaseSettleTicks = 5

// WarningOutsideRelay drives the outside door warning. It comes on while a
// door is open without release or right after the release is withdrawn, runs
// on for AfterClosed seconds once every door is closed, and stops early above
// MaxSpeed or when the doors are released again.
func WarningOutsideRelay(cfg WarningOutsideConfig, released, allClosed railsig.View[bool], speed railsig.View[float64]) railsig.View[bool] {
	timerSet := railsig.NewCell(elements.Reset)

	railsig.Spawn(func(t *railsig.Task) {
		prev := false
		for {
			now := released.Get()

			switch {
			case (!allClosed.Get() || prev) && !now:
				timerSet.SetIfChanged(elements.Hold)
			case speed.Get() > cfg.MaxSpeed || now:
				timerSet.SetIfChanged(elements.Reset)
			default:
				timerSet.SetIfChanged(elements.LetRun)
			}

			if now != prev {
				t.Await(railsig.Ticks(releaseSettleTicks))
			}
			prev = now

			t.Await(railsig.NextTick())
		}
	})

	expired := elements.Timer(elements.TimerConfig{Time: cfg.AfterClosed}, timerSet.View(), nil)
	return elements.Inverter(expired, nil)
}
