package traction

import (
	"math"

	"github.com/AnatoleLucet/railsig"
)

// Bump is an end stop of an InertiaSlider.
type Bump struct {
	Enabled  bool
	Position float64
	// share of the velocity kept on impact, 0 stops dead
	Factor float64

	Sound             string
	SoundVolume       string
	SoundVolumeFactor float64
}

type BumpSide int

const (
	LowerBump BumpSide = iota
	UpperBump
)

type InertiaSliderConfig struct {
	// velocity lost per second
	Friction float64
	Lower    Bump
	Upper    Bump
	// called on every impact
	OnBump func(BumpSide)
}

// InertiaSliderInputs are all optional, zero views read as false and 0.
type InertiaSliderInputs struct {
	// while grabbing the slider moves by GrabbingDelta per tick
	Grabbing        railsig.View[bool]
	GrabbingDelta   railsig.View[float64]
	AdditionalForce railsig.View[float64]
}

type InertiaSliderState struct {
	Position railsig.View[float64]
	Velocity railsig.View[float64]
}

func orZero[T comparable](v railsig.View[T]) T {
	if !v.Valid() {
		var zero T
		return zero
	}
	return v.Get()
}

// InertiaSlider is a mass on a rail: it keeps its velocity, loses Friction
// per second of it, gains AdditionalForce and bounces off its end stops.
func InertiaSlider(cfg InertiaSliderConfig, in InertiaSliderInputs) InertiaSliderState {
	vars := railsig.Vars()
	position := railsig.NewCell(0.0)
	velocity := railsig.NewCell(0.0)

	railsig.Loop(func() {
		dt := railsig.Delta()

		var delta float64
		if orZero(in.Grabbing) {
			delta = orZero(in.GrabbingDelta)
			if dt > 0 {
				velocity.SetIfChanged(delta / dt)
			}
		} else {
			v := velocity.Get() + orZero(in.AdditionalForce)*dt
			friction := cfg.Friction * dt
			if math.Abs(v) <= friction {
				v = 0
			} else {
				v -= math.Copysign(friction, v)
			}
			velocity.SetIfChanged(v)
			delta = v * dt
		}

		pos := position.Get() + delta

		for side, b := range []Bump{cfg.Lower, cfg.Upper} {
			if !b.Enabled {
				continue
			}
			if (side == int(LowerBump) && pos >= b.Position) || (side == int(UpperBump) && pos <= b.Position) {
				continue
			}

			pos = b.Position
			impact := velocity.Get()
			velocity.SetIfChanged(-impact * math.Max(b.Factor, 0))

			if b.Sound != "" {
				trigger(vars, b.Sound)
			}
			if b.SoundVolume != "" {
				vars.SetFloat(b.SoundVolume, math.Abs(impact)*b.SoundVolumeFactor)
			}
			if cfg.OnBump != nil {
				cfg.OnBump(BumpSide(side))
			}
		}

		position.SetIfChanged(pos)
	})

	return InertiaSliderState{
		Position: position.View(),
		Velocity: velocity.View(),
	}
}
