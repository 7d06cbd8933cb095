package traction

import (
	"fmt"
	"math"

	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/elements"
)

// BrakeElement is one brake of a combination. Brake is the demand in [0, 1].
type BrakeElement struct {
	ReferenceForce float64
	Exponent       float64
	Brake          railsig.View[float64]
}

// BrakeCombination sums the lagged forces of its elements once per tick and
// writes the total to variable.
func BrakeCombination(variable string, elems []BrakeElement) railsig.View[float64] {
	vars := railsig.Vars()
	total := railsig.NewCell(0.0)
	values := make([]float64, len(elems))

	railsig.Loop(func() {
		sum := 0.0
		for i, e := range elems {
			values[i] = elements.Approach(values[i], e.Exponent, e.Brake.Get()*e.ReferenceForce, railsig.Delta())
			sum += values[i]
		}

		total.SetIfChanged(sum)
		setFloat(vars, variable, sum)
	})

	return total.View()
}

type RailBrakeConfig struct {
	// N per volt
	ReferenceForce float64 `yaml:"reference_force"`
	MinVoltage     float64 `yaml:"min_voltage"`

	SoundPitchBase   float64 `yaml:"sound_pitch_base"`
	SoundPitchPerMps float64 `yaml:"sound_pitch_per_mps"`

	Bogie        int    `yaml:"bogie"`
	SoundVolume  string `yaml:"-"`
	SoundPitch   string `yaml:"-"`
	SoundControl string `yaml:"-"`
}

// RailBrake is a magnetic track brake. Its force is proportional to the
// voltage while active and the voltage is at least MinVoltage; the force is
// written to F_RailBrake_Bogie_N_<bogie>. speed drives the sound pitch.
func RailBrake(cfg RailBrakeConfig, active railsig.View[bool], voltage, speed railsig.View[float64]) railsig.View[float64] {
	vars := railsig.Vars()
	forceVariable := fmt.Sprintf("F_RailBrake_Bogie_N_%d", cfg.Bogie)
	force := railsig.NewCell(0.0)

	on := false
	railsig.Loop(func() {
		v := voltage.Get()
		next := active.Get() && v >= cfg.MinVoltage

		f := 0.0
		if next {
			f = cfg.ReferenceForce * v
		}
		force.SetIfChanged(f)
		vars.SetFloat(forceVariable, f)

		if next != on {
			on = next
			if on {
				setFloat(vars, cfg.SoundVolume, 1)
				trigger(vars, cfg.SoundControl)
			} else {
				setFloat(vars, cfg.SoundVolume, -0.5)
			}
		}

		if on {
			setFloat(vars, cfg.SoundPitch, cfg.SoundPitchBase+cfg.SoundPitchPerMps*math.Abs(speed.Get()))
		}
	})

	return force.View()
}

type SandingConfig struct {
	Bogie int            `yaml:"bogie"`
	Axle  int            `yaml:"axle"`
	Sound elements.Sound `yaml:"sound"`
}

// sand takes a second to reach the rail and stops at once
var sandingDelay = elements.DelayRelayConfig{OnDelay: 1, OffDelay: 0}

// SandingUnit sands axle Axle of bogie Bogie while active. The sound follows
// active directly, the effect, written to sanding_<bogie>_<axle>, is delayed.
func SandingUnit(cfg SandingConfig, active railsig.View[bool]) railsig.View[bool] {
	effect := elements.DelayRelay(sandingDelay, active, nil)

	if cfg.Sound.Start != "" && cfg.Sound.Loop != "" && cfg.Sound.Stop != "" {
		elements.StartLoopStopSound(cfg.Sound, active)
	}

	elements.VarWriter(fmt.Sprintf("sanding_%d_%d", cfg.Bogie, cfg.Axle), effect)

	return effect
}
