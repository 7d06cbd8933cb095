package traction

import (
	"math"

	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/cockpit"
	"github.com/AnatoleLucet/railsig/host"
)

type DemandConfig struct {
	TractionMultiplier float64 `yaml:"traction_multiplier"`
	BrakeMultiplier    float64 `yaml:"brake_multiplier"`

	TractionVariable string `yaml:"-"`
	BrakeVariable    string `yaml:"-"`
}

func DefaultDemandConfig() DemandConfig {
	return DemandConfig{
		TractionMultiplier: 100_000,
		BrakeMultiplier:    150_000,
		TractionVariable:   "M_Axle_N_0_0",
		BrakeVariable:      "MBrake_Axle_N_0_0",
	}
}

type DemandState struct {
	// in [-1, 1], negative drives backwards
	Traction railsig.View[float64]
	// in [0, 1]
	Brake railsig.View[float64]
}

// Demand turns the handle position and the reverser into a traction and a
// brake demand. Traction needs the reverser in V or R, braking works in any
// position. Both are mirrored, scaled, to the host torque variables.
func Demand(cfg DemandConfig, handle railsig.View[float64], reverser railsig.View[cockpit.Reverser]) DemandState {
	vars := railsig.Vars()
	traction := railsig.NewCell(0.0)
	brake := railsig.NewCell(0.0)

	railsig.Derive(traction, func() float64 {
		t := math.Max(handle.Get(), 0)
		switch reverser.Get() {
		case cockpit.ReverserV:
			return t
		case cockpit.ReverserR:
			return -t
		default:
			return 0
		}
	})
	railsig.Derive(brake, func() float64 {
		return math.Max(-handle.Get(), 0)
	})

	railsig.Effect(func() {
		setFloat(vars, cfg.TractionVariable, traction.Get()*cfg.TractionMultiplier)
		setFloat(vars, cfg.BrakeVariable, brake.Get()*cfg.BrakeMultiplier)
	})

	return DemandState{
		Traction: traction.View(),
		Brake:    brake.View(),
	}
}

// UnitMode picks the traction unit mode for a demand.
func UnitMode(traction, brake float64) Mode {
	switch {
	case brake > 0:
		return Brake
	case traction > 0:
		return Forward
	case traction < 0:
		return Backward
	default:
		return Off
	}
}

func setFloat(vars host.Variables, name string, v float64) {
	if name != "" {
		vars.SetFloat(name, v)
	}
}

func trigger(vars host.Variables, name string) {
	if name != "" {
		host.Trigger(vars, name)
	}
}
