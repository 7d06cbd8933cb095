// Package traction models the drive train: the three phase traction units,
// the brakes, sanding and the translation of the driver's handle into force
// demands for the host physics.
package traction

import (
	"fmt"
	"math"

	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/elements"
)

// Mode is the direction a traction unit works in.
type Mode int

const (
	Off Mode = iota
	Forward
	Backward
	Brake
)

// Sign is +1 for Forward, -1 for Backward and 0 otherwise.
func (m Mode) Sign() float64 {
	switch m {
	case Forward:
		return 1
	case Backward:
		return -1
	default:
		return 0
	}
}

func (m Mode) String() string {
	switch m {
	case Off:
		return "Off"
	case Forward:
		return "Forward"
	case Backward:
		return "Backward"
	case Brake:
		return "Brake"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

type ThreePhaseUnitConfig struct {
	// N, positive
	MaxForceAcceleration float64 `yaml:"max_force_acceleration"`
	// W, positive
	MaxPowerAcceleration float64 `yaml:"max_power_acceleration"`
	// N, positive
	MaxForceBraking float64 `yaml:"max_force_braking"`
	// N/(m/s)
	MaxForceBrakingPerSpeed float64 `yaml:"max_force_braking_per_speed"`
	// rolling against the selected direction faster than this cuts traction, m/s
	MaxReverseSpeed float64 `yaml:"max_reverse_speed"`

	Exponent   float64 `yaml:"exponent"`
	VoltageMin float64 `yaml:"voltage_min"`
}

type ThreePhaseUnitInputs struct {
	// m/s, signed
	WheelSpeed railsig.View[float64]
	// normalized to the reference force, positive
	TargetForce railsig.View[float64]
	Mode        railsig.View[Mode]
	Voltage     railsig.View[float64]
	// zero view means closed
	HighVoltageSwitch railsig.View[bool]
}

type ThreePhaseUnitState struct {
	ForceNormalized railsig.View[float64]
	// N
	WheelForce railsig.View[float64]
}

// signum of zero is +1
func signum(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// effectiveMode is the mode the unit can actually work in.
func (cfg ThreePhaseUnitConfig) effectiveMode(mode Mode, speed, voltage float64, hvClosed bool) Mode {
	if voltage < cfg.VoltageMin || !hvClosed || speed*mode.Sign() < -cfg.MaxReverseSpeed {
		return Off
	}
	return mode
}

// referenceForce is the force a normalized force of 1 stands for at speed.
func (cfg ThreePhaseUnitConfig) referenceForce(mode Mode, speed float64) float64 {
	if mode == Brake {
		return math.Min(cfg.MaxForceBrakingPerSpeed*math.Abs(speed), cfg.MaxForceBraking)
	}
	return math.Min(cfg.MaxPowerAcceleration/math.Max(math.Abs(speed), 0.001), cfg.MaxForceAcceleration)
}

// ThreePhaseUnit follows the target force with a first order lag, limited by
// the force and power curves of the motor. In Brake the force opposes the
// wheel speed.
func ThreePhaseUnit(cfg ThreePhaseUnitConfig, in ThreePhaseUnitInputs) ThreePhaseUnitState {
	normalized := railsig.NewCell(0.0)
	wheelForce := railsig.NewCell(0.0)

	railsig.Loop(func() {
		speed := in.WheelSpeed.Get()
		hvClosed := !in.HighVoltageSwitch.Valid() || in.HighVoltageSwitch.Get()
		mode := cfg.effectiveMode(in.Mode.Get(), speed, in.Voltage.Get(), hvClosed)

		force := 0.0
		switch mode {
		case Forward, Backward:
			force = elements.Approach(normalized.Get(), cfg.Exponent, in.TargetForce.Get()*mode.Sign(), railsig.Delta())
		case Brake:
			force = elements.Approach(normalized.Get(), cfg.Exponent, -in.TargetForce.Get()*signum(speed), railsig.Delta())
		}

		normalized.SetIfChanged(force)
		wheelForce.SetIfChanged(force * cfg.referenceForce(mode, speed))
	})

	return ThreePhaseUnitState{
		ForceNormalized: normalized.View(),
		WheelForce:      wheelForce.View(),
	}
}
