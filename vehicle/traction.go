package vehicle

import (
	"math"

	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/cockpit"
	"github.com/AnatoleLucet/railsig/config"
	"github.com/AnatoleLucet/railsig/elements"
	"github.com/AnatoleLucet/railsig/traction"
)

type TractionState struct {
	Demand traction.DemandState
	Mode   railsig.View[traction.Mode]
	Unit   traction.ThreePhaseUnitState

	// handle in the emergency brake position
	Emergency  railsig.View[bool]
	Sanding    railsig.View[bool]
	RailBrakes []railsig.View[float64]
	// trailer bogie brake force, N
	TrailerBrake railsig.View[float64]
}

// Traction turns the handle into force demands: the motor bogie through the
// traction unit, the trailer bogie through its brake, and in emergency the
// rail brakes and sanding.
func Traction(cfg config.Traction, c CockpitState, speed railsig.View[float64]) TractionState {
	var s TractionState

	s.Demand = traction.Demand(cfg.Demand, c.Sollwertgeber.Position, c.Richtungswender)

	mode := railsig.NewCell(traction.Off)
	railsig.Derive(mode, func() traction.Mode {
		return traction.UnitMode(s.Demand.Traction.Get(), s.Demand.Brake.Get())
	})
	s.Mode = mode.View()

	target := railsig.NewCell(0.0)
	railsig.Derive(target, func() float64 {
		return math.Max(math.Abs(s.Demand.Traction.Get()), s.Demand.Brake.Get())
	})

	s.Unit = traction.ThreePhaseUnit(cfg.Unit, traction.ThreePhaseUnitInputs{
		WheelSpeed:        speed,
		TargetForce:       target.View(),
		Mode:              s.Mode,
		Voltage:           railsig.Const(cfg.Voltage),
		HighVoltageSwitch: c.MainSwitch,
	})
	elements.VarWriter("F_Traction_Bogie_N_0", s.Unit.WheelForce)

	s.Emergency = elements.Converter(c.Sollwertgeber.Mode, func(m cockpit.DriveMode) bool {
		return m == cockpit.ModeEmergencyBrake
	}, nil)

	s.Sanding = traction.SandingUnit(traction.SandingConfig{
		Sound: elements.Sound{Start: "Snd_Sand_Start", Loop: "Snd_Sand_Loop", Stop: "Snd_Sand_Stop"},
	}, s.Emergency)

	battery := railsig.Const(1.0)
	for bogie := range 2 {
		rb := cfg.RailBrake
		rb.Bogie = bogie
		if bogie == 0 {
			rb.SoundVolume = "Snd_RailBrake_Vol"
			rb.SoundPitch = "Snd_RailBrake_Pitch"
			rb.SoundControl = "Snd_RailBrake_On"
		}
		s.RailBrakes = append(s.RailBrakes, traction.RailBrake(rb, s.Emergency, battery, speed))
	}

	s.TrailerBrake = traction.BrakeCombination("MBrake_Axle_N_1_0", []traction.BrakeElement{{
		ReferenceForce: cfg.TrailerBrake.ReferenceForce,
		Exponent:       cfg.TrailerBrake.Exponent,
		Brake:          s.Demand.Brake,
	}})

	return s
}
