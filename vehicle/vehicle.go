// Package vehicle wires the controls, doors, traction, lights and passenger
// elements of a GT6N tram into one dataflow graph.
package vehicle

import (
	"math"

	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/config"
	"github.com/AnatoleLucet/railsig/elements"
)

// SpeedVariable is the host variable holding the signed axle speed in m/s.
const SpeedVariable = "v_Axle_mps_0_0"

// Vehicle holds the state aggregates of one car. Copying it copies handles.
type Vehicle struct {
	Cockpit   CockpitState
	Doors     DoorsState
	Traction  TractionState
	Lights    LightsState
	Misc      MiscState
	Passenger PassengerState

	// m/s, signed, read from the host
	Speed railsig.View[float64]
}

// New builds the vehicle on the current runtime. Everything it spawns is
// owned by the current owner.
func New(cfg config.Vehicle) *Vehicle {
	v := &Vehicle{}

	battery := railsig.Const(1.0)
	v.Speed = elements.VarReader[float64](SpeedVariable, nil)
	absSpeed := elements.Converter(v.Speed, math.Abs, nil)

	v.Passenger = PassengerElements(cfg.Passenger)
	v.Cockpit = Cockpit(cfg, battery)
	v.Doors = Doors(cfg, DoorsInputs{
		Switch:  v.Cockpit.DoorSwitch,
		Buttons: v.Passenger.DoorButtons,
		Speed:   absSpeed,
	})
	v.Traction = Traction(cfg.Traction, v.Cockpit, v.Speed)
	v.Lights = Lights(cfg.Blink.Inside, battery, lightInputs(v.Cockpit, v.Traction))
	v.Misc = Misc(v.Cockpit.Bell)

	return v
}
