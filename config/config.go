// Package config holds the vehicle configuration: the handle speeds, the door
// mechanics and timing, the traction curves and the blink intervals. Files are
// YAML; every key is optional and falls back to the GT6N defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AnatoleLucet/railsig/cockpit"
	"github.com/AnatoleLucet/railsig/doors"
	"github.com/AnatoleLucet/railsig/elements"
	"github.com/AnatoleLucet/railsig/traction"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid vehicle configuration")

type Vehicle struct {
	Name string `yaml:"name"`

	Sollwertgeber cockpit.SollwertgeberConfig `yaml:"sollwertgeber"`
	Doors         Doors                       `yaml:"doors"`
	Traction      Traction                    `yaml:"traction"`
	Blink         Blink                       `yaml:"blink"`
	Passenger     Passenger                   `yaml:"passenger"`
}

type Doors struct {
	// shared by every door pair, the per-leaf values override it
	Pair   doors.PlugDoorPairConfig `yaml:"pair"`
	Leaves []DoorLeaf               `yaml:"leaves"`

	Control doors.ControlConfig        `yaml:"control"`
	Outside doors.WarningOutsideConfig `yaml:"outside"`
}

type DoorLeaf struct {
	OpenStartSpeed  float64 `yaml:"open_start_speed"`
	CloseStartSpeed float64 `yaml:"close_start_speed"`
	ReflectionOpen  float64 `yaml:"reflection_open"`
	ReflectionClose float64 `yaml:"reflection_close"`
}

// PairConfig returns the door pair configuration of leaf i.
func (d Doors) PairConfig(i int) doors.PlugDoorPairConfig {
	cfg := d.Pair
	leaf := d.Leaves[i]

	cfg.OpenStartSpeed = leaf.OpenStartSpeed
	cfg.CloseStartSpeed = leaf.CloseStartSpeed
	cfg.ReflectionOpen = leaf.ReflectionOpen
	cfg.ReflectionClose = leaf.ReflectionClose
	return cfg
}

type Traction struct {
	Demand traction.DemandConfig         `yaml:"demand"`
	Unit   traction.ThreePhaseUnitConfig `yaml:"unit"`
	// line voltage, V
	Voltage float64 `yaml:"voltage"`

	RailBrake    traction.RailBrakeConfig `yaml:"rail_brake"`
	TrailerBrake TrailerBrake             `yaml:"trailer_brake"`
}

// TrailerBrake is the brake of the unpowered bogie, following the brake demand.
type TrailerBrake struct {
	ReferenceForce float64 `yaml:"reference_force"`
	Exponent       float64 `yaml:"exponent"`
}

type Blink struct {
	// blinkers and the door warning lights inside
	Inside elements.BlinkConfig `yaml:"inside"`
	// door warning lights outside
	Outside elements.BlinkConfig `yaml:"outside"`
}

type Passenger struct {
	DoorButtonOnTime  float64 `yaml:"door_button_on_time"`
	DoorButtonLockout float64 `yaml:"door_button_lockout"`
}

// Default returns the GT6N configuration.
func Default() Vehicle {
	return Vehicle{
		Name:          "GT6N",
		Sollwertgeber: cockpit.DefaultSollwertgeberConfig(),
		Doors: Doors{
			Pair: doors.PlugDoorPairConfig{
				PlugRadius:          0.06,
				ShiftDistance:       0.58,
				Friction:            0.05,
				OpenEndSpeed:        0.3,
				OpenChangePosition:  0.6,
				CloseEndSpeed:       0.1,
				CloseChangePosition: 0.2,
				Stiffness:           4,
			},
			Leaves: []DoorLeaf{
				{OpenStartSpeed: 0.6, CloseStartSpeed: 0.5, ReflectionOpen: 0.03, ReflectionClose: 0.05},
				{OpenStartSpeed: 0.65, CloseStartSpeed: 0.45, ReflectionOpen: 0.05, ReflectionClose: 0.05},
				{OpenStartSpeed: 0.62, CloseStartSpeed: 0.42, ReflectionOpen: 0.05, ReflectionClose: 0.05},
				{OpenStartSpeed: 0.58, CloseStartSpeed: 0.48, ReflectionOpen: 0.03, ReflectionClose: 0.05},
			},
			Control: doors.ControlConfig{RequestTime: 6, WarningTime: 2},
			Outside: doors.WarningOutsideConfig{AfterClosed: 30, MaxSpeed: 3 / 3.6},
		},
		Traction: Traction{
			Demand: traction.DefaultDemandConfig(),
			Unit: traction.ThreePhaseUnitConfig{
				MaxForceAcceleration:    32_000,
				MaxPowerAcceleration:    400_000,
				MaxForceBraking:         30_000,
				MaxForceBrakingPerSpeed: 10_000,
				MaxReverseSpeed:         1,
				Exponent:                3,
				VoltageMin:              400,
			},
			Voltage: 600,
			RailBrake: traction.RailBrakeConfig{
				ReferenceForce:   45_000,
				MinVoltage:       0.7,
				SoundPitchBase:   0.8,
				SoundPitchPerMps: 0.05,
			},
			TrailerBrake: TrailerBrake{ReferenceForce: 60_000, Exponent: 2},
		},
		Blink: Blink{
			Inside:  elements.BlinkConfig{Interval: 0.777, OnTime: 0.388},
			Outside: elements.BlinkConfig{Interval: 0.393, OnTime: 0.196},
		},
		Passenger: Passenger{DoorButtonOnTime: 2, DoorButtonLockout: 1},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (Vehicle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vehicle{}, fmt.Errorf("read %s: %w", path, err)
	}

	v, err := Parse(data)
	if err != nil {
		return Vehicle{}, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Parse decodes data over the defaults and validates the result. Unknown keys are rejected.
func Parse(data []byte) (Vehicle, error) {
	v := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&v); err != nil && !errors.Is(err, io.EOF) {
		return Vehicle{}, fmt.Errorf("yaml decode: %w", err)
	}

	if err := v.Validate(); err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

// Validate reports every problem of the configuration at once.
func (v Vehicle) Validate() error {
	var problems []string

	positive := func(name string, value float64) {
		if value <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got %g", name, value))
		}
	}
	nonNegative := func(name string, value float64) {
		if value < 0 {
			problems = append(problems, fmt.Sprintf("%s must not be negative, got %g", name, value))
		}
	}

	positive("sollwertgeber.speed", v.Sollwertgeber.Speed)
	positive("sollwertgeber.speed_high", v.Sollwertgeber.SpeedHigh)
	positive("sollwertgeber.speed_very_high", v.Sollwertgeber.SpeedVeryHigh)

	p := v.Doors.Pair
	positive("doors.pair.plug_radius", p.PlugRadius)
	positive("doors.pair.shift_distance", p.ShiftDistance)
	nonNegative("doors.pair.friction", p.Friction)
	positive("doors.pair.open_end_speed", p.OpenEndSpeed)
	positive("doors.pair.close_end_speed", p.CloseEndSpeed)
	positive("doors.pair.stiffness", p.Stiffness)

	if len(v.Doors.Leaves) == 0 {
		problems = append(problems, "doors.leaves must not be empty")
	}
	for i, leaf := range v.Doors.Leaves {
		positive(fmt.Sprintf("doors.leaves[%d].open_start_speed", i), leaf.OpenStartSpeed)
		positive(fmt.Sprintf("doors.leaves[%d].close_start_speed", i), leaf.CloseStartSpeed)
		if leaf.ReflectionOpen < 0 || leaf.ReflectionOpen > 1 || leaf.ReflectionClose < 0 || leaf.ReflectionClose > 1 {
			problems = append(problems, fmt.Sprintf("doors.leaves[%d] reflections must be within [0, 1]", i))
		}
	}

	positive("doors.control.request_time", v.Doors.Control.RequestTime)
	positive("doors.control.warning_time", v.Doors.Control.WarningTime)
	positive("doors.outside.after_closed", v.Doors.Outside.AfterClosed)
	nonNegative("doors.outside.max_speed", v.Doors.Outside.MaxSpeed)

	u := v.Traction.Unit
	positive("traction.unit.max_force_acceleration", u.MaxForceAcceleration)
	positive("traction.unit.max_power_acceleration", u.MaxPowerAcceleration)
	positive("traction.unit.max_force_braking", u.MaxForceBraking)
	positive("traction.unit.exponent", u.Exponent)
	nonNegative("traction.voltage", v.Traction.Voltage)
	nonNegative("traction.rail_brake.reference_force", v.Traction.RailBrake.ReferenceForce)
	nonNegative("traction.trailer_brake.reference_force", v.Traction.TrailerBrake.ReferenceForce)
	positive("traction.trailer_brake.exponent", v.Traction.TrailerBrake.Exponent)

	positive("blink.inside.interval", v.Blink.Inside.Interval)
	positive("blink.outside.interval", v.Blink.Outside.Interval)

	positive("passenger.door_button_on_time", v.Passenger.DoorButtonOnTime)
	nonNegative("passenger.door_button_lockout", v.Passenger.DoorButtonLockout)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
