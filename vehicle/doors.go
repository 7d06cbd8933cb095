package vehicle

import (
	"fmt"

	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/cockpit"
	"github.com/AnatoleLucet/railsig/config"
	"github.com/AnatoleLucet/railsig/doors"
	"github.com/AnatoleLucet/railsig/elements"
)

type DoorsInputs struct {
	Switch railsig.View[cockpit.DoorSwitch]
	// passenger request buttons, one per door, missing ones never request
	Buttons []railsig.View[bool]
	// m/s, positive
	Speed railsig.View[float64]
}

type DoorsState struct {
	Pairs    []doors.PlugDoorPairState
	Controls []doors.ControlState
	Closed   []railsig.View[bool]
	Requests []railsig.View[bool]

	// doors 2 and up are released
	Released railsig.View[bool]
	// door 1 is released, with the switch on Tuer1 it is the only one
	Door1Released railsig.View[bool]
	Door1Force    railsig.View[doors.ControlMode]

	AllClosed      railsig.View[bool]
	OutsideWarning railsig.View[bool]
}

// Door1ForceInput cycles the forced mode of door 1.
const Door1ForceInput = "Door1Force"

// Doors builds one door pair and controller per configured leaf, the warning
// lights and the outside warning relay.
func Doors(cfg config.Vehicle, in DoorsInputs) DoorsState {
	var s DoorsState

	active := railsig.Const(true)

	s.Released = elements.Converter(in.Switch, func(sw cockpit.DoorSwitch) bool {
		return sw == cockpit.DoorReleased || sw == cockpit.DoorOpen
	}, nil)
	s.Door1Released = elements.Converter(in.Switch, func(sw cockpit.DoorSwitch) bool {
		return sw == cockpit.DoorTuer1 || sw == cockpit.DoorReleased || sw == cockpit.DoorOpen
	}, nil)
	openAll := elements.Converter(in.Switch, func(sw cockpit.DoorSwitch) bool {
		return sw == cockpit.DoorOpen
	}, nil)
	s.Door1Force = door1Force(s.Door1Released)

	for i := range cfg.Doors.Leaves {
		n := i + 1

		pairCfg := cfg.Doors.PairConfig(i)
		pairCfg.Sounds = doors.PairSounds{
			OpenStart:       fmt.Sprintf("Snd_Door_%d_Open_Start", n),
			OpenEnd:         fmt.Sprintf("Snd_Door_%d_Open_End", n),
			CloseStart:      fmt.Sprintf("Snd_Door_%d_Close_Start", n),
			CloseTransition: fmt.Sprintf("Snd_Door_%d_Close_Trans", n),
			CloseEnd:        fmt.Sprintf("Snd_Door_%d_Close_End", n),
		}
		pairCfg.Vars = doors.PairVariables{
			RailX:  fmt.Sprintf("Door_%d_R", n),
			BladeA: fmt.Sprintf("Door_%d_1", n),
			BladeB: fmt.Sprintf("Door_%d_2", n),
		}

		requests := []railsig.View[bool]{openAll}
		if i < len(in.Buttons) {
			requests = append(requests, in.Buttons[i])
		}
		request := elements.Or(requests, nil)

		target := railsig.NewCell(doors.NoEnergy)
		pair := doors.PlugDoorPair(pairCfg, target.View())

		inputs := doors.ControlInputs{
			SystemActive: active,
			Request:      request,
			Released:     s.Released,
			Door:         pair.Position,
		}
		if i == 0 {
			inputs.Released = s.Door1Released
			inputs.Force = s.Door1Force
		}
		control := doors.Control(cfg.Doors.Control, inputs, target)

		s.Pairs = append(s.Pairs, pair)
		s.Controls = append(s.Controls, control)
		s.Requests = append(s.Requests, request)
		s.Closed = append(s.Closed, elements.Converter(pair.Position, func(p doors.Position) bool {
			return p == doors.FullyClosed
		}, nil))
	}

	s.AllClosed = elements.And(s.Closed, nil)

	warningLights(cfg.Blink.Inside, s)

	s.OutsideWarning = doors.WarningOutsideRelay(cfg.Doors.Outside, s.Door1Released, s.AllClosed, in.Speed)
	elements.VarWriter("Snd_Relais_Doorwarn", s.OutsideWarning)

	outside := elements.BlinkRelay(cfg.Blink.Outside, s.OutsideWarning, nil)
	elements.BoolToFloatVar("Door_1_WarnlightO", outside)
	elements.BoolToFloatVar("Door_234_WarnlightO", outside)

	return s
}

// door1Force cycles Automatic, Open, Close, Open, ... on every press of
// Door1ForceInput. Releasing door 1 puts it back to Automatic.
func door1Force(released railsig.View[bool]) railsig.View[doors.ControlMode] {
	force := railsig.NewCell(doors.Automatic)

	railsig.Spawn(func(t *railsig.Task) {
		for {
			switch t.Await(railsig.JustPressed(Door1ForceInput), released.Changed()) {
			case 0:
				if force.Get() == doors.ForceOpen {
					force.Set(doors.ForceClose)
				} else {
					force.Set(doors.ForceOpen)
				}
			case 1:
				if released.Get() {
					force.SetIfChanged(doors.Automatic)
				}
			}
		}
	})

	return force.View()
}

// warningLights blinks the inside warning light of every door that warns.
// Door 1 has its own relay and stays dark while forced.
func warningLights(cfg elements.BlinkConfig, s DoorsState) {
	if len(s.Controls) == 0 {
		return
	}

	automatic := elements.Converter(s.Door1Force, func(m doors.ControlMode) bool {
		return m == doors.Automatic
	}, nil)
	elements.BlinkRelayWithLightAndSound(cfg,
		elements.And([]railsig.View[bool]{automatic, s.Controls[0].Warning}, nil),
		elements.LightAndSound{Light: "Door_1_WarnlightI", Sound: "Snd_Door_1_Warning"},
	)

	var entries []elements.BlinkEntry
	for i, c := range s.Controls[1:] {
		n := i + 2
		entries = append(entries, elements.BlinkEntry{
			Set: c.Warning,
			LightAndSound: elements.LightAndSound{
				Light: fmt.Sprintf("Door_%d_WarnlightI", n),
				Sound: fmt.Sprintf("Snd_Door_%d_Warning", n),
			},
		})
	}
	elements.BlinkRelayMultipleEntries(cfg, entries)
}
