package vehicle

import (
	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/cockpit"
	"github.com/AnatoleLucet/railsig/config"
)

// panel buttons only answer edges from this cockpit
const driverCockpit = 0

type CockpitState struct {
	Richtungswender railsig.View[cockpit.Reverser]
	Sollwertgeber   cockpit.SollwertgeberState
	// true while the handle is off neutral
	ReverserLock railsig.View[bool]

	MainSwitch          railsig.View[bool]
	Lightcheck          railsig.View[bool]
	SpringBrakeOverride railsig.View[bool]
	SpringBrakeLamp     railsig.View[bool]

	Blinker     railsig.View[cockpit.BlinkerSwitch]
	LightSwitch railsig.View[cockpit.LightSwitch]
	DoorSwitch  railsig.View[cockpit.DoorSwitch]
	Bell        railsig.View[bool]
}

// Cockpit builds the driver's desk. voltage feeds the indicator lamps.
func Cockpit(cfg config.Vehicle, voltage railsig.View[float64]) CockpitState {
	var s CockpitState

	rwLock := railsig.NewCell(false)
	s.Richtungswender = cockpit.Richtungswender(cockpit.DefaultRichtungswenderConfig(), rwLock.View())

	// the handle only leaves neutral with a direction selected
	notReady := railsig.NewCell(true)
	railsig.Derive(notReady, func() bool { return !s.Richtungswender.Get().Driving() })
	s.Sollwertgeber = cockpit.Sollwertgeber(cfg.Sollwertgeber, notReady.View(), rwLock)
	s.ReverserLock = rwLock.View()

	s.MainSwitch = mainSwitch()

	s.Lightcheck = cockpit.Button(cockpit.ButtonConfig{
		Input:     "Lightcheck",
		Animation: "A_CP_TS_Lampentest",
		SoundOn:   "Snd_CP_A_BtnDn",
		SoundOff:  "Snd_CP_A_BtnUp",
		Cockpit:   driverCockpit,
	})
	s.SpringBrakeOverride = cockpit.Button(cockpit.ButtonConfig{
		Input:     "FspDeactiveToggle",
		Animation: "A_CP_TS_Fsp",
		SoundOn:   "Snd_CP_A_BtnDn",
		SoundOff:  "Snd_CP_A_BtnUp",
		Cockpit:   driverCockpit,
	})

	lamp := cockpit.IndicatorLight("A_LM_FSp", s.Lightcheck, voltage)
	railsig.Derive(lamp, func() bool {
		return s.Sollwertgeber.Mode.Get() == cockpit.ModeEmergencyBrake && !s.SpringBrakeOverride.Get()
	})
	s.SpringBrakeLamp = lamp.View()

	s.Blinker = cockpit.ComplexStepSwitch(cockpit.ComplexStepSwitchConfig[cockpit.BlinkerSwitch]{
		Plus:      "BlinkerRight",
		Minus:     "BlinkerLeft",
		Animation: "A_CP_SW_Blinker",
		Sound:     "Snd_CP_A_Switch",
	}, railsig.View[bool]{})
	s.LightSwitch = cockpit.ComplexStepSwitch(cockpit.ComplexStepSwitchConfig[cockpit.LightSwitch]{
		Plus:      "LightSwitchPlus",
		Minus:     "LightSwitchMinus",
		Animation: "A_CP_SW_Licht",
		Sound:     "Snd_CP_A_Switch",
	}, railsig.View[bool]{})
	s.DoorSwitch = cockpit.ComplexStepSwitch(cockpit.ComplexStepSwitchConfig[cockpit.DoorSwitch]{
		Plus:      "DoorSwitchPlus",
		Minus:     "DoorSwitchMinus",
		Animation: "A_CP_SW_Tueren",
		Sound:     "Snd_CP_A_Switch",
	}, railsig.View[bool]{})

	s.Bell = cockpit.Button(cockpit.ButtonConfig{
		Input:     "Bell",
		Animation: "A_CP_TS_Klingel",
		Cockpit:   driverCockpit,
	})

	return s
}

// mainSwitch latches the high voltage main switch from its spring loaded
// rocker. The minus side switches on.
func mainSwitch() railsig.View[bool] {
	closed := railsig.NewCell(true)

	rocker := cockpit.ButtonTwoSidedSpringLoaded(cockpit.ButtonTwoSidedConfig{
		Plus:      "HighVoltageMainSwitchOff",
		Minus:     "HighVoltageMainSwitchOn",
		Animation: "A_CP_SW_Hauptschalter",
		SoundOn:   "Snd_CP_A_RotBtnOn",
		SoundOff:  "Snd_CP_A_RotBtnOff",
	})

	rocker.OnChange(func(s cockpit.SpringLoaded) {
		switch s {
		case cockpit.SpringHoldOff:
			closed.SetIfChanged(true)
		case cockpit.SpringHoldOn:
			closed.SetIfChanged(false)
		}
	})

	return closed.View()
}
