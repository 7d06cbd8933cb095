package vehicle

import (
	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/cockpit"
	"github.com/AnatoleLucet/railsig/elements"
	"github.com/AnatoleLucet/railsig/host"
)

// LightInputs switch the lights. Zero views are off.
type LightInputs struct {
	Fahrgastraum     railsig.View[bool]
	Stand            railsig.View[bool]
	Abblend          railsig.View[bool]
	Fern             railsig.View[bool]
	Rueck            railsig.View[bool]
	Rueckfahr        railsig.View[bool]
	Brems            railsig.View[bool]
	CockpitMain      railsig.View[bool]
	CockpitBegleiter railsig.View[bool]
	Instrumente      railsig.View[bool]

	BlinkerLeft  railsig.View[bool]
	BlinkerRight railsig.View[bool]
}

type LightsState struct {
	Inputs LightInputs

	// the blinking outputs
	BlinkerLeft  railsig.View[bool]
	BlinkerRight railsig.View[bool]
}

type light struct {
	in       railsig.View[bool]
	variable string
}

func (l LightInputs) lights() []light {
	return []light{
		{l.Fahrgastraum, "Fahrgastraumbeleuchtung"},
		{l.Stand, "Standlicht"},
		{l.Abblend, "Abblendlicht"},
		{l.Fern, "Fernlicht"},
		{l.Rueck, "Ruecklicht"},
		{l.Rueckfahr, "Rueckfahrlicht"},
		{l.Brems, "Bremslicht"},
		{l.CockpitMain, "A_CP_FstBelMain"},
		{l.CockpitBegleiter, "A_CP_FstBelBegleiter"},
		{l.Instrumente, "A_CP_InstrBel"},
	}
}

// Lights drives every light variable with voltage while its input is on,
// now and once per tick. The blinkers share one relay.
func Lights(blink elements.BlinkConfig, voltage railsig.View[float64], in LightInputs) LightsState {
	vars := railsig.Vars()
	lights := in.lights()

	update := func() {
		for _, l := range lights {
			setLight(vars, l.variable, l.in, voltage)
		}
	}
	update()
	railsig.Loop(update)

	blinkers := elements.BlinkRelayMultipleEntries(blink, []elements.BlinkEntry{
		{Set: orFalse(in.BlinkerLeft), LightAndSound: elements.LightAndSound{Light: "Blinker_L", Sound: "Snd_Blinker"}},
		{Set: orFalse(in.BlinkerRight), LightAndSound: elements.LightAndSound{Light: "Blinker_R", Sound: "Snd_Blinker"}},
	})

	return LightsState{
		Inputs:       in,
		BlinkerLeft:  blinkers[0],
		BlinkerRight: blinkers[1],
	}
}

func setLight(vars host.Variables, variable string, on railsig.View[bool], voltage railsig.View[float64]) {
	v := 0.0
	if on.Valid() && on.Get() {
		v = voltage.Get()
	}
	vars.SetFloat(variable, v)
}

func orFalse(v railsig.View[bool]) railsig.View[bool] {
	if v.Valid() {
		return v
	}
	return railsig.Const(false)
}

// lightInputs derives the light switches from the cockpit and the brake demand.
func lightInputs(c CockpitState, t TractionState) LightInputs {
	is := func(f func(cockpit.LightSwitch) bool) railsig.View[bool] {
		return elements.Converter(c.LightSwitch, f, nil)
	}

	return LightInputs{
		Fahrgastraum:     railsig.Const(true),
		Stand:            is(func(l cockpit.LightSwitch) bool { return l != cockpit.LightOff }),
		Abblend:          is(func(l cockpit.LightSwitch) bool { return l == cockpit.LightAbblend || l == cockpit.LightFern }),
		Fern:             is(func(l cockpit.LightSwitch) bool { return l == cockpit.LightFern }),
		Rueck:            is(func(l cockpit.LightSwitch) bool { return l != cockpit.LightOff }),
		Rueckfahr:        elements.Converter(c.Richtungswender, func(r cockpit.Reverser) bool { return r == cockpit.ReverserR }, nil),
		Brems:            elements.Converter(t.Demand.Brake, func(b float64) bool { return b > 0 }, nil),
		CockpitMain:      railsig.Const(true),
		CockpitBegleiter: railsig.Const(false),
		Instrumente:      is(func(l cockpit.LightSwitch) bool { return l != cockpit.LightOff }),
		BlinkerLeft:      elements.Converter(c.Blinker, func(b cockpit.BlinkerSwitch) bool { return b == cockpit.BlinkerLeft }, nil),
		BlinkerRight:     elements.Converter(c.Blinker, func(b cockpit.BlinkerSwitch) bool { return b == cockpit.BlinkerRight }, nil),
	}
}
