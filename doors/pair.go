package doors

import (
	"math"

	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/host"
)

// PlugDoorPairConfig holds the mechanics of a door pair. Speeds are in door
// travel per second, the travel going from 0 (closed) to 1 (open).
type PlugDoorPairConfig struct {
	PlugRadius    float64 `yaml:"plug_radius"`
	ShiftDistance float64 `yaml:"shift_distance"`

	// deceleration while the motor has no energy
	Friction float64 `yaml:"friction"`

	OpenStartSpeed     float64 `yaml:"open_start_speed"`
	OpenEndSpeed       float64 `yaml:"open_end_speed"`
	OpenChangePosition float64 `yaml:"open_change_position"`

	CloseStartSpeed     float64 `yaml:"close_start_speed"`
	CloseEndSpeed       float64 `yaml:"close_end_speed"`
	CloseChangePosition float64 `yaml:"close_change_position"`

	Stiffness       float64 `yaml:"stiffness"`
	ReflectionOpen  float64 `yaml:"reflection_open"`
	ReflectionClose float64 `yaml:"reflection_close"`

	Sounds PairSounds    `yaml:"-"`
	Vars   PairVariables `yaml:"-"`
}

// PairSounds are triggered as the door passes the matching point. Empty names are skipped.
type PairSounds struct {
	OpenStart       string
	OpenTransition  string
	OpenEnd         string
	CloseStart      string
	CloseTransition string
	CloseEnd        string
}

// PairVariables receive the door geometry every tick.
type PairVariables struct {
	RailX  string
	BladeA string
	BladeB string
}

type PlugDoorPairState struct {
	// travel in [0, 1]
	Travel railsig.View[float64]
	Speed  railsig.View[float64]

	RailX    railsig.View[float64]
	BladeA   railsig.View[float64]
	BladeB   railsig.View[float64]
	Position railsig.View[Position]
}

const (
	// below this travel the blades move on the plug arc
	plugTravel = 0.1

	closedBelow = 0.01
	openAbove   = 0.99
)

type pairEvent int

const (
	eventOpenStart pairEvent = 1 << iota
	eventOpenTransition
	eventOpenEnd
	eventCloseStart
	eventCloseTransition
	eventCloseEnd
)

// pair is the door mechanics without any runtime attached.
type pair struct {
	cfg      PlugDoorPairConfig
	position float64
	speed    float64
}

// step integrates dt seconds of motion towards target and reports the
// sound events passed on the way.
func (p *pair) step(target Target, dt float64) pairEvent {
	var events pairEvent

	moving := p.speed != 0 ||
		(target == Open && p.position < 1) ||
		(target == Close && p.position > 0)
	if !moving {
		return 0
	}

	var acc float64
	switch target {
	case Open:
		if p.position < closedBelow && p.speed <= 0 {
			events |= eventOpenStart
		}
		want := p.cfg.OpenEndSpeed
		if p.position < p.cfg.OpenChangePosition {
			want = p.cfg.OpenStartSpeed
		}
		acc = (want - p.speed) * p.cfg.Stiffness
	case Close:
		if p.position > plugTravel && p.speed >= 0 {
			events |= eventCloseStart
		}
		want := -p.cfg.CloseEndSpeed
		if p.position > p.cfg.CloseChangePosition {
			want = -p.cfg.CloseStartSpeed
		}
		acc = (want - p.speed) * p.cfg.Stiffness
	default:
		switch {
		case p.speed > 0:
			acc = -p.cfg.Friction
		case p.speed < 0:
			acc = p.cfg.Friction
		}
	}

	// friction and the motor stop the door, they never reverse it within a step
	speed := p.speed + acc*dt
	if speed*p.speed < 0 {
		speed = 0
	}
	p.speed = speed

	next := p.position + p.speed*dt

	if next < plugTravel && p.position >= plugTravel && p.speed < 0 {
		events |= eventCloseTransition
	}
	if next > plugTravel && p.position <= plugTravel && p.speed > 0 {
		events |= eventOpenTransition
	}
	if next < closedBelow && p.position >= closedBelow {
		events |= eventCloseEnd
	}

	switch {
	case next > 1:
		next = 1
		p.speed = -p.speed * p.cfg.ReflectionOpen
		events |= eventOpenEnd
	case next < 0:
		next = 0
		p.speed = -p.speed * p.cfg.ReflectionClose
	}

	p.position = next
	return events
}

// geometry returns the rail deflection and the blade shift of the current travel.
func (p *pair) geometry() (x, y float64) {
	r := p.cfg.PlugRadius

	if p.position < plugTravel {
		arc := p.position * 5 * math.Pi
		return r * math.Sin(arc), r * (1 - math.Cos(arc))
	}

	return r, (p.position-plugTravel)/(1-plugTravel)*p.cfg.ShiftDistance + r
}

func (p *pair) state() Position {
	switch {
	case p.position < closedBelow:
		return FullyClosed
	case p.position > openAbove:
		return FullyOpen
	default:
		return InTransition
	}
}

// PlugDoorPair runs a door pair driven towards target, once per tick.
func PlugDoorPair(cfg PlugDoorPairConfig, target railsig.View[Target]) PlugDoorPairState {
	vars := railsig.Vars()
	p := &pair{cfg: cfg}

	travel := railsig.NewCell(0.0)
	speed := railsig.NewCell(0.0)
	railX := railsig.NewCell(0.0)
	bladeA := railsig.NewCell(0.0)
	bladeB := railsig.NewCell(0.0)
	position := railsig.NewCell(FullyClosed)

	publish := func(events pairEvent) {
		playSounds(vars, cfg.Sounds, events)

		x, y := p.geometry()
		railX.SetIfChanged(x)
		bladeA.SetIfChanged(y)
		bladeB.SetIfChanged(-y)
		setFloat(vars, cfg.Vars.RailX, x)
		setFloat(vars, cfg.Vars.BladeA, y)
		setFloat(vars, cfg.Vars.BladeB, -y)

		travel.SetIfChanged(p.position)
		speed.SetIfChanged(p.speed)
		position.SetIfChanged(p.state())
	}

	publish(0)
	railsig.Loop(func() {
		publish(p.step(target.Get(), railsig.Delta()))
	})

	return PlugDoorPairState{
		Travel:   travel.View(),
		Speed:    speed.View(),
		RailX:    railX.View(),
		BladeA:   bladeA.View(),
		BladeB:   bladeB.View(),
		Position: position.View(),
	}
}

func playSounds(vars host.Variables, s PairSounds, events pairEvent) {
	for _, e := range []struct {
		event pairEvent
		sound string
	}{
		{eventOpenStart, s.OpenStart},
		{eventOpenTransition, s.OpenTransition},
		{eventOpenEnd, s.OpenEnd},
		{eventCloseStart, s.CloseStart},
		{eventCloseTransition, s.CloseTransition},
		{eventCloseEnd, s.CloseEnd},
	} {
		if events&e.event != 0 {
			trigger(vars, e.sound)
		}
	}
}
