package cockpit

import (
	"fmt"
	"math"

	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/host"
)

// DriveMode is the operating mode of the Sollwertgeber.
type DriveMode int

const (
	ModeNeutral DriveMode = iota
	ModeEmergencyBrake
	ModeBrake
	ModeThrottle
)

func (m DriveMode) String() string {
	switch m {
	case ModeNeutral:
		return "Neutral"
	case ModeEmergencyBrake:
		return "EmergencyBrake"
	case ModeBrake:
		return "Brake"
	case ModeThrottle:
		return "Throttle"
	default:
		return fmt.Sprintf("DriveMode(%d)", int(m))
	}
}

// Notch is a zone of the handle travel, used for the click sounds.
type Notch int

const (
	NotchNeutral Notch = iota
	NotchEmergencyBrake
	NotchMaxBrake
	NotchBrake
	NotchMinBrake
	NotchMinThrottle
	NotchThrottle
	NotchMaxThrottle
)

func (n Notch) String() string {
	switch n {
	case NotchNeutral:
		return "Neutral"
	case NotchEmergencyBrake:
		return "EmergencyBrake"
	case NotchMaxBrake:
		return "MaxBrake"
	case NotchBrake:
		return "Brake"
	case NotchMinBrake:
		return "MinBrake"
	case NotchMinThrottle:
		return "MinThrottle"
	case NotchThrottle:
		return "Throttle"
	case NotchMaxThrottle:
		return "MaxThrottle"
	default:
		return fmt.Sprintf("Notch(%d)", int(n))
	}
}

// NotchAt returns the zone of a handle position. Every zone includes its
// lower bound; anything below MaxBrake, NaN included, is EmergencyBrake.
func NotchAt(pos float64) Notch {
	switch {
	case pos >= 0.97:
		return NotchMaxThrottle
	case pos >= 0.13:
		return NotchThrottle
	case pos >= 0.05:
		return NotchMinThrottle
	case pos >= -0.05:
		return NotchNeutral
	case pos >= -0.13:
		return NotchMinBrake
	case pos >= -0.87:
		return NotchBrake
	case pos >= -0.95:
		return NotchMaxBrake
	default:
		return NotchEmergencyBrake
	}
}

// Click is the sound a notch transition makes.
type Click int

const (
	ClickNone Click = iota
	ClickNeutral
	ClickEnd
	ClickOther
)

func (c Click) String() string {
	switch c {
	case ClickNone:
		return "None"
	case ClickNeutral:
		return "Neutral"
	case ClickEnd:
		return "End"
	case ClickOther:
		return "Other"
	default:
		return fmt.Sprintf("Click(%d)", int(c))
	}
}

// NotchClick returns the sound of moving the handle from one zone to another.
// Leaving an end stop and leaving neutral into the first zone are silent.
func NotchClick(from, to Notch) Click {
	switch {
	case from == to:
		return ClickNone
	case to == NotchNeutral:
		return ClickNeutral
	case from == NotchThrottle && to == NotchMaxThrottle,
		from == NotchBrake && to == NotchMaxBrake:
		return ClickEnd
	case from == NotchMaxThrottle && to == NotchThrottle,
		from == NotchMaxBrake && to == NotchBrake,
		from == NotchNeutral && to == NotchMinThrottle,
		from == NotchNeutral && to == NotchMinBrake:
		return ClickNone
	default:
		return ClickOther
	}
}

type SollwertgeberInputs struct {
	Throttle string
	Neutral  string
	Brake    string
	MaxBrake string
}

type NotchSounds struct {
	Neutral string
	End     string
	Other   string
}

type SollwertgeberConfig struct {
	// handle speeds in units per second
	Speed         float64 `yaml:"speed"`
	SpeedHigh     float64 `yaml:"speed_high"`
	SpeedVeryHigh float64 `yaml:"speed_very_high"`

	Inputs    SollwertgeberInputs `yaml:"-"`
	Animation string              `yaml:"-"`
	Sounds    NotchSounds         `yaml:"-"`
}

func DefaultSollwertgeberConfig() SollwertgeberConfig {
	return SollwertgeberConfig{
		Speed:         1,
		SpeedHigh:     5,
		SpeedVeryHigh: 20,
		Inputs: SollwertgeberInputs{
			Throttle: "Throttle",
			Neutral:  "Neutral",
			Brake:    "Brake",
			MaxBrake: "MaxBrake",
		},
		Animation: "A_CP_Sollwertgeber",
		Sounds: NotchSounds{
			Neutral: "Snd_CP_A_SWG_NotchNeutral",
			End:     "Snd_CP_A_SWG_End",
			Other:   "Snd_CP_A_SWG_NotchOther",
		},
	}
}

const (
	neutralBand  = 0.1
	throttleStep = 0.15
	brakeStep    = -0.15
	brakeFull    = -0.9
)

// SollwertgeberState is the handle as seen by the rest of the vehicle.
type SollwertgeberState struct {
	// in [-1, 1], positive is traction
	Position railsig.View[float64]
	Speed    railsig.View[float64]
	Target   railsig.View[float64]
	Mode     railsig.View[DriveMode]
	Notch    railsig.View[Notch]
}

type sollwertgeber struct {
	cfg  SollwertgeberConfig
	vars host.Variables

	position *railsig.Cell[float64]
	speed    *railsig.Cell[float64]
	target   *railsig.Cell[float64]
	mode     *railsig.Cell[DriveMode]
	notch    *railsig.Cell[Notch]
}

// Sollwertgeber is the combined throttle/brake handle. Presses of the
// Throttle, Brake and MaxBrake inputs are ignored while lock is true; Neutral
// always works. rwLock is written with whether the handle is off neutral, the
// reverser must not move then. A nil rwLock gets a fresh cell.
func Sollwertgeber(cfg SollwertgeberConfig, lock railsig.View[bool], rwLock *railsig.Cell[bool]) SollwertgeberState {
	s := &sollwertgeber{
		cfg:      cfg,
		vars:     railsig.Vars(),
		position: railsig.NewCell(0.0),
		speed:    railsig.NewCell(0.0),
		target:   railsig.NewCell(0.0),
		mode:     railsig.NewCell(ModeNeutral),
		notch:    railsig.NewCell(NotchNeutral),
	}

	if rwLock == nil {
		rwLock = railsig.NewCell(false)
	}
	railsig.Derive(rwLock, func() bool {
		return offNeutral(s.position.Get())
	})

	locked := func() bool { return lock.Valid() && lock.Get() }

	s.onRelease()
	s.onPress(cfg.Inputs.Brake, locked, s.brake)
	s.onPress(cfg.Inputs.Throttle, locked, s.throttle)
	s.onPress(cfg.Inputs.Neutral, func() bool { return false }, s.neutral)
	s.onPress(cfg.Inputs.MaxBrake, locked, s.maxBrake)
	s.integrate()

	return SollwertgeberState{
		Position: s.position.View(),
		Speed:    s.speed.View(),
		Target:   s.target.View(),
		Mode:     s.mode.View(),
		Notch:    s.notch.View(),
	}
}

func offNeutral(pos float64) bool {
	return pos < -neutralBand || pos >= neutralBand
}

func (s *sollwertgeber) onPress(input string, locked func() bool, fn func()) {
	railsig.Spawn(func(t *railsig.Task) {
		for {
			t.Await(railsig.JustPressed(input))
			if !locked() {
				railsig.Batch(fn)
			}
		}
	})
}

// releasing the handle leaves it where it is, or lets it spring into the
// first zone when it is close to neutral
func (s *sollwertgeber) onRelease() {
	in := s.cfg.Inputs

	railsig.Spawn(func(t *railsig.Task) {
		for {
			t.Await(
				railsig.JustReleased(in.Throttle),
				railsig.JustReleased(in.Neutral),
				railsig.JustReleased(in.Brake),
			)

			mode := s.mode.Get()
			if mode != ModeThrottle && mode != ModeBrake {
				continue
			}

			pos := s.position.Get()
			switch {
			case offNeutral(pos):
				s.target.SetIfChanged(pos)
				s.speed.SetIfChanged(0)
			case s.target.Get() > 0:
				s.target.SetIfChanged(neutralBand)
			default:
				s.target.SetIfChanged(-neutralBand)
			}
		}
	})
}

func (s *sollwertgeber) move(speed, target float64) {
	s.speed.SetIfChanged(speed)
	s.target.SetIfChanged(target)
}

func (s *sollwertgeber) brake() {
	pos := s.position.Get()

	switch s.mode.Get() {
	case ModeThrottle:
		if pos > throttleStep {
			s.move(-s.cfg.Speed, neutralBand)
		} else {
			s.move(-s.cfg.SpeedHigh, 0)
			s.mode.SetIfChanged(ModeNeutral)
		}
	case ModeNeutral:
		s.move(-s.cfg.Speed, brakeFull)
		s.mode.SetIfChanged(ModeBrake)
	case ModeBrake:
		if pos > brakeFull {
			s.move(-s.cfg.Speed, brakeFull)
		}
	}
}

func (s *sollwertgeber) throttle() {
	pos := s.position.Get()

	switch s.mode.Get() {
	case ModeThrottle, ModeNeutral:
		s.move(s.cfg.Speed, 1)
		s.mode.SetIfChanged(ModeThrottle)
	case ModeBrake, ModeEmergencyBrake:
		if pos < brakeStep {
			s.move(s.cfg.Speed, -neutralBand)
			if pos < brakeFull {
				s.position.SetIfChanged(brakeFull)
			}
			s.mode.SetIfChanged(ModeBrake)
		} else {
			s.move(s.cfg.SpeedHigh, 0)
			s.mode.SetIfChanged(ModeNeutral)
		}
	}
}

func (s *sollwertgeber) neutral() {
	if s.position.Get() > 0 {
		s.move(-s.cfg.SpeedHigh, 0)
	} else {
		s.move(s.cfg.SpeedHigh, 0)
	}
	s.mode.SetIfChanged(ModeNeutral)
}

func (s *sollwertgeber) maxBrake() {
	s.move(-s.cfg.SpeedVeryHigh, -1)
	s.mode.SetIfChanged(ModeEmergencyBrake)
}

// integrate moves the handle towards its target once per tick and stops it there.
func (s *sollwertgeber) integrate() {
	setFloat(s.vars, s.cfg.Animation, 0)

	railsig.Loop(func() {
		speed := s.speed.Get()
		target := s.target.Get()

		pos := s.position.Get() + speed*railsig.Delta()
		if upper := math.Min(target, 1); speed > 0 && pos > upper {
			pos = upper
			s.speed.SetIfChanged(0)
		}
		if lower := math.Max(target, -1); speed < 0 && pos < lower {
			pos = lower
			s.speed.SetIfChanged(0)
		}

		s.position.SetIfChanged(pos)
		setFloat(s.vars, s.cfg.Animation, pos)

		s.click(NotchAt(pos))
	})
}

func (s *sollwertgeber) click(next Notch) {
	prev := s.notch.Get()
	if prev == next {
		return
	}

	switch NotchClick(prev, next) {
	case ClickNeutral:
		trigger(s.vars, s.cfg.Sounds.Neutral)
	case ClickEnd:
		trigger(s.vars, s.cfg.Sounds.End)
	case ClickOther:
		trigger(s.vars, s.cfg.Sounds.Other)
	}

	s.notch.Set(next)
}
