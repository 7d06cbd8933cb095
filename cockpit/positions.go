package cockpit

import "fmt"

// StepPosition is a discrete switch position. Next and Previous return the
// receiver at the ends of the range.
type StepPosition[T any] interface {
	comparable
	fmt.Stringer

	Next() T
	Previous() T
	// Angle is the animation value of the position.
	Angle() float64
}

// Reverser is the Richtungswender position.
type Reverser int

const (
	ReverserO Reverser = iota // off
	ReverserI                 // forward, not ready to drive
	ReverserV                 // forward
	ReverserR                 // reverse
)

func (r Reverser) Next() Reverser {
	switch r {
	case ReverserO:
		return ReverserI
	case ReverserI:
		return ReverserV
	case ReverserV, ReverserR:
		return ReverserR
	default:
		return ReverserO
	}
}

func (r Reverser) Previous() Reverser {
	switch r {
	case ReverserI:
		return ReverserO
	case ReverserV:
		return ReverserI
	case ReverserR:
		return ReverserV
	default:
		return ReverserO
	}
}

func (r Reverser) Angle() float64 {
	switch r {
	case ReverserI:
		return 29
	case ReverserV:
		return 58
	case ReverserR:
		return 135
	default:
		return 0
	}
}

// Driving reports whether the reverser selects a direction traction may use.
func (r Reverser) Driving() bool {
	return r == ReverserV || r == ReverserR
}

func (r Reverser) String() string {
	switch r {
	case ReverserO:
		return "O"
	case ReverserI:
		return "I"
	case ReverserV:
		return "V"
	case ReverserR:
		return "R"
	default:
		return fmt.Sprintf("Reverser(%d)", int(r))
	}
}

type BlinkerSwitch int

const (
	BlinkerOff BlinkerSwitch = iota
	BlinkerLeft
	BlinkerRight
)

func (b BlinkerSwitch) Next() BlinkerSwitch {
	switch b {
	case BlinkerLeft:
		return BlinkerOff
	case BlinkerOff, BlinkerRight:
		return BlinkerRight
	default:
		return BlinkerOff
	}
}

func (b BlinkerSwitch) Previous() BlinkerSwitch {
	switch b {
	case BlinkerRight:
		return BlinkerOff
	case BlinkerOff, BlinkerLeft:
		return BlinkerLeft
	default:
		return BlinkerOff
	}
}

func (b BlinkerSwitch) Angle() float64 {
	switch b {
	case BlinkerLeft:
		return 0
	case BlinkerRight:
		return 2
	default:
		return 1
	}
}

func (b BlinkerSwitch) String() string {
	switch b {
	case BlinkerOff:
		return "Off"
	case BlinkerLeft:
		return "Left"
	case BlinkerRight:
		return "Right"
	default:
		return fmt.Sprintf("BlinkerSwitch(%d)", int(b))
	}
}

// LightSwitch is the outside light switch.
type LightSwitch int

const (
	LightOff LightSwitch = iota
	LightStand
	LightAbblend
	LightFern
)

func (l LightSwitch) Next() LightSwitch {
	switch l {
	case LightOff:
		return LightStand
	case LightStand:
		return LightAbblend
	case LightAbblend, LightFern:
		return LightFern
	default:
		return LightOff
	}
}

func (l LightSwitch) Previous() LightSwitch {
	switch l {
	case LightAbblend:
		return LightStand
	case LightFern:
		return LightAbblend
	default:
		return LightOff
	}
}

func (l LightSwitch) Angle() float64 {
	switch l {
	case LightStand, LightAbblend, LightFern:
		return float64(l)
	default:
		return 0
	}
}

func (l LightSwitch) String() string {
	switch l {
	case LightOff:
		return "Off"
	case LightStand:
		return "Stand"
	case LightAbblend:
		return "Abblend"
	case LightFern:
		return "Fern"
	default:
		return fmt.Sprintf("LightSwitch(%d)", int(l))
	}
}

// DoorSwitch is the driver's door release switch.
type DoorSwitch int

const (
	DoorClosed DoorSwitch = iota
	DoorTuer1             // first door only
	DoorReleased
	DoorOpen
)

func (d DoorSwitch) Next() DoorSwitch {
	switch d {
	case DoorTuer1:
		return DoorClosed
	case DoorClosed:
		return DoorReleased
	case DoorReleased, DoorOpen:
		return DoorOpen
	default:
		return DoorClosed
	}
}

func (d DoorSwitch) Previous() DoorSwitch {
	switch d {
	case DoorOpen:
		return DoorReleased
	case DoorReleased:
		return DoorClosed
	case DoorClosed, DoorTuer1:
		return DoorTuer1
	default:
		return DoorClosed
	}
}

func (d DoorSwitch) Angle() float64 {
	switch d {
	case DoorTuer1:
		return -1
	case DoorReleased:
		return 1
	case DoorOpen:
		return 2
	default:
		return 0
	}
}

func (d DoorSwitch) String() string {
	switch d {
	case DoorClosed:
		return "Closed"
	case DoorTuer1:
		return "Tuer1"
	case DoorReleased:
		return "Released"
	case DoorOpen:
		return "Open"
	default:
		return fmt.Sprintf("DoorSwitch(%d)", int(d))
	}
}
