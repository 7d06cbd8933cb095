// Package doors simulates electric sliding plug doors: the door pair
// mechanics, the per-door controller deciding whether a door should open,
// and the outside warning relay.
package doors

import (
	"fmt"

	"github.com/AnatoleLucet/railsig/host"
)

// Position is the coarse position of a door pair.
type Position int

const (
	InTransition Position = iota
	FullyOpen
	FullyClosed
)

func (p Position) String() string {
	switch p {
	case InTransition:
		return "InTransition"
	case FullyOpen:
		return "FullyOpen"
	case FullyClosed:
		return "FullyClosed"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// Target is what the door motor is driven towards.
type Target int

const (
	NoEnergy Target = iota
	Open
	Close
)

func (t Target) String() string {
	switch t {
	case NoEnergy:
		return "NoEnergy"
	case Open:
		return "Open"
	case Close:
		return "Close"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// ControlMode overrides the door controller.
type ControlMode int

const (
	Automatic ControlMode = iota
	ForceOpen
	ForceClose
)

func (m ControlMode) String() string {
	switch m {
	case Automatic:
		return "Automatic"
	case ForceOpen:
		return "Open"
	case ForceClose:
		return "Close"
	default:
		return fmt.Sprintf("ControlMode(%d)", int(m))
	}
}

func setFloat(vars host.Variables, name string, v float64) {
	if name != "" {
		vars.SetFloat(name, v)
	}
}

func trigger(vars host.Variables, name string) {
	if name != "" {
		host.Trigger(vars, name)
	}
}
