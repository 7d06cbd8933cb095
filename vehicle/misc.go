package vehicle

import (
	"fmt"

	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/cockpit"
	"github.com/AnatoleLucet/railsig/config"
	"github.com/AnatoleLucet/railsig/elements"
)

type MiscState struct {
	Bell railsig.View[bool]
}

// Misc rings the bell while bell is true.
func Misc(bell railsig.View[bool]) MiscState {
	elements.StartLoopStopSound(elements.Sound{
		Loop: "Snd_Klingel_Loop",
		Stop: "Snd_Klingel_End",
	}, bell)

	return MiscState{Bell: bell}
}

type PassengerState struct {
	DoorButtons []railsig.View[bool]
}

// DoorButtonCount is the number of passenger door buttons, DoorButton1 to DoorButton4.
const DoorButtonCount = 4

func PassengerElements(cfg config.Passenger) PassengerState {
	var s PassengerState

	for i := range DoorButtonCount {
		s.DoorButtons = append(s.DoorButtons, cockpit.TimedButton(cockpit.TimedButtonConfig{
			Input:   fmt.Sprintf("DoorButton%d", i+1),
			OnTime:  cfg.DoorButtonOnTime,
			Lockout: cfg.DoorButtonLockout,
		}))
	}

	return s
}
