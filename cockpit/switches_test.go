package cockpit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/host"
)

func tap(name string) {
	railsig.Press(name, railsig.AnyCockpit)
	railsig.Tick(0.1)
	railsig.Release(name, railsig.AnyCockpit)
	railsig.Tick(0.1)
}

func TestRichtungswender(t *testing.T) {
	t.Run("steps through the positions", func(t *testing.T) {
		mem := host.NewMemory()
		railsig.BindVars(mem)

		lock := railsig.NewCell(false)
		rw := Richtungswender(DefaultRichtungswenderConfig(), lock.View())
		assert.Equal(t, ReverserO, rw.Get())

		log := []string{}
		rw.OnChange(func(r Reverser) { log = append(log, r.String()) })

		tap("ReverserPlus")
		tap("ReverserPlus")
		assert.Equal(t, 58.0, mem.Float("A_CP_Richtungswender"))
		tap("ReverserPlus")
		tap("ReverserPlus")
		tap("ReverserMinus")

		assert.Equal(t, []string{"I", "V", "R", "V"}, log)
		assert.Equal(t, 4, mem.Writes("Snd_CP_A_Reverser"))
	})

	t.Run("blocked while locked", func(t *testing.T) {
		railsig.BindVars(host.NewMemory())

		lock := railsig.NewCell(true)
		rw := Richtungswender(DefaultRichtungswenderConfig(), lock.View())

		tap("ReverserPlus")
		assert.Equal(t, ReverserO, rw.Get())

		lock.Set(false)
		tap("ReverserPlus")
		assert.Equal(t, ReverserI, rw.Get())
	})

	t.Run("handle off neutral locks the reverser", func(t *testing.T) {
		railsig.BindVars(host.NewMemory())

		rwLock := railsig.NewCell(false)
		rw := Richtungswender(DefaultRichtungswenderConfig(), rwLock.View())
		notReady := railsig.NewCell(true)
		railsig.Derive(notReady, func() bool { return !rw.Get().Driving() })
		Sollwertgeber(DefaultSollwertgeberConfig(), notReady.View(), rwLock)

		tap("ReverserPlus")
		tap("ReverserPlus")
		assert.Equal(t, ReverserV, rw.Get())

		railsig.Press("Throttle", railsig.AnyCockpit)
		for range 5 {
			railsig.Tick(0.1)
		}
		assert.True(t, rwLock.Get())

		tap("ReverserMinus")
		assert.Equal(t, ReverserV, rw.Get())
	})
}

func TestStepPositions(t *testing.T) {
	t.Run("ends of the range", func(t *testing.T) {
		assert.Equal(t, ReverserO, ReverserO.Previous())
		assert.Equal(t, ReverserR, ReverserR.Next())
		assert.Equal(t, BlinkerLeft, BlinkerLeft.Previous())
		assert.Equal(t, BlinkerRight, BlinkerOff.Next())
		assert.Equal(t, LightFern, LightFern.Next())
		assert.Equal(t, DoorTuer1, DoorClosed.Previous())
		assert.Equal(t, DoorOpen, DoorOpen.Next())
	})

	t.Run("angles", func(t *testing.T) {
		assert.Equal(t, 135.0, ReverserR.Angle())
		assert.Equal(t, 1.0, BlinkerOff.Angle())
		assert.Equal(t, 2.0, LightAbblend.Angle())
		assert.Equal(t, -1.0, DoorTuer1.Angle())
		assert.Equal(t, "Reverser(9)", Reverser(9).String())
	})

	t.Run("complex step switch", func(t *testing.T) {
		mem := host.NewMemory()
		railsig.BindVars(mem)

		sw := ComplexStepSwitch(ComplexStepSwitchConfig[BlinkerSwitch]{
			Plus:      "BlinkerRight",
			Minus:     "BlinkerLeft",
			Animation: "A_CP_Blinker",
			Sound:     "Snd_Switch",
		}, railsig.View[bool]{})

		assert.Equal(t, 1.0, mem.Float("A_CP_Blinker"))

		tap("BlinkerLeft")
		tap("BlinkerLeft")
		assert.Equal(t, BlinkerLeft, sw.Get())
		assert.Equal(t, 0.0, mem.Float("A_CP_Blinker"))
		assert.Equal(t, 1, mem.Writes("Snd_Switch"))
	})
}

func TestSwitches(t *testing.T) {
	t.Run("switch toggles", func(t *testing.T) {
		mem := host.NewMemory()
		railsig.BindVars(mem)

		sw := Switch(SwitchConfig{Input: "Bell", Animation: "A_Bell", Sound: "Snd_Switch", Initial: true})
		assert.True(t, sw.Get())
		assert.Equal(t, 1.0, mem.Float("A_Bell"))

		tap("Bell")
		assert.False(t, sw.Get())
		assert.Equal(t, 0.0, mem.Float("A_Bell"))
		assert.True(t, mem.Bool("Snd_Switch"))
	})

	t.Run("step switch stays in range", func(t *testing.T) {
		railsig.BindVars(host.NewMemory())

		sw := StepSwitch(StepSwitchConfig{Min: 0, Max: 2, Plus: "Up", Minus: "Down", Initial: 1})

		tap("Up")
		tap("Up")
		assert.Equal(t, 2, sw.Get())

		tap("Down")
		tap("Down")
		tap("Down")
		assert.Equal(t, 0, sw.Get())
	})

	t.Run("spring loaded minimum", func(t *testing.T) {
		railsig.BindVars(host.NewMemory())

		sw := StepSwitch(StepSwitchConfig{Min: -1, Max: 1, Plus: "Up", Minus: "Down", MinSpringLoaded: true})

		railsig.Press("Down", railsig.AnyCockpit)
		railsig.Tick(0.1)
		assert.Equal(t, -1, sw.Get())

		railsig.Release("Down", railsig.AnyCockpit)
		railsig.Tick(0.1)
		assert.Equal(t, 0, sw.Get())
	})
}
