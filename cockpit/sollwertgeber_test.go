package cockpit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/host"
)

func ticks(n int, dt float64) {
	for range n {
		railsig.Tick(dt)
	}
}

func newSollwertgeber(t *testing.T, locked bool) (SollwertgeberState, *host.Memory, *railsig.Cell[bool], *railsig.Cell[bool]) {
	t.Helper()

	mem := host.NewMemory()
	railsig.BindVars(mem)

	lock := railsig.NewCell(locked)
	rwLock := railsig.NewCell(false)

	return Sollwertgeber(DefaultSollwertgeberConfig(), lock.View(), rwLock), mem, lock, rwLock
}

func TestNotchClick(t *testing.T) {
	cases := []struct {
		from, to Notch
		click    Click
	}{
		{NotchNeutral, NotchMinThrottle, ClickNone},
		{NotchNeutral, NotchMinBrake, ClickNone},
		{NotchMinThrottle, NotchNeutral, ClickNeutral},
		{NotchThrottle, NotchNeutral, ClickNeutral},
		{NotchThrottle, NotchMaxThrottle, ClickEnd},
		{NotchBrake, NotchMaxBrake, ClickEnd},
		{NotchMaxThrottle, NotchThrottle, ClickNone},
		{NotchMaxBrake, NotchBrake, ClickNone},
		{NotchMinThrottle, NotchThrottle, ClickOther},
		{NotchMaxBrake, NotchEmergencyBrake, ClickOther},
		{NotchMinBrake, NotchBrake, ClickOther},
		{NotchBrake, NotchBrake, ClickNone},
	}

	for _, c := range cases {
		t.Run(c.from.String()+" to "+c.to.String(), func(t *testing.T) {
			assert.Equal(t, c.click, NotchClick(c.from, c.to))
		})
	}
}

func TestNotchAt(t *testing.T) {
	assert.Equal(t, NotchEmergencyBrake, NotchAt(-1))
	assert.Equal(t, NotchMaxBrake, NotchAt(-0.95))
	assert.Equal(t, NotchMaxBrake, NotchAt(-0.9))
	assert.Equal(t, NotchBrake, NotchAt(-0.87))
	assert.Equal(t, NotchMinBrake, NotchAt(-0.1))
	assert.Equal(t, NotchNeutral, NotchAt(0))
	assert.Equal(t, NotchMinThrottle, NotchAt(0.05))
	assert.Equal(t, NotchThrottle, NotchAt(0.5))
	assert.Equal(t, NotchMaxThrottle, NotchAt(1))
	assert.Equal(t, "DriveMode(9)", DriveMode(9).String())
}

func TestSollwertgeber(t *testing.T) {
	t.Run("throttle ramps to full and stops", func(t *testing.T) {
		swg, mem, _, rwLock := newSollwertgeber(t, false)

		railsig.Press("Throttle", railsig.AnyCockpit)
		ticks(1, 0.1)
		assert.Equal(t, ModeThrottle, swg.Mode.Get())
		assert.Equal(t, 1.0, swg.Target.Get())
		assert.Equal(t, 1.0, swg.Speed.Get())
		assert.InDelta(t, 0.1, swg.Position.Get(), 1e-12)

		ticks(19, 0.1)
		assert.Equal(t, 1.0, swg.Position.Get())
		assert.Equal(t, 0.0, swg.Speed.Get())
		assert.Equal(t, NotchMaxThrottle, swg.Notch.Get())
		assert.Equal(t, 1.0, mem.Float("A_CP_Sollwertgeber"))
		assert.True(t, rwLock.Get())

		assert.Equal(t, 1, mem.Writes("Snd_CP_A_SWG_End"))
		assert.Equal(t, 1, mem.Writes("Snd_CP_A_SWG_NotchOther"))
		assert.Equal(t, 0, mem.Writes("Snd_CP_A_SWG_NotchNeutral"))
	})

	t.Run("max brake", func(t *testing.T) {
		swg, _, _, _ := newSollwertgeber(t, false)

		railsig.Press("MaxBrake", railsig.AnyCockpit)
		ticks(1, 0.01)

		assert.Equal(t, ModeEmergencyBrake, swg.Mode.Get())
		assert.Equal(t, -1.0, swg.Target.Get())
		assert.Equal(t, -20.0, swg.Speed.Get())

		ticks(10, 0.01)
		assert.Equal(t, -1.0, swg.Position.Get())
		assert.Equal(t, NotchEmergencyBrake, swg.Notch.Get())
	})

	t.Run("lock blocks all but neutral", func(t *testing.T) {
		swg, _, lock, _ := newSollwertgeber(t, true)

		railsig.Press("Throttle", railsig.AnyCockpit)
		railsig.Press("Brake", railsig.AnyCockpit)
		railsig.Press("MaxBrake", railsig.AnyCockpit)
		ticks(5, 0.1)

		assert.Equal(t, ModeNeutral, swg.Mode.Get())
		assert.Equal(t, 0.0, swg.Position.Get())

		lock.Set(false)
		railsig.Release("Brake", railsig.AnyCockpit)
		ticks(1, 0.1)
		railsig.Press("Brake", railsig.AnyCockpit)
		ticks(1, 0.1)

		assert.Equal(t, ModeBrake, swg.Mode.Get())
		assert.Equal(t, -0.9, swg.Target.Get())
		assert.Equal(t, -1.0, swg.Speed.Get())
	})

	t.Run("release off neutral holds the position", func(t *testing.T) {
		swg, _, _, rwLock := newSollwertgeber(t, false)

		railsig.Press("Throttle", railsig.AnyCockpit)
		ticks(5, 0.1)
		railsig.Release("Throttle", railsig.AnyCockpit)
		ticks(5, 0.1)

		assert.InDelta(t, 0.5, swg.Position.Get(), 1e-9)
		assert.Equal(t, swg.Position.Get(), swg.Target.Get())
		assert.Equal(t, 0.0, swg.Speed.Get())
		assert.True(t, rwLock.Get())
	})

	t.Run("release near neutral springs into the first notch", func(t *testing.T) {
		swg, _, _, rwLock := newSollwertgeber(t, false)

		railsig.Press("Throttle", railsig.AnyCockpit)
		ticks(1, 0.05)
		assert.False(t, rwLock.Get())

		railsig.Release("Throttle", railsig.AnyCockpit)
		ticks(3, 0.05)

		assert.Equal(t, 0.1, swg.Target.Get())
		assert.Equal(t, 0.1, swg.Position.Get())
		assert.Equal(t, 0.0, swg.Speed.Get())
		assert.True(t, rwLock.Get())
	})

	t.Run("neutral returns the handle", func(t *testing.T) {
		swg, mem, _, rwLock := newSollwertgeber(t, false)

		railsig.Press("Throttle", railsig.AnyCockpit)
		ticks(5, 0.1)
		railsig.Release("Throttle", railsig.AnyCockpit)
		railsig.Press("Neutral", railsig.AnyCockpit)
		ticks(1, 0.1)

		assert.Equal(t, ModeNeutral, swg.Mode.Get())
		assert.Equal(t, 0.0, swg.Target.Get())
		assert.Equal(t, -5.0, swg.Speed.Get())
		assert.InDelta(t, 0.0, swg.Position.Get(), 1e-12)

		ticks(1, 0.1)
		assert.Equal(t, 0.0, swg.Position.Get())
		assert.Equal(t, 0.0, swg.Speed.Get())
		assert.False(t, rwLock.Get())
		assert.Equal(t, 1, mem.Writes("Snd_CP_A_SWG_NotchNeutral"))
	})

	t.Run("throttle out of emergency brake", func(t *testing.T) {
		swg, _, _, _ := newSollwertgeber(t, false)

		railsig.Press("MaxBrake", railsig.AnyCockpit)
		ticks(10, 0.1)
		assert.Equal(t, -1.0, swg.Position.Get())

		railsig.Press("Throttle", railsig.AnyCockpit)
		ticks(1, 0.1)

		assert.Equal(t, ModeBrake, swg.Mode.Get())
		assert.Equal(t, -0.1, swg.Target.Get())
		assert.InDelta(t, -0.8, swg.Position.Get(), 1e-12)
	})

	t.Run("brake from throttle", func(t *testing.T) {
		swg, _, _, _ := newSollwertgeber(t, false)

		railsig.Press("Throttle", railsig.AnyCockpit)
		ticks(5, 0.1)
		railsig.Release("Throttle", railsig.AnyCockpit)
		ticks(1, 0.1)
		railsig.Press("Brake", railsig.AnyCockpit)
		ticks(1, 0.1)

		assert.Equal(t, ModeThrottle, swg.Mode.Get())
		assert.Equal(t, 0.1, swg.Target.Get())
		assert.Equal(t, -1.0, swg.Speed.Get())
	})
}
