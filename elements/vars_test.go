package elements

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/host"
)

func TestVars(t *testing.T) {
	t.Run("reader polls the host", func(t *testing.T) {
		mem := host.NewMemory()
		railsig.BindVars(mem)

		mem.SetFloat("v_Axle_mps_0_1_abs", 3)
		speed := VarReader[float64]("v_Axle_mps_0_1_abs", nil)
		assert.Equal(t, 3.0, speed.Get())

		mem.SetFloat("v_Axle_mps_0_1_abs", 4)
		railsig.Tick(0.1)
		assert.Equal(t, 4.0, speed.Get())

		mem.SetBool("Voltage", true)
		voltage := VarReader[bool]("Voltage", nil)
		assert.True(t, voltage.Get())
	})

	t.Run("writer mirrors commits", func(t *testing.T) {
		mem := host.NewMemory()
		railsig.BindVars(mem)

		angle := railsig.NewCell(0.0)
		VarWriter("A_CP_Richtungswender", angle.View())
		assert.Equal(t, 0, mem.Writes("A_CP_Richtungswender"))

		angle.Set(29)
		angle.Set(29)
		assert.Equal(t, 29.0, mem.Float("A_CP_Richtungswender"))
		assert.Equal(t, 2, mem.Writes("A_CP_Richtungswender"))

		on := railsig.NewCell(false)
		VarWriter("Lamp", on.View())
		on.Set(true)
		assert.True(t, mem.Bool("Lamp"))
	})

	t.Run("bool to float writes the initial value once", func(t *testing.T) {
		mem := host.NewMemory()
		railsig.BindVars(mem)

		on := railsig.NewCell(true)
		BoolToFloatVar("Light", on.View())
		on.Set(true)

		assert.Equal(t, 1.0, mem.Float("Light"))
		assert.Equal(t, 1, mem.Writes("Light"))

		on.Set(false)
		assert.Equal(t, 0.0, mem.Float("Light"))
	})
}

func TestSound(t *testing.T) {
	t.Run("start loop stop", func(t *testing.T) {
		mem := host.NewMemory()
		railsig.BindVars(mem)

		active := railsig.NewCell(false)
		StartLoopStopSound(Sound{Start: "Start", Loop: "Loop", Stop: "Stop"}, active.View())

		active.Set(true)
		assert.True(t, mem.Bool("Start"))
		assert.True(t, mem.Bool("Loop"))
		assert.False(t, mem.Bool("Stop"))

		active.Set(true)
		assert.Equal(t, 1, mem.Writes("Start"))

		active.Set(false)
		assert.False(t, mem.Bool("Loop"))
		assert.True(t, mem.Bool("Stop"))
	})

	t.Run("start sound triggers on rising edges", func(t *testing.T) {
		mem := host.NewMemory()
		railsig.BindVars(mem)

		active := railsig.NewCell(false)
		StartSound("Snd_Bell_Start", active.View())

		active.Set(true)
		active.Set(false)
		active.Set(true)

		assert.Equal(t, 2, mem.Writes("Snd_Bell_Start"))
	})

	t.Run("loop sound follows", func(t *testing.T) {
		mem := host.NewMemory()
		railsig.BindVars(mem)

		active := railsig.NewCell(false)
		LoopSound("Snd_Bell", active.View())

		active.Set(true)
		assert.True(t, mem.Bool("Snd_Bell"))
		active.Set(false)
		assert.False(t, mem.Bool("Snd_Bell"))
	})
}

func TestLogger(t *testing.T) {
	t.Run("logs once per tick", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.Attr{}
				}
				return a
			},
		}))

		speed := railsig.NewCell(3)
		Logger(logger, "speed", speed.View())

		railsig.Tick(0.1)

		assert.Equal(t, "level=INFO msg=value name=speed value=3 tick=1\n", buf.String())
	})
}
