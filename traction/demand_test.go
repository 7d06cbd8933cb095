package traction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/cockpit"
	"github.com/AnatoleLucet/railsig/host"
)

func TestDemand(t *testing.T) {
	t.Run("traction follows the reverser", func(t *testing.T) {
		mem := host.NewMemory()
		railsig.BindVars(mem)

		handle := railsig.NewCell(0.0)
		reverser := railsig.NewCell(cockpit.ReverserV)
		d := Demand(DefaultDemandConfig(), handle.View(), reverser.View())

		handle.Set(0.5)
		assert.Equal(t, 0.5, d.Traction.Get())
		assert.Equal(t, 50_000.0, mem.Float("M_Axle_N_0_0"))

		reverser.Set(cockpit.ReverserR)
		assert.Equal(t, -0.5, d.Traction.Get())
		assert.Equal(t, -50_000.0, mem.Float("M_Axle_N_0_0"))

		reverser.Set(cockpit.ReverserI)
		assert.Zero(t, d.Traction.Get())
		assert.Zero(t, d.Brake.Get())
	})

	t.Run("brake in any reverser position", func(t *testing.T) {
		mem := host.NewMemory()
		railsig.BindVars(mem)

		handle := railsig.NewCell(0.0)
		d := Demand(DefaultDemandConfig(), handle.View(), railsig.Const(cockpit.ReverserO))

		handle.Set(-0.4)
		assert.Zero(t, d.Traction.Get())
		assert.InDelta(t, 0.4, d.Brake.Get(), 1e-12)
		assert.InDelta(t, 60_000, mem.Float("MBrake_Axle_N_0_0"), 1e-6)
	})
}
