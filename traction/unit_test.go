package traction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/host"
)

type unitFixture struct {
	speed   *railsig.Cell[float64]
	target  *railsig.Cell[float64]
	mode    *railsig.Cell[Mode]
	voltage *railsig.Cell[float64]
	hv      *railsig.Cell[bool]
	state   ThreePhaseUnitState
}

func newUnit(t *testing.T) *unitFixture {
	t.Helper()
	railsig.BindVars(host.NewMemory())

	f := &unitFixture{
		speed:   railsig.NewCell(5.0),
		target:  railsig.NewCell(1.0),
		mode:    railsig.NewCell(Forward),
		voltage: railsig.NewCell(600.0),
		hv:      railsig.NewCell(true),
	}
	f.state = ThreePhaseUnit(ThreePhaseUnitConfig{
		MaxForceAcceleration:    10_000,
		MaxPowerAcceleration:    100_000,
		MaxForceBraking:         8_000,
		MaxForceBrakingPerSpeed: 2_000,
		MaxReverseSpeed:         1,
		Exponent:                2,
		VoltageMin:              400,
	}, ThreePhaseUnitInputs{
		WheelSpeed:        f.speed.View(),
		TargetForce:       f.target.View(),
		Mode:              f.mode.View(),
		Voltage:           f.voltage.View(),
		HighVoltageSwitch: f.hv.View(),
	})

	return f
}

func TestThreePhaseUnit(t *testing.T) {
	lag := 1 - math.Exp(-1)

	t.Run("force limited at low speed", func(t *testing.T) {
		f := newUnit(t)
		railsig.Tick(0.5)

		assert.InDelta(t, lag, f.state.ForceNormalized.Get(), 1e-12)
		assert.InDelta(t, lag*10_000, f.state.WheelForce.Get(), 1e-6)
	})

	t.Run("power limited at high speed", func(t *testing.T) {
		f := newUnit(t)
		f.speed.Set(20)
		railsig.Tick(0.5)

		assert.InDelta(t, lag*5_000, f.state.WheelForce.Get(), 1e-6)
	})

	t.Run("backward pulls the other way", func(t *testing.T) {
		f := newUnit(t)
		f.mode.Set(Backward)
		f.speed.Set(-5)
		railsig.Tick(0.5)

		assert.InDelta(t, -lag*10_000, f.state.WheelForce.Get(), 1e-6)
	})

	t.Run("brake opposes the speed", func(t *testing.T) {
		f := newUnit(t)
		f.mode.Set(Brake)
		f.speed.Set(3)
		railsig.Tick(0.5)

		assert.InDelta(t, -lag, f.state.ForceNormalized.Get(), 1e-12)
		assert.InDelta(t, -lag*6_000, f.state.WheelForce.Get(), 1e-6)
	})

	t.Run("cut off", func(t *testing.T) {
		f := newUnit(t)
		railsig.Tick(0.5)
		assert.NotZero(t, f.state.WheelForce.Get())

		f.voltage.Set(300)
		railsig.Tick(0.5)
		assert.Zero(t, f.state.ForceNormalized.Get())
		assert.Zero(t, f.state.WheelForce.Get())

		f.voltage.Set(600)
		f.hv.Set(false)
		railsig.Tick(0.5)
		assert.Zero(t, f.state.WheelForce.Get())

		f.hv.Set(true)
		f.speed.Set(-2)
		railsig.Tick(0.5)
		assert.Zero(t, f.state.WheelForce.Get())
	})
}

func TestModes(t *testing.T) {
	assert.Equal(t, 1.0, Forward.Sign())
	assert.Equal(t, -1.0, Backward.Sign())
	assert.Equal(t, 0.0, Brake.Sign())
	assert.Equal(t, "Mode(9)", Mode(9).String())

	assert.Equal(t, Brake, UnitMode(0.5, 0.2))
	assert.Equal(t, Forward, UnitMode(0.5, 0))
	assert.Equal(t, Backward, UnitMode(-0.5, 0))
	assert.Equal(t, Off, UnitMode(0, 0))
}
