package elements

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnatoleLucet/railsig"
)

func TestApproach(t *testing.T) {
	values := []float64{-1000, -1, -0.1, 0, 0.3, 1, 250}
	exponents := []float64{0.01, 1, 5, 100}
	dts := []float64{0.001, 1.0 / 60, 0.1, 1}

	t.Run("idempotent at the target", func(t *testing.T) {
		for _, target := range values {
			for _, e := range exponents {
				for _, dt := range dts {
					assert.Equal(t, target, Approach(target, e, target, dt))
				}
			}
		}
	})

	t.Run("never overshoots", func(t *testing.T) {
		for _, old := range values {
			for _, target := range values {
				if old == target {
					continue
				}
				for _, e := range exponents {
					for _, dt := range dts {
						next := Approach(old, e, target, dt)
						assert.Less(t, math.Abs(next-target), math.Abs(old-target))
					}
				}
			}
		}
	})

	t.Run("first order lag", func(t *testing.T) {
		assert.InDelta(t, 1-math.Exp(-1), Approach(0, 1, 1, 1), 1e-12)
	})
}

func TestExponentialApproach(t *testing.T) {
	t.Run("moves towards the target every tick", func(t *testing.T) {
		target := railsig.NewCell(1.0)
		out := ExponentialApproach(2, target.View(), nil)

		prev := out.Get()
		for range 20 {
			railsig.Tick(0.1)
			assert.Greater(t, out.Get(), prev)
			assert.Less(t, out.Get(), 1.0)
			prev = out.Get()
		}

		target.Set(0)
		railsig.Tick(0.1)
		assert.Less(t, out.Get(), prev)
	})
}
