package elements

import (
	"math"

	"github.com/AnatoleLucet/railsig"
)

// Approach moves old towards target as a first order lag over dt seconds.
// It never overshoots and is a fixed point at the target.
func Approach(old, exponent, target, dt float64) float64 {
	if old == target {
		return target
	}

	return (1-math.Exp(-exponent*dt))*(target-old) + old
}

// ExponentialApproach moves out towards target once per tick.
func ExponentialApproach(exponent float64, target railsig.View[float64], out *railsig.Cell[float64]) railsig.View[float64] {
	out = orNew(out)

	railsig.Loop(func() {
		out.SetIfChanged(Approach(out.Get(), exponent, target.Get(), railsig.Delta()))
	})

	return out.View()
}
