package elements

import "github.com/AnatoleLucet/railsig"

type DelayRelayConfig struct {
	OnDelay  float64 `yaml:"on_delay"`
	OffDelay float64 `yaml:"off_delay"`
}

// DelayRelay follows in with a delay. A change is committed only if in still
// holds the new value once the delay for that value has passed; every flip of
// in restarts the wait. The output starts equal to in.
func DelayRelay(cfg DelayRelayConfig, in railsig.View[bool], target *railsig.Cell[bool]) railsig.View[bool] {
	out := orNew(target)
	out.SetIfChanged(in.Get())

	railsig.Spawn(func(t *railsig.Task) {
		for {
			t.Await(in.Changed())

			for {
				v := in.Get()
				if v == out.Get() {
					break
				}

				delay := cfg.OffDelay
				if v {
					delay = cfg.OnDelay
				}

				if t.Await(in.Changed(), railsig.Seconds(delay)) == 1 {
					out.Set(v)
					break
				}
			}
		}
	})

	return out.View()
}

type BlinkConfig struct {
	Interval float64 `yaml:"interval"`
	OnTime   float64 `yaml:"on_time"`

	// phase the relay restarts from, lets several relays blink in sync
	ResetTime float64 `yaml:"reset_time"`
}

// BlinkRelay blinks while running is true: a sawtooth of length Interval is
// on for its first OnTime seconds. When not running it is off and its phase
// goes back to ResetTime.
func BlinkRelay(cfg BlinkConfig, running railsig.View[bool], target *railsig.Cell[bool]) railsig.View[bool] {
	out := orNew(target)

	phase := cfg.ResetTime
	step := func(dt float64) {
		if !running.Get() {
			phase = cfg.ResetTime
			out.SetIfChanged(false)
			return
		}

		phase += dt
		if cfg.Interval > 0 && phase > cfg.Interval {
			phase -= cfg.Interval
		}
		out.SetIfChanged(phase < cfg.OnTime)
	}

	step(0)
	railsig.Loop(func() { step(railsig.Delta()) })

	return out.View()
}

// LightAndSound names the host variables a blinking element drives.
type LightAndSound struct {
	Light string `yaml:"light"`
	Sound string `yaml:"sound"`
}

// BlinkRelayWithLightAndSound mirrors a blink relay into a light variable
// (1 or 0) and a relay click sound.
func BlinkRelayWithLightAndSound(cfg BlinkConfig, running railsig.View[bool], vars LightAndSound) railsig.View[bool] {
	on := BlinkRelay(cfg, running, nil)

	BoolToFloatVar(vars.Light, on)
	BoolToSound(vars.Sound, on)

	return on
}

type BlinkEntry struct {
	Set railsig.View[bool]
	LightAndSound
}

// BlinkRelayMultipleEntries shares one blink relay between several outputs,
// e.g. the left and right indicators. The relay runs while any entry is set
// and each entry only shows the blink while it is set itself.
func BlinkRelayMultipleEntries(cfg BlinkConfig, entries []BlinkEntry) []railsig.View[bool] {
	sets := make([]railsig.View[bool], len(entries))
	for i, e := range entries {
		sets[i] = e.Set
	}

	blinker := BlinkRelay(cfg, Or(sets, nil), nil)

	ons := make([]railsig.View[bool], len(entries))
	for i, e := range entries {
		ons[i] = And([]railsig.View[bool]{e.Set, blinker}, nil)

		BoolToFloatVar(e.Light, ons[i])
		BoolToSound(e.Sound, ons[i])
	}

	return ons
}
