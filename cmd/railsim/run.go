package main

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/config"
	"github.com/AnatoleLucet/railsig/elements"
	"github.com/AnatoleLucet/railsig/host"
	"github.com/AnatoleLucet/railsig/monitor"
	"github.com/AnatoleLucet/railsig/trace"
	"github.com/AnatoleLucet/railsig/vehicle"
)

// watchable are the views a scenario can log by name.
var watchable = map[string]func(*slog.Logger, *vehicle.Vehicle){
	"richtungswender": func(l *slog.Logger, v *vehicle.Vehicle) {
		elements.Logger(l, "richtungswender", v.Cockpit.Richtungswender)
	},
	"sollwertgeber": func(l *slog.Logger, v *vehicle.Vehicle) {
		elements.Logger(l, "sollwertgeber", v.Cockpit.Sollwertgeber.Position)
	},
	"drive_mode": func(l *slog.Logger, v *vehicle.Vehicle) {
		elements.Logger(l, "drive_mode", v.Cockpit.Sollwertgeber.Mode)
	},
	"traction_mode": func(l *slog.Logger, v *vehicle.Vehicle) {
		elements.Logger(l, "traction_mode", v.Traction.Mode)
	},
	"wheel_force": func(l *slog.Logger, v *vehicle.Vehicle) {
		elements.Logger(l, "wheel_force", v.Traction.Unit.WheelForce)
	},
	"door_switch": func(l *slog.Logger, v *vehicle.Vehicle) {
		elements.Logger(l, "door_switch", v.Cockpit.DoorSwitch)
	},
	"doors_closed": func(l *slog.Logger, v *vehicle.Vehicle) {
		elements.Logger(l, "doors_closed", v.Doors.AllClosed)
	},
	"outside_warning": func(l *slog.Logger, v *vehicle.Vehicle) {
		elements.Logger(l, "outside_warning", v.Doors.OutsideWarning)
	},
}

type options struct {
	Vehicle  config.Vehicle
	Scenario Scenario
	// replaces the scenario's input edges
	Replay []trace.Input

	Hz float64
	// seconds, 0 uses the scenario's
	Duration float64
	// pace ticks against the wall clock
	Realtime bool

	Recorder *trace.Recorder
	Monitor  *monitor.Server
	Log      *slog.Logger
}

type result struct {
	Ticks   uint64
	Elapsed float64
	Vars    host.Snapshot
}

// pending is something applied right before tick.
type pending struct {
	tick  uint64
	event trace.Event
	input bool

	set   string
	value float64
}

func schedule(o options, step float64) []pending {
	var out []pending

	for _, s := range o.Scenario.Steps {
		tick := tickAt(s.At, step)
		if ev, ok := s.event(); ok {
			if o.Replay == nil {
				out = append(out, pending{tick: tick, event: ev, input: true})
			}
			continue
		}
		out = append(out, pending{tick: tick, set: s.Set, value: s.Value})
	}

	for _, in := range o.Replay {
		out = append(out, pending{tick: max(in.Tick, 1), event: in.Event, input: true})
	}

	// steps at the same tick keep their order
	slices.SortStableFunc(out, func(a, b pending) int { return cmp.Compare(a.tick, b.tick) })
	return out
}

// run drives a fresh vehicle through the scenario on the calling goroutine.
func run(ctx context.Context, o options) (result, error) {
	log := o.Log
	if log == nil {
		log = slog.Default()
	}
	if o.Hz <= 0 {
		o.Hz = 60
	}
	step := 1 / o.Hz

	duration := o.Duration
	if duration <= 0 {
		duration = o.Scenario.end()
	}
	ticks := uint64(math.Ceil(duration*o.Hz - 1e-9))

	defer railsig.Reset()

	var failure any
	railsig.OnError(func(v any) {
		if failure == nil {
			failure = v
		}
	})

	mem := host.NewMemory()
	railsig.BindVars(mem)

	v := vehicle.New(o.Vehicle)
	for _, name := range o.Scenario.Watch {
		watchable[name](log, v)
	}

	queue := schedule(o, step)
	log.Info("run started", "scenario", o.Scenario.Name, "ticks", ticks, "hz", o.Hz, "replay", o.Replay != nil)

	var pace <-chan time.Time
	if o.Realtime {
		ticker := time.NewTicker(time.Duration(float64(time.Second) * step))
		defer ticker.Stop()
		pace = ticker.C
	}

	for tick := uint64(1); tick <= ticks; tick++ {
		if pace != nil {
			select {
			case <-ctx.Done():
				return result{}, ctx.Err()
			case <-pace:
			}
		} else if err := ctx.Err(); err != nil {
			return result{}, err
		}

		for len(queue) > 0 && queue[0].tick <= tick {
			p := queue[0]
			queue = queue[1:]

			if !p.input {
				mem.SetFloat(p.set, p.value)
				continue
			}
			if p.event.Pressed {
				railsig.Press(p.event.Name, p.event.Cockpit)
			} else {
				railsig.Release(p.event.Name, p.event.Cockpit)
			}
		}

		railsig.Tick(step)
		if failure != nil {
			return result{}, fmt.Errorf("tick %d: %v", tick, failure)
		}

		if o.Recorder != nil {
			// edges are recorded at the tick that applied them, dropped repeats not at all
			for _, e := range railsig.AppliedInputs() {
				ev := trace.Event{Name: e.Name, Pressed: e.Pressed, Cockpit: e.Cockpit}
				if err := o.Recorder.RecordInput(tick, railsig.Elapsed(), ev); err != nil {
					return result{}, err
				}
			}
			if err := o.Recorder.RecordFrame(tick, railsig.Elapsed(), mem.Snapshot()); err != nil {
				return result{}, err
			}
		}
		if o.Monitor != nil {
			if err := o.Monitor.Publish(tick, railsig.Elapsed(), mem.Snapshot()); err != nil {
				log.Warn("monitor publish failed", "tick", tick, "error", err)
			}
		}
	}

	res := result{
		Ticks:   railsig.TickCount(),
		Elapsed: railsig.Elapsed(),
		Vars:    mem.Snapshot(),
	}
	log.Info("run finished", "scenario", o.Scenario.Name, "ticks", res.Ticks, "elapsed", res.Elapsed)
	return res, nil
}
