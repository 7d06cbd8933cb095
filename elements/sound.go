package elements

import (
	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/host"
)

// Sound names the host sound variables of a unit. Empty names are skipped.
type Sound struct {
	Start string `yaml:"start"`
	Loop  string `yaml:"loop"`
	Stop  string `yaml:"stop"`
}

// onActivity calls fn on every change of active, ignoring repeated values.
func onActivity(active railsig.View[bool], fn func(bool)) {
	prev := false
	active.OnChange(func(v bool) {
		if v == prev {
			return
		}
		prev = v
		fn(v)
	})
}

// StartSound triggers start every time active turns true.
func StartSound(start string, active railsig.View[bool]) {
	StartLoopStopSound(Sound{Start: start}, active)
}

// LoopSound keeps the loop variable equal to active.
func LoopSound(loop string, active railsig.View[bool]) {
	vars := railsig.Vars()

	active.OnChange(func(v bool) { vars.SetBool(loop, v) })
}

// StartLoopStopSound triggers Start and begins Loop when active turns true,
// ends Loop and triggers Stop when it turns false.
func StartLoopStopSound(s Sound, active railsig.View[bool]) {
	vars := railsig.Vars()

	onActivity(active, func(on bool) {
		if on {
			trigger(vars, s.Start)
			setBool(vars, s.Loop, true)
			return
		}

		setBool(vars, s.Loop, false)
		trigger(vars, s.Stop)
	})
}

func trigger(vars host.Variables, name string) {
	if name != "" {
		host.Trigger(vars, name)
	}
}

func setBool(vars host.Variables, name string, v bool) {
	if name != "" {
		vars.SetBool(name, v)
	}
}
