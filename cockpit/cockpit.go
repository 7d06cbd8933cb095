// Package cockpit models the driver's controls: the combined throttle/brake
// handle (Sollwertgeber), the reverser (Richtungswender), buttons, switches
// and indicator lights. Controls react to host input edges and mirror their
// state to animation and sound variables.
package cockpit

import (
	"github.com/AnatoleLucet/railsig/host"
)

// Empty variable names are not written.
func setFloat(vars host.Variables, name string, v float64) {
	if name != "" {
		vars.SetFloat(name, v)
	}
}

func trigger(vars host.Variables, name string) {
	if name != "" {
		host.Trigger(vars, name)
	}
}
