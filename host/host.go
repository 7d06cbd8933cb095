// Package host is the variable namespace shared with the simulator.
package host

// Variables is the namespace the simulator exposes to the vehicle script.
// Unknown names read as zero.
type Variables interface {
	Float(name string) float64
	SetFloat(name string, v float64)
	Bool(name string) bool
	SetBool(name string, v bool)
}

// Trigger fires a one-shot, e.g. a sound, by writing true to name.
func Trigger(vars Variables, name string) {
	vars.SetBool(name, true)
}
