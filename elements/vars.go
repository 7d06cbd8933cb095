package elements

import (
	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/host"
)

// VarType is a value the host variable namespace can hold.
type VarType interface {
	bool | float64
}

func readVar[T VarType](vars host.Variables, name string) T {
	var v T
	switch any(v).(type) {
	case bool:
		return any(vars.Bool(name)).(T)
	default:
		return any(vars.Float(name)).(T)
	}
}

func writeVar[T VarType](vars host.Variables, name string, v T) {
	switch v := any(v).(type) {
	case bool:
		vars.SetBool(name, v)
	case float64:
		vars.SetFloat(name, v)
	}
}

// VarReader mirrors the host variable name into a cell. It is read at creation
// and polled once per tick.
func VarReader[T VarType](name string, target *railsig.Cell[T]) railsig.View[T] {
	out := orNew(target)
	vars := railsig.Vars()

	out.SetIfChanged(readVar[T](vars, name))
	railsig.Loop(func() {
		out.SetIfChanged(readVar[T](vars, name))
	})

	return out.View()
}

// VarWriter writes every commit of value to the host variable name.
func VarWriter[T VarType](name string, value railsig.View[T]) {
	vars := railsig.Vars()

	value.OnChange(func(v T) { writeVar(vars, name, v) })
}

// BoolToFloatVar writes 1 or 0 to name, now and whenever in changes.
func BoolToFloatVar(name string, in railsig.View[bool]) {
	vars := railsig.Vars()

	prev := in.Get()
	vars.SetFloat(name, boolToFloat(prev))

	in.OnChange(func(v bool) {
		if v == prev {
			return
		}
		prev = v
		vars.SetFloat(name, boolToFloat(v))
	})
}

// BoolToSound drives the sound variable name with in, writing only changes.
func BoolToSound(name string, in railsig.View[bool]) {
	vars := railsig.Vars()

	prev := false
	write := func(v bool) {
		if v == prev {
			return
		}
		prev = v
		vars.SetBool(name, v)
	}

	write(in.Get())
	in.OnChange(write)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
