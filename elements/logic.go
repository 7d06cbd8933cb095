package elements

import "github.com/AnatoleLucet/railsig"

// Converter keeps target equal to f(in). It is evaluated immediately and
// again, before the write to in returns, whenever in commits.
func Converter[I, O comparable](in railsig.View[I], f func(I) O, target *railsig.Cell[O]) railsig.View[O] {
	out := orNew(target)
	railsig.Derive(out, func() O { return f(in.Get()) })
	return out.View()
}

func Copy[T comparable](in railsig.View[T], target *railsig.Cell[T]) railsig.View[T] {
	return Converter(in, func(v T) T { return v }, target)
}

func Inverter(in railsig.View[bool], target *railsig.Cell[bool]) railsig.View[bool] {
	return Converter(in, func(v bool) bool { return !v }, target)
}

// And is true when every input is. An empty list is true.
func And(ins []railsig.View[bool], target *railsig.Cell[bool]) railsig.View[bool] {
	out := orNew(target)
	railsig.Derive(out, func() bool {
		result := true
		// every input is read so each one stays a dependency
		for _, in := range ins {
			result = in.Get() && result
		}
		return result
	})
	return out.View()
}

// Or is true when any input is. An empty list is false.
func Or(ins []railsig.View[bool], target *railsig.Cell[bool]) railsig.View[bool] {
	out := orNew(target)
	railsig.Derive(out, func() bool {
		result := false
		for _, in := range ins {
			result = in.Get() || result
		}
		return result
	})
	return out.View()
}
