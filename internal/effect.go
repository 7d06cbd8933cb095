package internal

// Effect is a computed without an output signal: it reruns fn whenever one of
// the signals read during the previous run commits. Cleanups registered while
// running are called before the next run.
type Effect struct {
	*Computed
}

func (r *Runtime) NewEffect(fn func()) *Effect {
	var e *Effect

	c := r.NewComputed(func() {
		if e != nil {
			e.DisposeChildren()
			e.runCleanups()
		}
		fn()
	})
	e = &Effect{Computed: c}

	return e
}

// runCleanups calls the cleanups registered by the previous run while keeping
// the one unlinking the effect from the graph, which was registered first.
func (e *Effect) runCleanups() {
	if len(e.cleanups) <= 1 {
		return
	}

	stale := append([]func(){}, e.cleanups[1:]...)
	e.cleanups = e.cleanups[:1]
	for _, cleanup := range stale {
		cleanup()
	}
}
