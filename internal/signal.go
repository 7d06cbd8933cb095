package internal

// Signal holds one committed value. Every commit bumps the version, queues the
// computeds reading it and the observers watching it.
type Signal struct {
	*ReactiveNode

	rt *Runtime

	value   any
	version uint64

	observers []*Observer
}

// Observer is a change callback registered on a signal.
type Observer struct {
	fn     func(any)
	owner  *Owner
	active bool
}

func (r *Runtime) NewSignal(initial any) *Signal {
	return &Signal{
		ReactiveNode: &ReactiveNode{},
		rt:           r,
		value:        initial,
	}
}

// Read returns the current value, tracking the dependency if within a computed.
func (s *Signal) Read() any {
	s.rt.tracker.Track(s)

	return s.value
}

// Value returns the current value without tracking.
func (s *Signal) Value() any { return s.value }

// Version increases by one on every commit.
func (s *Signal) Version() uint64 { return s.version }

// Write commits v. With force unset the write is dropped when v equals the current value.
// It reports whether a commit happened.
func (s *Signal) Write(v any, force bool) bool {
	r := s.rt

	// a signal written by a computed sits right above it, dropped writes included
	if c := r.tracker.CurrentComputation(); c != nil {
		c.noteWrite(s)
		if c.height > s.height {
			r.liftSignal(s, c.height, map[*Computed]bool{c: true})
		}
	}

	if !force && isEqual(s.value, v) {
		return false
	}

	s.value = v
	s.version++

	r.heap.InsertAll(s.Subs())

	for _, o := range s.observers {
		if !o.active {
			continue
		}

		r.effects.Enqueue(func() {
			if !o.active {
				return
			}
			o.owner.Run(func() { o.fn(v) })
		})
	}

	r.Schedule()

	return true
}

// Observe registers fn to be called once per commit made after registration.
// The observer is dropped when the current owner is disposed.
func (s *Signal) Observe(fn func(any)) *Observer {
	o := &Observer{
		fn:     fn,
		owner:  s.rt.CurrentOwner(),
		active: true,
	}
	s.observers = append(s.observers, o)

	s.rt.OnCleanup(func() { s.removeObserver(o) })

	return o
}

func (s *Signal) removeObserver(o *Observer) {
	o.active = false

	for i, other := range s.observers {
		if other == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

func isEqual(a, b any) bool {
	return a == b
}
