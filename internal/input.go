package internal

import (
	"slices"
	"sync"
)

// AnyCockpit matches edges from every cockpit.
const AnyCockpit = -1

// InputEdge is one press or release reported by the host.
type InputEdge struct {
	Name    string
	Pressed bool
	Cockpit int
}

// Inputs turns queued host edges into per-tick edges. The queue is safe for
// concurrent producers, everything else belongs to the runtime goroutine.
type Inputs struct {
	mu    sync.Mutex
	queue []InputEdge

	// held state per input and cockpit, holders counts the cockpits holding a name
	held    map[heldKey]bool
	holders map[string]int
	current map[string]InputEdge
	applied []InputEdge
}

type heldKey struct {
	name    string
	cockpit int
}

func NewInputs() *Inputs {
	return &Inputs{
		held:    make(map[heldKey]bool),
		holders: make(map[string]int),
		current: make(map[string]InputEdge),
	}
}

func (in *Inputs) Push(e InputEdge) {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.queue = append(in.queue, e)
}

// Advance applies at most one edge per input name, in submission order.
// Further edges for the same name stay queued for the following ticks,
// so a press and release arriving together still resolve as two edges.
// Edges that do not change the held state of their cockpit are dropped.
func (in *Inputs) Advance() {
	in.mu.Lock()
	queue := in.queue
	in.queue = nil
	in.mu.Unlock()

	clear(in.current)
	in.applied = in.applied[:0]

	var rest []InputEdge
	for _, e := range queue {
		if _, seen := in.current[e.Name]; seen {
			rest = append(rest, e)
			continue
		}
		key := heldKey{e.Name, e.Cockpit}
		if in.held[key] == e.Pressed {
			continue
		}

		if e.Pressed {
			in.held[key] = true
			in.holders[e.Name]++
		} else {
			delete(in.held, key)
			in.holders[e.Name]--
		}
		in.current[e.Name] = e
		in.applied = append(in.applied, e)
	}

	if len(rest) > 0 {
		in.mu.Lock()
		in.queue = append(rest, in.queue...)
		in.mu.Unlock()
	}
}

// Edge returns the edge applied for name during the current tick.
func (in *Inputs) Edge(name string) (InputEdge, bool) {
	e, ok := in.current[name]
	return e, ok
}

// IsPressed reports whether name is held in any cockpit.
func (in *Inputs) IsPressed(name string) bool {
	return in.holders[name] > 0
}

// Applied lists the edges applied during the current tick, in submission order.
func (in *Inputs) Applied() []InputEdge {
	return slices.Clone(in.applied)
}
