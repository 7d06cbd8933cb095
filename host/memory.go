package host

import (
	"maps"
	"slices"
	"sync"
)

// Memory is an in-memory Variables store. Reads and writes are safe for
// concurrent use, so a monitor may take snapshots while the script runs.
type Memory struct {
	mu sync.RWMutex

	floats map[string]float64
	bools  map[string]bool

	// writes per name, including writes of an unchanged value
	writes map[string]int
}

func NewMemory() *Memory {
	return &Memory{
		floats: make(map[string]float64),
		bools:  make(map[string]bool),
		writes: make(map[string]int),
	}
}

func (m *Memory) Float(name string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.floats[name]
}

func (m *Memory) SetFloat(name string, v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.floats[name] = v
	m.writes[name]++
}

func (m *Memory) Bool(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.bools[name]
}

func (m *Memory) SetBool(name string, v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bools[name] = v
	m.writes[name]++
}

// Writes returns how many times name was written.
func (m *Memory) Writes(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.writes[name]
}

// Names lists every variable written so far, sorted.
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.writes))
}

// Snapshot is a copy of the namespace at one point in time.
type Snapshot struct {
	Floats map[string]float64 `json:"floats"`
	Bools  map[string]bool    `json:"bools"`
}

func (m *Memory) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Floats: maps.Clone(m.floats),
		Bools:  maps.Clone(m.bools),
	}
}

// ResetTriggers clears every bool in names, used by hosts that consume
// one-shots once per frame.
func (m *Memory) ResetTriggers(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range names {
		delete(m.bools, name)
	}
}
