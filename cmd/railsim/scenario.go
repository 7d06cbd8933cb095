package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/trace"
)

var errInvalidScenario = errors.New("invalid scenario")

// Scenario is a scripted drive: timed input edges and host variable writes.
type Scenario struct {
	Name string `yaml:"name"`
	// seconds, 0 runs one second past the last step
	Duration float64 `yaml:"duration"`
	Steps    []Step  `yaml:"steps"`
	// views logged once per tick, see watchable
	Watch []string `yaml:"watch"`
}

// Step does exactly one of press, release or set at time At.
type Step struct {
	At      float64 `yaml:"at"`
	Press   string  `yaml:"press"`
	Release string  `yaml:"release"`
	Cockpit *int    `yaml:"cockpit"`

	Set   string  `yaml:"set"`
	Value float64 `yaml:"value"`
}

func (s Step) cockpit() int {
	if s.Cockpit == nil {
		return railsig.AnyCockpit
	}
	return *s.Cockpit
}

// event is the input edge of a press or release step.
func (s Step) event() (trace.Event, bool) {
	switch {
	case s.Press != "":
		return trace.Event{Name: s.Press, Pressed: true, Cockpit: s.cockpit()}, true
	case s.Release != "":
		return trace.Event{Name: s.Release, Pressed: false, Cockpit: s.cockpit()}, true
	default:
		return trace.Event{}, false
	}
}

// tickAt is the first tick, counted from 1, whose end is at or past at.
func tickAt(at, step float64) uint64 {
	n := math.Ceil(at/step - 1e-9)
	if n < 1 {
		return 1
	}
	return uint64(n)
}

func loadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario %q: %w", path, err)
	}

	s, err := parseScenario(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("scenario %q: %w", path, err)
	}
	return s, nil
}

func parseScenario(data []byte) (Scenario, error) {
	var s Scenario

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Scenario{}, fmt.Errorf("decode: %w", err)
	}

	if err := s.validate(); err != nil {
		return Scenario{}, err
	}

	slices.SortStableFunc(s.Steps, func(a, b Step) int {
		switch {
		case a.At < b.At:
			return -1
		case a.At > b.At:
			return 1
		default:
			return 0
		}
	})
	return s, nil
}

func (s Scenario) validate() error {
	var problems []string

	if s.Duration < 0 {
		problems = append(problems, "duration must not be negative")
	}

	for i, step := range s.Steps {
		actions := 0
		for _, name := range []string{step.Press, step.Release, step.Set} {
			if name != "" {
				actions++
			}
		}
		if actions != 1 {
			problems = append(problems, fmt.Sprintf("steps[%d] needs exactly one of press, release or set", i))
		}
		if step.At < 0 {
			problems = append(problems, fmt.Sprintf("steps[%d].at must not be negative", i))
		}
	}

	for _, name := range s.Watch {
		if _, ok := watchable[name]; !ok {
			problems = append(problems, fmt.Sprintf("watch: unknown view %q", name))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", errInvalidScenario, strings.Join(problems, "; "))
	}
	return nil
}

// end is the time the scenario runs to when no duration is given.
func (s Scenario) end() float64 {
	if s.Duration > 0 {
		return s.Duration
	}

	last := 0.0
	for _, step := range s.Steps {
		last = max(last, step.At)
	}
	return last + 1
}
