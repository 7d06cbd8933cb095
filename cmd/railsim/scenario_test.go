package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnatoleLucet/railsig"
	"github.com/AnatoleLucet/railsig/trace"
)

const throttleScenario = `
name: throttle
duration: 2
watch: [sollwertgeber]
steps:
  - {at: 0.5, press: Throttle}
  - {at: 0.1, press: ReverserPlus}
  - {at: 0.2, release: ReverserPlus}
  - {at: 0.3, press: ReverserPlus, cockpit: 1}
  - {at: 0.4, release: ReverserPlus, cockpit: 1}
`

func TestParseScenario(t *testing.T) {
	t.Run("sorts steps by time", func(t *testing.T) {
		s, err := parseScenario([]byte(throttleScenario))
		require.NoError(t, err)

		assert.Equal(t, "throttle", s.Name)
		assert.Equal(t, 2.0, s.end())
		require.Len(t, s.Steps, 5)

		var at []float64
		for _, step := range s.Steps {
			at = append(at, step.At)
		}
		assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.4, 0.5}, at)
	})

	t.Run("edges default to any cockpit", func(t *testing.T) {
		s, err := parseScenario([]byte(throttleScenario))
		require.NoError(t, err)

		ev, ok := s.Steps[0].event()
		require.True(t, ok)
		assert.Equal(t, trace.Event{Name: "ReverserPlus", Pressed: true, Cockpit: railsig.AnyCockpit}, ev)

		ev, ok = s.Steps[3].event()
		require.True(t, ok)
		assert.Equal(t, trace.Event{Name: "ReverserPlus", Pressed: false, Cockpit: 1}, ev)
	})

	t.Run("empty input is an empty scenario", func(t *testing.T) {
		s, err := parseScenario(nil)
		require.NoError(t, err)
		assert.Equal(t, 1.0, s.end())
	})

	t.Run("accumulates problems", func(t *testing.T) {
		_, err := parseScenario([]byte(`
duration: -1
watch: [nope]
steps:
  - {at: -1, press: A}
  - {at: 1, press: A, release: A}
  - {at: 2}
`))
		require.ErrorIs(t, err, errInvalidScenario)
		assert.ErrorContains(t, err, "duration must not be negative")
		assert.ErrorContains(t, err, "steps[0].at must not be negative")
		assert.ErrorContains(t, err, "steps[1] needs exactly one of press, release or set")
		assert.ErrorContains(t, err, "steps[2] needs exactly one of press, release or set")
		assert.ErrorContains(t, err, `unknown view "nope"`)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		_, err := parseScenario([]byte("stepz: []\n"))
		assert.Error(t, err)
	})

	t.Run("runs one second past the last step", func(t *testing.T) {
		s, err := parseScenario([]byte("steps: [{at: 3, set: v_Axle_mps_0_0, value: 2}]\n"))
		require.NoError(t, err)
		assert.Equal(t, 4.0, s.end())
	})
}

func TestLoadScenario(t *testing.T) {
	t.Run("reads a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "throttle.yaml")
		require.NoError(t, os.WriteFile(path, []byte(throttleScenario), 0o644))

		s, err := loadScenario(path)
		require.NoError(t, err)
		assert.Len(t, s.Steps, 5)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestTickAt(t *testing.T) {
	cases := []struct {
		at   float64
		want uint64
	}{
		{0, 1},
		{0.05, 1},
		{0.1, 1},
		{0.3, 3},
		{0.31, 4},
		{2, 20},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, tickAt(c.at, 0.1), "at %g", c.at)
	}
}
