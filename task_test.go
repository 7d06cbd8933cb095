package railsig

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpawn(t *testing.T) {
	t.Run("runs to the first await", func(t *testing.T) {
		log := []string{}

		task := Spawn(func(t *Task) {
			log = append(log, "start")
			t.Await(NextTick())
			log = append(log, "resumed")
		})

		assert.Equal(t, []string{"start"}, log)
		assert.Equal(t, "ticks(1)", task.Awaiting()[0].String())

		Tick(0.1)

		assert.Equal(t, []string{"start", "resumed"}, log)
		assert.True(t, task.Done())
	})

	t.Run("resumes in spawn order", func(t *testing.T) {
		log := []string{}

		for _, name := range []string{"a", "b", "c"} {
			Loop(func() { log = append(log, name) })
		}

		Tick(0.1)
		Tick(0.1)

		assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, log)
	})

	t.Run("resumes at most once per tick", func(t *testing.T) {
		runs := 0

		Spawn(func(t *Task) {
			for {
				t.Await(Ticks(0))
				runs++
			}
		})

		Tick(0.1)
		Tick(0.1)

		assert.Equal(t, 2, runs)
	})

	t.Run("panics escape tick", func(t *testing.T) {
		Spawn(func(t *Task) {
			t.Await(NextTick())
			panic("boom")
		})

		assert.PanicsWithValue(t, "boom", func() { Tick(0.1) })
	})

	t.Run("panics go to OnError", func(t *testing.T) {
		log := []string{}
		OnError(func(err any) { log = append(log, fmt.Sprintf("caught %v", err)) })

		task := Spawn(func(t *Task) {
			t.Await(NextTick())
			panic("boom")
		})

		Tick(0.1)

		assert.True(t, task.Done())
		assert.Equal(t, []string{"caught boom"}, log)
	})

	t.Run("stop unwinds the task", func(t *testing.T) {
		log := []string{}

		task := Spawn(func(t *Task) {
			defer func() { log = append(log, "deferred") }()
			t.Await(Seconds(10))
			log = append(log, "unreachable")
		})

		task.Stop()
		Tick(20)

		assert.True(t, task.Done())
		assert.Equal(t, []string{"deferred"}, log)
	})

	t.Run("a running task cannot stop itself", func(t *testing.T) {
		log := []string{}

		task := Spawn(func(t *Task) {
			t.Await(NextTick())
			t.Stop()
			log = append(log, "still running")
			t.Await(NextTick())
			log = append(log, "resumed")
		})

		Tick(0.1)
		assert.False(t, task.Done())
		Tick(0.1)

		assert.True(t, task.Done())
		assert.Equal(t, []string{"still running", "resumed"}, log)
	})

	t.Run("tick end hooks run after tasks", func(t *testing.T) {
		log := []string{}

		OnTickEnd(func() { log = append(log, "end") })
		Loop(func() { log = append(log, "task") })

		Tick(0.1)

		assert.Equal(t, []string{"task", "end"}, log)
	})
}

func TestInputWaits(t *testing.T) {
	t.Run("press resumes once", func(t *testing.T) {
		presses := 0

		Spawn(func(t *Task) {
			for {
				t.Await(JustPressed("Horn"))
				presses++
			}
		})

		Press("Horn", AnyCockpit)
		assert.Equal(t, 0, presses)

		Tick(0.1)
		assert.Equal(t, 1, presses)
		assert.True(t, IsPressed("Horn"))

		Tick(0.1)
		assert.Equal(t, 1, presses)
	})

	t.Run("every waiting task sees the edge", func(t *testing.T) {
		log := []string{}

		for _, name := range []string{"a", "b"} {
			Spawn(func(t *Task) {
				t.Await(JustReleased("Horn"))
				log = append(log, name)
			})
		}

		Press("Horn", AnyCockpit)
		Tick(0.1)
		Release("Horn", AnyCockpit)
		Tick(0.1)

		assert.Equal(t, []string{"a", "b"}, log)
	})

	t.Run("release and press in one frame resolve over two ticks", func(t *testing.T) {
		log := []string{}

		Spawn(func(t *Task) {
			for {
				switch t.Await(JustPressed("Horn"), JustReleased("Horn")) {
				case 0:
					log = append(log, fmt.Sprintf("press %d", TickCount()))
				case 1:
					log = append(log, fmt.Sprintf("release %d", TickCount()))
				}
			}
		})

		Press("Horn", AnyCockpit)
		Tick(0.1)
		Release("Horn", AnyCockpit)
		Press("Horn", AnyCockpit)
		Tick(0.1)
		Tick(0.1)
		Tick(0.1)

		assert.Equal(t, []string{
			"press 1",
			"release 2",
			"press 3",
		}, log)
	})

	t.Run("edges not changing the held state are dropped", func(t *testing.T) {
		presses := 0

		Spawn(func(t *Task) {
			for {
				t.Await(JustPressed("Horn"))
				presses++
			}
		})

		Press("Horn", AnyCockpit)
		Tick(0.1)
		Press("Horn", AnyCockpit)
		Tick(0.1)

		assert.Equal(t, 1, presses)
	})

	t.Run("cockpit filter", func(t *testing.T) {
		log := []int{}

		Spawn(func(t *Task) {
			for {
				t.Await(JustPressedIn("Horn", 1))
				log = append(log, int(TickCount()))
			}
		})

		Press("Horn", 2)
		Tick(0.1)
		Release("Horn", 2)
		Tick(0.1)
		Press("Horn", 1)
		Tick(0.1)
		Release("Horn", 1)
		Tick(0.1)
		Press("Horn", AnyCockpit)
		Tick(0.1)

		assert.Equal(t, []int{3, 5}, log)
	})

	t.Run("cockpits hold the same input independently", func(t *testing.T) {
		log := []int{}

		Spawn(func(t *Task) {
			for {
				t.Await(JustPressedIn("Horn", 2))
				log = append(log, int(TickCount()))
			}
		})

		Press("Horn", 1)
		Tick(0.1)
		Press("Horn", 2)
		Tick(0.1)
		Release("Horn", 1)
		Tick(0.1)
		assert.True(t, IsPressed("Horn"))

		Release("Horn", 2)
		Tick(0.1)
		assert.False(t, IsPressed("Horn"))

		assert.Equal(t, []int{2}, log)
	})

	t.Run("applied inputs follow the last tick", func(t *testing.T) {
		Press("Horn", 1)
		Release("Horn", 1)
		Press("Bell", AnyCockpit)
		Press("Bell", AnyCockpit)

		Tick(0.1)
		assert.Equal(t, []InputEdge{
			{Name: "Horn", Pressed: true, Cockpit: 1},
			{Name: "Bell", Pressed: true, Cockpit: AnyCockpit},
		}, AppliedInputs())

		Tick(0.1)
		assert.Equal(t, []InputEdge{
			{Name: "Horn", Pressed: false, Cockpit: 1},
		}, AppliedInputs())

		Tick(0.1)
		assert.Empty(t, AppliedInputs())
	})

	t.Run("input handle pushes from another goroutine", func(t *testing.T) {
		presses := 0
		Spawn(func(t *Task) {
			t.Await(JustPressed("Horn"))
			presses++
		})

		in := NewInput()
		done := make(chan struct{})
		go func() {
			in.Press("Horn", AnyCockpit)
			close(done)
		}()
		<-done

		Tick(0.1)
		assert.Equal(t, 1, presses)
	})
}

func TestTimeWaits(t *testing.T) {
	t.Run("ticks", func(t *testing.T) {
		var at uint64

		Spawn(func(t *Task) {
			t.Await(Ticks(3))
			at = TickCount()
		})

		for range 5 {
			Tick(0.1)
		}

		assert.Equal(t, uint64(3), at)
	})

	t.Run("seconds overshoot is under one frame", func(t *testing.T) {
		var at float64

		Spawn(func(t *Task) {
			t.Await(Seconds(0.5))
			at = Elapsed()
		})

		for range 5 {
			Tick(0.2)
		}

		assert.InDelta(t, 0.6, at, 1e-9)
	})

	t.Run("accumulated deltas do not lose a frame", func(t *testing.T) {
		var at uint64

		Spawn(func(t *Task) {
			t.Await(Seconds(1))
			at = TickCount()
		})

		for range 12 {
			Tick(0.1)
		}

		assert.Equal(t, uint64(10), at)
	})

	t.Run("seconds zero waits one tick", func(t *testing.T) {
		var at uint64

		Spawn(func(t *Task) {
			t.Await(Seconds(0))
			at = TickCount()
		})

		Tick(0)
		assert.Equal(t, uint64(1), at)
	})

	t.Run("clock", func(t *testing.T) {
		Tick(0.25)
		Tick(-1)

		assert.Equal(t, uint64(2), TickCount())
		assert.Equal(t, 0.0, Delta())
		assert.Equal(t, 0.25, Elapsed())
	})

	t.Run("select returns the first satisfied branch", func(t *testing.T) {
		log := []int{}

		Spawn(func(t *Task) {
			for {
				log = append(log, t.Await(JustPressed("Horn"), Seconds(1)))
			}
		})

		Press("Horn", AnyCockpit)
		Tick(0.1)
		Tick(1)
		Release("Horn", AnyCockpit)
		Tick(0.5)
		Press("Horn", AnyCockpit)
		Tick(0.5)

		assert.Equal(t, []int{0, 1, 0}, log)
	})
}

func TestChangedWait(t *testing.T) {
	t.Run("resumes on commit and reads the latest value", func(t *testing.T) {
		log := []int{}

		count := NewCell(0)
		Spawn(func(t *Task) {
			for {
				t.Await(Changed(count.View()))
				log = append(log, count.Get())
			}
		})

		Tick(0.1)
		count.Set(5)
		count.Set(6)
		Tick(0.1)
		Tick(0.1)

		assert.Equal(t, []int{6}, log)
	})

	t.Run("same tick when the writer runs first", func(t *testing.T) {
		log := []string{}

		count := NewCell(0)
		Loop(func() { count.Set(int(TickCount())) })
		Spawn(func(t *Task) {
			for {
				t.Await(count.Changed())
				log = append(log, fmt.Sprintf("tick %d value %d", TickCount(), count.Get()))
			}
		})

		Tick(0.1)
		Tick(0.1)

		assert.Equal(t, []string{
			"tick 1 value 1",
			"tick 2 value 2",
		}, log)
	})
}
