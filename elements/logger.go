package elements

import (
	"log/slog"

	"github.com/AnatoleLucet/railsig"
)

// Logger logs the value of v at info level once per tick.
func Logger[T comparable](logger *slog.Logger, name string, v railsig.View[T]) {
	if logger == nil {
		logger = slog.Default()
	}

	railsig.Loop(func() {
		logger.Info("value", "name", name, "value", v.Get(), "tick", railsig.TickCount())
	})
}
