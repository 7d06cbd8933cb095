// Package elements holds the stateful building blocks vehicle systems are
// wired from: logic gates, relays, timers and host variable adapters.
//
// Every element takes an optional target cell. With nil a new cell is
// created; otherwise the element becomes the writer of the given cell.
// The returned View is what consumers should hold.
package elements

import "github.com/AnatoleLucet/railsig"

func orNew[T comparable](target *railsig.Cell[T]) *railsig.Cell[T] {
	if target != nil {
		return target
	}

	var zero T
	return railsig.NewCell(zero)
}
