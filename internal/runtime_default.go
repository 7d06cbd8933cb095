//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

var runtimes sync.Map

func GetRuntime() *Runtime {
	gid := getGID()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r := NewRuntime()
	runtimes.Store(gid, r)
	return r
}

// ResetRuntime disposes the runtime of the calling goroutine and forgets it.
func ResetRuntime() {
	gid := getGID()

	if r, ok := runtimes.LoadAndDelete(gid); ok {
		r.(*Runtime).Dispose()
	}
}

// bindRuntime makes r the runtime of the calling goroutine, used by task coroutines.
func bindRuntime(r *Runtime) {
	runtimes.Store(getGID(), r)
}

func unbindRuntime() {
	runtimes.Delete(getGID())
}

func getGID() int64 {
	return goid.Get()
}
