//go:build wasm

package internal

import "sync"

var (
	mu            sync.Mutex
	globalRuntime *Runtime
)

func GetRuntime() *Runtime {
	mu.Lock()
	defer mu.Unlock()

	if globalRuntime == nil {
		globalRuntime = NewRuntime()
	}

	return globalRuntime
}

func ResetRuntime() {
	mu.Lock()
	r := globalRuntime
	globalRuntime = nil
	mu.Unlock()

	if r != nil {
		r.Dispose()
	}
}

// single runtime, nothing to bind
func bindRuntime(*Runtime) {}
func unbindRuntime()       {}
