package core

import "sync"

// StateFor returns the DSL state for the given test, creating one if needed.
// Multiple calls with the same TestReporter return the same state, which is
// what lets Given/Verify windows and mock interceptors coordinate within one
// test while staying isolated from tests running in parallel.
//
// If the TestReporter supports Cleanup (like *testing.T), the state is
// automatically removed from the registry when the test completes, after a
// final check for a window that was opened but never completed.
func StateFor(t TestReporter) *DslState {
	registryMu.Lock()
	defer registryMu.Unlock()

	if state, ok := registry[t]; ok {
		return state
	}

	state := &DslState{}
	registry[t] = state

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			registryMu.Lock()
			delete(registry, t)
			registryMu.Unlock()

			if err := state.checkDone(); err != nil {
				t.Fatalf("%v", err)
			}
		})
	}

	return state
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for per-test state
	registry = make(map[TestReporter]*DslState)
	//nolint:gochecknoglobals // Mutex for registry
	registryMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}
