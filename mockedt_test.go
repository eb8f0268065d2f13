package strictmock_test

import (
	"fmt"
	"runtime"
	"sync"
)

// newMockedTestingT returns a TestReporter stand-in for *testing.T, so tests
// of failure paths can observe Fatalf output instead of failing for real.
func newMockedTestingT() *mockedTestingT { return &mockedTestingT{} }

type mockedTestingT struct {
	mu       sync.Mutex
	failures []string
	cleanups []func()
}

// Cleanup mirrors testing.T.Cleanup so the state registry and patch adapter
// hook into mocked tests the same way they hook into real ones. Callbacks run
// when RunCleanups is invoked, LIFO.
func (mt *mockedTestingT) Cleanup(cleanupFunc func()) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	mt.cleanups = append(mt.cleanups, cleanupFunc)
}

func (mt *mockedTestingT) Failed() bool {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return len(mt.failures) > 0
}

// Failure returns the most recent Fatalf message, or "" when none occurred.
func (mt *mockedTestingT) Failure() string {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if len(mt.failures) == 0 {
		return ""
	}

	return mt.failures[len(mt.failures)-1]
}

func (mt *mockedTestingT) FailureCount() int {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return len(mt.failures)
}

// Fatalf records the failure and kills the current goroutine, matching the
// control flow of the real testing library.
func (mt *mockedTestingT) Fatalf(message string, args ...any) {
	mt.mu.Lock()
	mt.failures = append(mt.failures, fmt.Sprintf(message, args...))
	mt.mu.Unlock()

	runtime.Goexit()
}

func (mt *mockedTestingT) Helper() {}

// RunCleanups runs the registered cleanups the way test teardown would. Must
// be called inside Wrap, since a cleanup may Fatalf.
func (mt *mockedTestingT) RunCleanups() {
	mt.mu.Lock()
	cleanups := mt.cleanups
	mt.cleanups = nil
	mt.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// Wrap runs the test body on its own goroutine so a Fatalf (which exits the
// goroutine) returns control flow to the caller instead of ending the real
// test.
func (mt *mockedTestingT) Wrap(wrapped func()) {
	waitgroup := &sync.WaitGroup{}
	waitgroup.Add(1)

	go func() {
		defer waitgroup.Done()
		wrapped()
	}()

	waitgroup.Wait()
}
