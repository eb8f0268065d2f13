package core

import (
	"fmt"
	"sync"
)

// dslKind distinguishes arrange windows from assert windows.
type dslKind int

const (
	kindArrange dslKind = iota
	kindAssert
)

func (k dslKind) String() string {
	if k == kindArrange {
		return "Given"
	}

	return "Verify"
}

// dslPhase is the single-shot window lifecycle.
type dslPhase int

const (
	// phaseInactive: no window open; interceptions dispatch live.
	phaseInactive dslPhase = iota
	// phaseAwaitingInteraction: Given/Verify was called; the next interception
	// on any mock bound to this reporter is captured instead of dispatched.
	phaseAwaitingInteraction
	// phaseAwaitingTerminal: an interaction was captured; a terminal method
	// (Returns/Panics/Runs or a cardinality check) must consume it.
	phaseAwaitingTerminal
)

// DslState is the per-reporter slot holding at most one pending arrange or
// assert window. It is never shared across reporters, so parallel tests cannot
// corrupt each other's in-flight windows; goroutines spawned by one test share
// its reporter and therefore its window.
type DslState struct {
	mu     sync.Mutex
	phase  dslPhase
	kind   dslKind
	ic     *Interceptor
	record *CallRecord
}

// abandon clears any pending window. Used when a failure is about to be
// reported anyway, so the end-of-test check doesn't re-report it as dangling.
func (s *DslState) abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
}

// beginTerminal hands the captured interceptor and record to a builder's
// Call/Get/Set. Fails when no interaction was captured since the entry point.
func (s *DslState) beginTerminal(kind dslKind) (*Interceptor, *CallRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case phaseAwaitingTerminal:
		if s.kind != kind {
			err := fmt.Errorf("%w: %v() continuation used to complete a %v() statement",
				ErrDanglingDSL, kind, s.kind)
			s.resetLocked()

			return nil, nil, err
		}

		return s.ic, s.record, nil
	case phaseAwaitingInteraction:
		err := fmt.Errorf("%w: %v() was called but no mock interaction occurred", ErrDanglingDSL, s.kind)
		s.resetLocked()

		return nil, nil, err
	default:
		return nil, nil, fmt.Errorf("%w: must call %v() before its continuation", ErrDanglingDSL, kind)
	}
}

// checkDone is the end-of-scope dangling check, run from the reporter's
// Cleanup hook.
func (s *DslState) checkDone() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == phaseInactive {
		return nil
	}

	err := s.incompleteErrorLocked()
	s.resetLocked()

	return err
}

// complete closes the window. Called by every terminal method.
func (s *DslState) complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
}

// enter opens a window. Fails if one is already pending.
func (s *DslState) enter(kind dslKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != phaseInactive {
		err := s.incompleteErrorLocked()
		s.resetLocked()

		return err
	}

	s.phase = phaseAwaitingInteraction
	s.kind = kind

	return nil
}

// observeInterception is called by every interceptor access. While a window
// awaits its interaction, the record is captured (after the validate hook
// approves its declared types) and true is returned; the interceptor then
// skips live dispatch. An access while a capture awaits its terminal is a
// usage error. Otherwise the access is an ordinary live call.
func (s *DslState) observeInterception(
	ic *Interceptor,
	record *CallRecord,
	validate func() error,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case phaseAwaitingInteraction:
		if err := validate(); err != nil {
			s.resetLocked()

			return false, err
		}

		s.phase = phaseAwaitingTerminal
		s.ic = ic
		s.record = record

		return true, nil
	case phaseAwaitingTerminal:
		err := s.incompleteErrorLocked()
		s.resetLocked()

		return false, err
	default:
		return false, nil
	}
}

func (s *DslState) incompleteErrorLocked() error {
	if s.phase == phaseAwaitingInteraction {
		return fmt.Errorf("%w: %v() was called but no mock interaction occurred", ErrDanglingDSL, s.kind)
	}

	captured := "unknown"
	if s.record != nil {
		captured = s.record.Format()
	}

	if s.kind == kindArrange {
		return fmt.Errorf(
			"%w: Given() capture of %s was never completed; did you forget Returns, Panics, or Runs?",
			ErrDanglingDSL, captured)
	}

	return fmt.Errorf(
		"%w: Verify() capture of %s was never completed; did you forget Times, Once, Never, Called, AtLeast, or AtMost?",
		ErrDanglingDSL, captured)
}

func (s *DslState) resetLocked() {
	s.phase = phaseInactive
	s.ic = nil
	s.record = nil
}
