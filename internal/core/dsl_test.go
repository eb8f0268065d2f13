package core

import (
	"fmt"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/strictmock/strictmock/internal/schema"
)

// recordingT collects Fatalf output without stopping the goroutine, so state
// transitions can be inspected after a failure path.
type recordingT struct {
	failures []string
}

func (r *recordingT) Helper() {}

func (r *recordingT) Fatalf(format string, args ...any) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func noValidation() error { return nil }

func newTestInterceptor() *Interceptor {
	return NewInterceptor(&recordingT{}, &DslState{}, KindMethod, "calc", "Add", schema.Signature{})
}

func TestDslState_CaptureLifecycle(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	state := &DslState{}
	ic := newTestInterceptor()
	record := &CallRecord{Kind: KindMethod, Name: "Add", Args: []any{1, 2}}

	g.Expect(state.enter(kindArrange)).To(Succeed())

	captured, err := state.observeInterception(ic, record, noValidation)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(captured).To(BeTrue())

	gotIC, gotRecord, err := state.beginTerminal(kindArrange)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(gotIC).To(BeIdenticalTo(ic))
	g.Expect(gotRecord).To(BeIdenticalTo(record))

	state.complete()
	g.Expect(state.checkDone()).To(Succeed())
}

func TestDslState_LiveCallsPassThroughWhenInactive(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	state := &DslState{}

	captured, err := state.observeInterception(newTestInterceptor(), &CallRecord{Name: "Add"}, noValidation)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(captured).To(BeFalse())
}

func TestDslState_EnterWhilePending(t *testing.T) {
	t.Parallel()

	t.Run("pending interaction", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		state := &DslState{}
		g.Expect(state.enter(kindArrange)).To(Succeed())

		err := state.enter(kindAssert)
		g.Expect(err).To(MatchError(ErrDanglingDSL))
		g.Expect(err.Error()).To(ContainSubstring("Given() was called but no mock interaction occurred"))

		// The failed entry resets the window; the state is usable again.
		g.Expect(state.enter(kindAssert)).To(Succeed())
		state.abandon()
	})

	t.Run("pending terminal", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		state := &DslState{}
		record := &CallRecord{Kind: KindMethod, Name: "Add", Args: []any{1, 2}}
		g.Expect(state.enter(kindArrange)).To(Succeed())

		_, err := state.observeInterception(newTestInterceptor(), record, noValidation)
		g.Expect(err).NotTo(HaveOccurred())

		err = state.enter(kindArrange)
		g.Expect(err).To(MatchError(ErrDanglingDSL))
		g.Expect(err.Error()).To(ContainSubstring("Given() capture of Add(1, 2) was never completed"))
		g.Expect(err.Error()).To(ContainSubstring("Returns, Panics, or Runs"))
	})
}

func TestDslState_InterceptionWhileAwaitingTerminal(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	state := &DslState{}
	g.Expect(state.enter(kindAssert)).To(Succeed())

	_, err := state.observeInterception(newTestInterceptor(), &CallRecord{Kind: KindMethod, Name: "Add"}, noValidation)
	g.Expect(err).NotTo(HaveOccurred())

	// A second interception cannot be captured into the same window.
	captured, err := state.observeInterception(newTestInterceptor(), &CallRecord{Kind: KindMethod, Name: "Sub"}, noValidation)
	g.Expect(captured).To(BeFalse())
	g.Expect(err).To(MatchError(ErrDanglingDSL))
	g.Expect(err.Error()).To(ContainSubstring("Times, Once, Never, Called, AtLeast, or AtMost"))
}

func TestDslState_TerminalKindMismatch(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	state := &DslState{}
	g.Expect(state.enter(kindArrange)).To(Succeed())

	_, err := state.observeInterception(newTestInterceptor(), &CallRecord{Name: "Add"}, noValidation)
	g.Expect(err).NotTo(HaveOccurred())

	_, _, err = state.beginTerminal(kindAssert)
	g.Expect(err).To(MatchError(ErrDanglingDSL))
	g.Expect(err.Error()).To(ContainSubstring("Verify() continuation used to complete a Given() statement"))
}

func TestDslState_TerminalWithoutEntry(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	state := &DslState{}

	_, _, err := state.beginTerminal(kindArrange)
	g.Expect(err).To(MatchError(ErrDanglingDSL))
	g.Expect(err.Error()).To(ContainSubstring("must call Given() before its continuation"))
}

func TestDslState_ValidateRejectionResetsWindow(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	state := &DslState{}
	sentinel := ErrStubbing
	g.Expect(state.enter(kindArrange)).To(Succeed())

	captured, err := state.observeInterception(newTestInterceptor(), &CallRecord{Name: "Add"}, func() error {
		return sentinel
	})
	g.Expect(captured).To(BeFalse())
	g.Expect(err).To(MatchError(sentinel))

	// Window was torn down; a live call now passes through.
	captured, err = state.observeInterception(newTestInterceptor(), &CallRecord{Name: "Add"}, noValidation)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(captured).To(BeFalse())
}

func TestDslState_CheckDoneReportsDangling(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	state := &DslState{}
	g.Expect(state.enter(kindAssert)).To(Succeed())

	err := state.checkDone()
	g.Expect(err).To(MatchError(ErrDanglingDSL))
	g.Expect(err.Error()).To(ContainSubstring("Verify() was called but no mock interaction occurred"))

	// checkDone resets; a second check is clean.
	g.Expect(state.checkDone()).To(Succeed())
}
