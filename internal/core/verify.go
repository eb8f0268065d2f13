package core

import (
	"fmt"
	"strings"
)

// Verify opens an assert window for the given test: the next member access on
// any mock bound to the same reporter is captured as a verification query
// instead of dispatched live.
//
//	Verify(t).Call(m.Method("Add").Call(1, 2)).Once()
//	Verify(t).Get(m.Field("Name")).Never()
//	Verify(t).Set(m.Field("Name"), "eve").Times(2)
func Verify(t TestReporter) *VerifyBuilder {
	t.Helper()

	state := StateFor(t)

	if err := state.enter(kindAssert); err != nil {
		t.Fatalf("%v", err)

		return &VerifyBuilder{t: t}
	}

	return &VerifyBuilder{t: t, state: state}
}

// VerifyBuilder captures one mock interaction as a verification query.
type VerifyBuilder struct {
	t     TestReporter
	state *DslState
}

// Call picks up the method invocation evaluated as its argument.
func (v *VerifyBuilder) Call(_ ...any) *CountBuilder {
	v.t.Helper()

	return v.terminal()
}

// Get captures a field read query.
func (v *VerifyBuilder) Get(ref *FieldRef) *CountBuilder {
	v.t.Helper()

	if ref == nil {
		v.abandonWith("Verify().Get expects a field reference, e.g. Verify(t).Get(m.Field(\"Name\"))")

		return &CountBuilder{t: v.t}
	}

	ref.getter.Intercept(nil)

	return v.terminal()
}

// Set captures a field write query for the given value (or matcher).
func (v *VerifyBuilder) Set(ref *FieldRef, value any) *CountBuilder {
	v.t.Helper()

	if ref == nil {
		v.abandonWith("Verify().Set expects a field reference, e.g. Verify(t).Set(m.Field(\"Name\"), v)")

		return &CountBuilder{t: v.t}
	}

	if ref.setter == nil {
		v.abandonWith("field " + ref.name + " is read-only and is never set")

		return &CountBuilder{t: v.t}
	}

	ref.setter.Intercept([]any{value})

	return v.terminal()
}

func (v *VerifyBuilder) abandonWith(msg string) {
	if v.state != nil {
		v.state.abandon()
	}

	v.t.Fatalf("%v: %s", ErrStubbing, msg)
}

func (v *VerifyBuilder) terminal() *CountBuilder {
	if v.state == nil {
		return &CountBuilder{t: v.t}
	}

	ic, record, err := v.state.beginTerminal(kindAssert)
	if err != nil {
		v.t.Fatalf("%v", err)

		return &CountBuilder{t: v.t}
	}

	return &CountBuilder{t: v.t, state: v.state, ic: ic, record: record}
}

// CountBuilder asserts the cardinality of the captured query against the
// member's interaction history. Only calls whose arguments the query's
// matchers accept count toward the total.
type CountBuilder struct {
	t      TestReporter
	state  *DslState
	ic     *Interceptor
	record *CallRecord
}

// AtLeast verifies the member was matched at least n times.
func (c *CountBuilder) AtLeast(n int) {
	c.t.Helper()
	c.assert(func(count int) bool { return count >= n }, fmt.Sprintf("at least %d time(s)", n))
}

// AtMost verifies the member was matched at most n times.
func (c *CountBuilder) AtMost(n int) {
	c.t.Helper()
	c.assert(func(count int) bool { return count <= n }, fmt.Sprintf("at most %d time(s)", n))
}

// Called verifies the member was matched at least once.
func (c *CountBuilder) Called() {
	c.t.Helper()
	c.AtLeast(1)
}

// Never verifies the member was never matched.
func (c *CountBuilder) Never() {
	c.t.Helper()
	c.Times(0)
}

// Once verifies the member was matched exactly once.
func (c *CountBuilder) Once() {
	c.t.Helper()
	c.Times(1)
}

// Times verifies the member was matched exactly n times.
func (c *CountBuilder) Times(n int) {
	c.t.Helper()
	c.assert(func(count int) bool { return count == n }, fmt.Sprintf("%d time(s)", n))
}

func (c *CountBuilder) assert(holds func(int) bool, bound string) {
	if c.ic == nil {
		return
	}

	// The window closes before the check: the terminal consumed the capture
	// whether or not the assertion holds.
	c.state.complete()

	count := c.ic.countMatching(c.record)
	if holds(count) {
		return
	}

	c.t.Fatalf("%v: expected %s to be called %s, but was called %d time(s)%s",
		ErrVerification, c.record.Format(), bound, count, formatHistory(c.ic))
}

// formatHistory renders the member's full interaction history for
// verification-failure diagnostics.
func formatHistory(ic *Interceptor) string {
	calls := ic.history()
	if len(calls) == 0 {
		return "\n  no interactions recorded for " + ic.Name()
	}

	var b strings.Builder

	fmt.Fprintf(&b, "\n  interactions with %s:", ic.Name())

	for _, call := range calls {
		fmt.Fprintf(&b, "\n    %s", call.Format())
	}

	return b.String()
}
