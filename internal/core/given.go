package core

// Given opens an arrange window for the given test: the next member access on
// any mock bound to the same reporter is captured as a stub pattern instead of
// dispatched live.
//
//	Given(t).Call(m.Method("Add").Call(1, 2)).Returns(3)
//	Given(t).Get(m.Field("Name")).Returns("bob")
//	Given(t).Set(m.Field("Name"), "eve").Returns()
func Given(t TestReporter) *GivenBuilder {
	t.Helper()

	state := StateFor(t)

	if err := state.enter(kindArrange); err != nil {
		t.Fatalf("%v", err)

		return &GivenBuilder{t: t}
	}

	return &GivenBuilder{t: t, state: state}
}

// GivenBuilder captures one mock interaction for stubbing.
type GivenBuilder struct {
	t     TestReporter
	state *DslState
}

// Call picks up the method invocation evaluated as its argument. The
// invocation itself was already captured by the pending window; its value is
// ignored.
func (g *GivenBuilder) Call(_ ...any) *StubBuilder {
	g.t.Helper()

	return g.terminal()
}

// Get captures a field read pattern.
func (g *GivenBuilder) Get(ref *FieldRef) *StubBuilder {
	g.t.Helper()

	if ref == nil {
		g.abandonWith("Given().Get expects a field reference, e.g. Given(t).Get(m.Field(\"Name\"))")

		return &StubBuilder{t: g.t}
	}

	ref.getter.Intercept(nil)

	return g.terminal()
}

// Set captures a field write pattern for the given value (or matcher).
func (g *GivenBuilder) Set(ref *FieldRef, value any) *StubBuilder {
	g.t.Helper()

	if ref == nil {
		g.abandonWith("Given().Set expects a field reference, e.g. Given(t).Set(m.Field(\"Name\"), v)")

		return &StubBuilder{t: g.t}
	}

	if ref.setter == nil {
		g.abandonWith("field " + ref.name + " is read-only and cannot be set")

		return &StubBuilder{t: g.t}
	}

	ref.setter.Intercept([]any{value})

	return g.terminal()
}

func (g *GivenBuilder) abandonWith(msg string) {
	if g.state != nil {
		g.state.abandon()
	}

	g.t.Fatalf("%v: %s", ErrStubbing, msg)
}

func (g *GivenBuilder) terminal() *StubBuilder {
	if g.state == nil {
		return &StubBuilder{t: g.t}
	}

	ic, record, err := g.state.beginTerminal(kindArrange)
	if err != nil {
		g.t.Fatalf("%v", err)

		return &StubBuilder{t: g.t}
	}

	return &StubBuilder{t: g.t, state: g.state, ic: ic, record: record}
}

// StubBuilder registers the behavior for a captured pattern. Exactly one of
// Returns, Panics, or Runs completes the statement.
type StubBuilder struct {
	t      TestReporter
	state  *DslState
	ic     *Interceptor
	record *CallRecord
}

// Panics stubs the member to panic with the given value on matching calls.
func (b *StubBuilder) Panics(value any) {
	b.t.Helper()

	if b.ic == nil {
		return
	}

	b.ic.addStub(b.record, panicsBehavior{value: value})
	b.state.complete()
}

// Returns stubs the member to return the given values on matching calls. The
// values are validated against the member's declared results immediately, so
// a drifted stub fails at stub time, not call time.
func (b *StubBuilder) Returns(values ...any) {
	b.t.Helper()

	if b.ic == nil {
		return
	}

	if err := b.ic.validateResults(values); err != nil {
		b.state.complete()
		b.t.Fatalf("%v", err)

		return
	}

	b.ic.addStub(b.record, returnsBehavior{values: values})
	b.state.complete()
}

// Runs stubs the member to compute its results from the realized call
// arguments. Results are validated against the declared signature when the
// action runs.
func (b *StubBuilder) Runs(action func(Args) []any) {
	b.t.Helper()

	if b.ic == nil {
		return
	}

	b.ic.addStub(b.record, runsBehavior{action: action})
	b.state.complete()
}
