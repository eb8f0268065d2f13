// Package core implements strictmock's interception, stubbing, and
// verification engine. The public API entry point is the root strictmock
// package; the patch adapter lives in patch.
package core

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/akedrou/textdiff"

	"github.com/strictmock/strictmock/internal/schema"
)

// TestReporter is the minimal interface strictmock needs from test frameworks.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Interceptor owns the state of a single mocked member: its interaction
// history, its registered stubs, and the member's real signature. Each member
// has exactly one Interceptor for its lifetime; identity is stable across
// repeated lookups on the same handle.
type Interceptor struct {
	t     TestReporter
	state *DslState
	kind  RecordKind
	owner string
	name  string
	sig   schema.Signature

	mu    sync.Mutex
	calls []*CallRecord
	stubs []*Stub
}

// NewInterceptor creates an interceptor for one member, bound to the DSL state
// of the reporter that owns the mock.
func NewInterceptor(
	t TestReporter,
	state *DslState,
	kind RecordKind,
	owner, name string,
	sig schema.Signature,
) *Interceptor {
	return &Interceptor{
		t:     t,
		state: state,
		kind:  kind,
		owner: owner,
		name:  name,
		sig:   sig,
	}
}

// Name returns the member name this interceptor guards.
func (ic *Interceptor) Name() string {
	return ic.name
}

// Intercept handles one access to this member. While the owning reporter's
// DSL window is pending, the record is diverted into the window and nil is
// returned; otherwise the call is appended to the history and dispatched
// against the registered stubs.
func (ic *Interceptor) Intercept(args []any) []any {
	ic.t.Helper()

	record, err := ic.buildRecord(args)
	if err != nil {
		ic.state.abandon()
		ic.t.Fatalf("%v", err)

		return nil
	}

	captured, err := ic.state.observeInterception(ic, record, func() error {
		return ic.validateCapturedTypes(record)
	})
	if err != nil {
		ic.t.Fatalf("%v", err)

		return nil
	}

	if captured {
		return nil
	}

	results, err := ic.dispatch(record)
	if err != nil {
		ic.t.Fatalf("%v", err)

		return ic.zeroResults()
	}

	return results
}

// Reset empties both interactions and behaviors.
func (ic *Interceptor) Reset() {
	ic.ResetInteractions()
	ic.ResetBehaviors()
}

// ResetBehaviors clears all stubs. Recorded interactions are preserved.
func (ic *Interceptor) ResetBehaviors() {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	ic.stubs = nil
}

// ResetInteractions clears all recorded calls. Stubbed behaviors are preserved.
func (ic *Interceptor) ResetInteractions() {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	ic.calls = nil
}

// addStub appends a stub. Earlier stubs are never removed; shadowing is by
// selection order.
func (ic *Interceptor) addStub(pattern *CallRecord, behavior stubBehavior) {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	ic.stubs = append(ic.stubs, &Stub{pattern: pattern, behavior: behavior})
}

// buildRecord validates the call shape against the signature and snapshots the
// arguments. Shape validation is structural only; declared types are enforced
// solely for arrange/assert captures (validateCapturedTypes).
func (ic *Interceptor) buildRecord(args []any) (*CallRecord, error) {
	arity := len(ic.sig.Params)

	if ic.sig.Variadic {
		if len(args) < arity-1 {
			return nil, fmt.Errorf("%w: %s takes at least %d argument(s), got %d",
				ErrStubbing, ic.name, arity-1, len(args))
		}
	} else if len(args) != arity {
		return nil, fmt.Errorf("%w: %s takes %d argument(s), got %d",
			ErrStubbing, ic.name, arity, len(args))
	}

	return &CallRecord{
		Kind:  ic.kind,
		Owner: ic.owner,
		Name:  ic.name,
		Args:  slices.Clone(args),
	}, nil
}

// countMatching returns how many recorded calls the pattern accepts.
func (ic *Interceptor) countMatching(pattern *CallRecord) int {
	return len(ic.matchingCalls(pattern))
}

// dispatch appends the record to the history and executes the most recently
// registered matching stub. The append happens even when no stub matches, so
// failed attempts remain observable to verification.
func (ic *Interceptor) dispatch(record *CallRecord) ([]any, error) {
	ic.mu.Lock()

	ic.calls = append(ic.calls, record)

	var matched *Stub

	// Scan in reverse so later stubs take precedence.
	for i := len(ic.stubs) - 1; i >= 0; i-- {
		if patternMatchesCall(ic.stubs[i].pattern, record) {
			matched = ic.stubs[i]

			break
		}
	}

	registered := slices.Clone(ic.stubs)

	ic.mu.Unlock()

	if matched == nil {
		return nil, ic.unexpectedCallError(record, registered)
	}

	// Behaviors run outside the lock; a Runs action may touch other mocks.
	results := matched.behavior.execute(ic.argsFor(record))

	if _, computed := matched.behavior.(runsBehavior); computed {
		if err := ic.validateResults(results); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// history returns a snapshot of all recorded calls in insertion order.
func (ic *Interceptor) history() []*CallRecord {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	return slices.Clone(ic.calls)
}

// matchingCalls returns the recorded calls the pattern accepts, in insertion
// order.
func (ic *Interceptor) matchingCalls(pattern *CallRecord) []*CallRecord {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	var matches []*CallRecord

	for _, call := range ic.calls {
		if patternMatchesCall(pattern, call) {
			matches = append(matches, call)
		}
	}

	return matches
}

func (ic *Interceptor) argsFor(record *CallRecord) Args {
	names := make([]string, len(record.Args))
	for i := range record.Args {
		names[i] = ic.paramName(i)
	}

	return Args{names: names, values: record.Args}
}

func (ic *Interceptor) paramName(i int) string {
	if i < len(ic.sig.Params) {
		return ic.sig.Params[i].Name
	}

	// Positions past the declared list only occur for variadic members.
	return fmt.Sprintf("arg%d", i)
}

func (ic *Interceptor) paramType(i int) reflect.Type {
	if len(ic.sig.Params) == 0 {
		return nil
	}

	if ic.sig.Variadic && i >= len(ic.sig.Params)-1 {
		return ic.sig.Params[len(ic.sig.Params)-1].Type
	}

	if i < len(ic.sig.Params) {
		return ic.sig.Params[i].Type
	}

	return nil
}

// unexpectedCallError builds the no-matching-stub failure, listing the
// registered stubs and a unified diff against the closest one for contrast.
func (ic *Interceptor) unexpectedCallError(record *CallRecord, registered []*Stub) error {
	var detail strings.Builder

	if len(registered) == 0 {
		detail.WriteString("\n  no behaviors are registered for this member")
	} else {
		detail.WriteString("\n  registered behaviors:")

		for _, stub := range registered {
			fmt.Fprintf(&detail, "\n    %s", stub.pattern.Format())
		}

		closest := closestStub(record, registered)

		diff := textdiff.Unified(
			"registered "+closest.pattern.Format(),
			"actual call",
			closest.pattern.Format()+"\n",
			record.Format()+"\n",
		)
		if diff != "" {
			detail.WriteString("\n  closest registered behavior vs actual call:\n")
			detail.WriteString(diff)
		}
	}

	return fmt.Errorf("%w: no matching behavior defined on %s for %s%s",
		ErrUnexpectedCall, ic.owner, record.Format(), detail.String())
}

// validateCapturedTypes enforces declared argument types for arrange/assert
// captures. Matcher positions are exempt; live calls never pass through here.
func (ic *Interceptor) validateCapturedTypes(record *CallRecord) error {
	for i, value := range record.Args {
		paramType := ic.paramType(i)
		if paramType == nil {
			continue
		}

		if _, isMatcher := value.(Matcher); isMatcher {
			continue
		}

		if value == nil {
			if !isNilable(paramType) {
				return fmt.Errorf("%w: invalid type for argument %d of %s: %v is not nilable",
					ErrStubbing, i, ic.name, paramType)
			}

			continue
		}

		if !reflect.TypeOf(value).AssignableTo(paramType) {
			return fmt.Errorf("%w: invalid type for argument %d of %s: expected %v, got %T",
				ErrStubbing, i, ic.name, paramType, value)
		}
	}

	return nil
}

// validateResults checks a stub's return values against the signature's
// declared results. Called at registration for Returns and after each
// execution for Runs.
func (ic *Interceptor) validateResults(values []any) error {
	if len(values) != len(ic.sig.Results) {
		return fmt.Errorf("%w: %s returns %d value(s), stub provides %d",
			ErrStubbing, ic.name, len(ic.sig.Results), len(values))
	}

	for i, value := range values {
		resultType := ic.sig.Results[i]
		if resultType == nil {
			continue
		}

		if value == nil {
			if !isNilable(resultType) {
				return fmt.Errorf("%w: invalid return value %d for %s: %v is not nilable",
					ErrStubbing, i, ic.name, resultType)
			}

			continue
		}

		if !reflect.TypeOf(value).AssignableTo(resultType) {
			return fmt.Errorf("%w: invalid return value %d for %s: expected %v, got %T",
				ErrStubbing, i, ic.name, resultType, value)
		}
	}

	return nil
}

func (ic *Interceptor) zeroResults() []any {
	results := make([]any, len(ic.sig.Results))

	for i, resultType := range ic.sig.Results {
		if resultType != nil {
			results[i] = reflect.Zero(resultType).Interface()
		}
	}

	return results
}

// closestStub picks the registered stub whose pattern accepts the longest
// prefix of the call's arguments, breaking ties toward the most recently
// registered.
func closestStub(record *CallRecord, registered []*Stub) *Stub {
	best := registered[len(registered)-1]
	bestScore := -1

	for _, stub := range registered {
		score := 0

		limit := min(len(stub.pattern.Args), len(record.Args))
		for i := range limit {
			ok, _ := MatchValue(record.Args[i], stub.pattern.Args[i])
			if !ok {
				break
			}

			score++
		}

		if score >= bestScore {
			best = stub
			bestScore = score
		}
	}

	return best
}

func isNilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	default:
		return false
	}
}
