// Package strictmock provides strict mocking for Go tests.
// Mocks validate every stubbed interaction against the real signature of the
// target type, so tests fail at stub time when they drift from production
// code; live calls without a matching stub fail instead of returning defaults.
//
// This is the public API entry point. Implementation lives in internal/core.
package strictmock

import (
	"reflect"

	"github.com/strictmock/strictmock/internal/core"
	"github.com/strictmock/strictmock/internal/schema"
)

// Args provides access to the realized arguments of an intercepted call.
type Args = core.Args

// CountBuilder asserts the cardinality of a captured verification query.
type CountBuilder = core.CountBuilder

// FieldRef is the stable reference to a mocked field.
type FieldRef = core.FieldRef

// GivenBuilder captures one mock interaction for stubbing.
type GivenBuilder = core.GivenBuilder

// InterceptorOwner is anything the reset functions can operate on: mock
// handles and patched functions alike.
type InterceptorOwner = core.InterceptorOwner

// Matcher defines the interface for flexible argument matching. Compatible
// with gomega matchers via duck typing.
type Matcher = core.Matcher

// Method is the callable surface of one mocked method.
type Method = core.Method

// StubBuilder registers the behavior for a captured stub pattern.
type StubBuilder = core.StubBuilder

// TestReporter is the minimal interface strictmock needs from test frameworks.
type TestReporter = core.TestReporter

// VerifyBuilder captures one mock interaction as a verification query.
type VerifyBuilder = core.VerifyBuilder

// Mock is a generated stand-in for T. Member access yields stable per-member
// interceptors; use Method and Field at capture sites and in live code paths.
type Mock[T any] struct {
	*core.Handle
}

// Option tunes mock construction.
type Option func(*schema.Config)

// WithExtraFields declares synthetic fields that schema discovery cannot see
// on the target type.
func WithExtraFields(names ...string) Option {
	return func(cfg *schema.Config) {
		cfg.ExtraFields = append(cfg.ExtraFields, names...)
	}
}

// WithReadOnlyFields marks fields as getter-only; sets on them fail.
func WithReadOnlyFields(names ...string) Option {
	return func(cfg *schema.Config) {
		cfg.ReadOnlyFields = append(cfg.ReadOnlyFields, names...)
	}
}

// ArgAt returns the argument at position i, asserted to type T.
func ArgAt[T any](args Args, i int) T {
	return core.ArgAt[T](args, i)
}

// Given opens an arrange window: the next member access on any mock bound to t
// is captured as a stub pattern instead of dispatched live.
//
//	strictmock.Given(t).Call(m.Method("Add").Call(1, 2)).Returns(3)
func Given(t TestReporter) *GivenBuilder {
	return core.Given(t)
}

// Of creates a mock for T, which must be an interface, struct, or pointer to
// struct. Repeated member access on the result yields stable interceptors.
func Of[T any](t TestReporter, opts ...Option) *Mock[T] {
	t.Helper()

	var cfg schema.Config
	for _, opt := range opts {
		opt(&cfg)
	}

	sch, err := schema.Introspect(reflect.TypeFor[T](), cfg)
	if err != nil {
		t.Fatalf("strictmock: %v", err)

		return nil
	}

	return &Mock[T]{Handle: core.NewHandle(t, sch)}
}

// Reset clears all interactions and behaviors from a mock.
func Reset(mock InterceptorOwner) {
	core.Reset(mock)
}

// ResetBehaviors clears all stubbed behaviors from a mock; interactions are
// preserved.
func ResetBehaviors(mock InterceptorOwner) {
	core.ResetBehaviors(mock)
}

// ResetInteractions clears all recorded interactions from a mock; stubbed
// behaviors are preserved.
func ResetInteractions(mock InterceptorOwner) {
	core.ResetInteractions(mock)
}

// Verify opens an assert window: the next member access on any mock bound to t
// is captured as a verification query instead of dispatched live.
//
//	strictmock.Verify(t).Call(m.Method("Add").Call(1, 2)).Once()
func Verify(t TestReporter) *VerifyBuilder {
	return core.Verify(t)
}
