// Package match provides argument matchers for strictmock stub patterns and
// verification queries. This package is designed to be dot-imported alongside
// gomega matchers:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    . "github.com/strictmock/strictmock/match"
//	)
//
//	Given(t).Call(m.Method("Add").Call(BeAny, BeNumerically(">", 0))).Returns(1)
package match

import (
	"errors"
	"fmt"
	"reflect"
)

// errTypeMismatch is a sentinel error for type assertion failures.
var errTypeMismatch = errors.New("type mismatch")

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// BeAny is a matcher that matches any value in its argument position.
// Useful when you don't care about a particular argument.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = anyMatcher{}

// BeOfType returns a matcher that matches any value assignable to T.
// The acceptance test is type compatibility, not identity:
//
//	Given(t).Call(m.Method("Lookup").Call(BeOfType[int]())).Returns("x")
func BeOfType[T any]() Matcher {
	return typeMatcher[T]{}
}

// Satisfy returns a matcher that uses a predicate function to check for a
// match. The predicate should return nil if the value matches, or an error
// describing the mismatch if it does not. The predicate must be deterministic:
// it may run again while a failure message is built, and it may run from
// concurrent goroutines when production code calls mocks concurrently.
//
// Example:
//
//	Verify(t).Call(m.Method("Add").Call(Satisfy(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	}))).Once()
func Satisfy[T any](predicate func(T) error) Matcher {
	return satisfyMatcher[T]{predicate: predicate}
}

// anyMatcher is the implementation of the BeAny matcher.
type anyMatcher struct{}

// FailureMessage returns an empty string since BeAny always matches.
func (anyMatcher) FailureMessage(any) string {
	return ""
}

// Match always returns true - matches any value.
func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

// String renders the matcher in recorded-call diagnostics.
func (anyMatcher) String() string {
	return "<any>"
}

// satisfyMatcher holds no mutable state, so one instance can be reused across
// interceptors matched from concurrent goroutines. FailureMessage re-runs the
// predicate to recover the mismatch description.
type satisfyMatcher[T any] struct {
	predicate func(T) error
}

func (m satisfyMatcher[T]) FailureMessage(actual any) string {
	val, ok := actual.(T)
	if !ok {
		return fmt.Sprintf("value %v has type %T, the predicate takes %v", actual, actual, reflect.TypeFor[T]())
	}

	if err := m.predicate(val); err != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, err)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)
	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	return m.predicate(val) == nil, nil
}

func (m satisfyMatcher[T]) String() string {
	return fmt.Sprintf("<satisfying func(%v) error>", reflect.TypeFor[T]())
}

type typeMatcher[T any] struct{}

func (typeMatcher[T]) FailureMessage(actual any) string {
	return fmt.Sprintf("expected a value of type %v, got %T", reflect.TypeFor[T](), actual)
}

func (typeMatcher[T]) Match(actual any) (bool, error) {
	if actual == nil {
		return isNilableKind(reflect.TypeFor[T]().Kind()), nil
	}

	_, ok := actual.(T)

	return ok, nil
}

func (typeMatcher[T]) String() string {
	return fmt.Sprintf("<any %v>", reflect.TypeFor[T]())
}

func isNilableKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	default:
		return false
	}
}
