package core

import (
	"fmt"
	"reflect"
)

// Matcher is the duck-typed contract for argument matching at capture sites.
// Any value implementing Match and FailureMessage participates, which keeps
// gomega matchers usable directly as stub patterns and verification queries.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// MatchValue reports whether actual is accepted by expected. Matchers judge
// for themselves; every other expected value acts as a deep-equality matcher.
// The string is the mismatch description, empty on success.
func MatchValue(actual, expected any) (bool, string) {
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			// A matcher error reads as a mismatch carrying the error text.
			return false, err.Error()
		}

		if !success {
			return false, matcher.FailureMessage(actual)
		}

		return true, ""
	}

	if reflect.DeepEqual(actual, expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected %v, got %v", expected, actual)
}

// formatValue renders one recorded argument for error messages. Matchers
// render as their own description when they provide one.
func formatValue(value any) string {
	if matcher, ok := value.(Matcher); ok {
		if stringer, ok := matcher.(fmt.Stringer); ok {
			return stringer.String()
		}

		return fmt.Sprintf("<%T>", matcher)
	}

	return fmt.Sprintf("%#v", value)
}
