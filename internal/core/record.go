package core

import (
	"fmt"
	"strings"
)

// RecordKind distinguishes the three interception shapes. The set is closed;
// each kind owns its own formatting.
type RecordKind int

const (
	// KindMethod is a method invocation with positional arguments.
	KindMethod RecordKind = iota
	// KindGetter is a field read with no arguments.
	KindGetter
	// KindSetter is a field write with a single value argument.
	KindSetter
)

// CallRecord is an immutable snapshot of one interception event. Args holds,
// per position, either the literal value or the matcher supplied at capture
// time, so the original call site can be re-displayed in diagnostics.
type CallRecord struct {
	Kind  RecordKind
	Owner string
	Name  string
	Args  []any
}

// Format renders the record for error messages.
func (r *CallRecord) Format() string {
	switch r.Kind {
	case KindGetter:
		return fmt.Sprintf("get %s", r.Name)
	case KindSetter:
		value := "?"
		if len(r.Args) > 0 {
			value = formatValue(r.Args[0])
		}

		return fmt.Sprintf("set %s = %s", r.Name, value)
	default:
		rendered := make([]string, len(r.Args))
		for i, arg := range r.Args {
			rendered[i] = formatValue(arg)
		}

		return fmt.Sprintf("%s(%s)", r.Name, strings.Join(rendered, ", "))
	}
}

// patternMatchesCall reports whether a pattern (which may contain Matchers in
// its argument positions) accepts an actual call. Evaluation is position-wise
// with AND semantics; literals in the pattern act as equality matchers.
func patternMatchesCall(pattern, actual *CallRecord) bool {
	if pattern.Kind != actual.Kind || pattern.Name != actual.Name {
		return false
	}

	if len(pattern.Args) != len(actual.Args) {
		return false
	}

	for i := range pattern.Args {
		if ok, _ := MatchValue(actual.Args[i], pattern.Args[i]); !ok {
			return false
		}
	}

	return true
}
