package core

import "fmt"

// Args provides access to the realized arguments of an intercepted call.
// Runs behaviors receive one per dispatch.
type Args struct {
	names  []string
	values []any
}

// At returns the argument at position i.
func (a Args) At(i int) any {
	if i < 0 || i >= len(a.values) {
		panic(fmt.Sprintf("no argument at position %d; the call had %d", i, len(a.values)))
	}

	return a.values[i]
}

// Get returns the argument with the given parameter name.
func (a Args) Get(name string) any {
	for i, candidate := range a.names {
		if candidate == name {
			return a.values[i]
		}
	}

	panic(fmt.Sprintf("no argument named %q; available: %v", name, a.names))
}

// Len returns the number of arguments.
func (a Args) Len() int {
	return len(a.values)
}

// ArgAt returns the argument at position i, asserted to type T.
func ArgAt[T any](args Args, i int) T {
	value := args.At(i)

	typed, ok := value.(T)
	if !ok {
		panic(fmt.Sprintf("argument %d has type %T, expected %T", i, value, *new(T)))
	}

	return typed
}
