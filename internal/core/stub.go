package core

// Stub is a registered behavior bound to a matcher pattern. Stubs are never
// mutated after creation; re-stubbing appends a new Stub, shadowing older ones
// by selection order.
type Stub struct {
	pattern  *CallRecord
	behavior stubBehavior
}

// stubBehavior is the closed set of things a matched stub can do: return fixed
// values, panic, or compute from the realized arguments.
type stubBehavior interface {
	execute(args Args) []any
}

type returnsBehavior struct {
	values []any
}

func (b returnsBehavior) execute(Args) []any {
	return b.values
}

type panicsBehavior struct {
	value any
}

func (b panicsBehavior) execute(Args) []any {
	panic(b.value)
}

type runsBehavior struct {
	action func(Args) []any
}

func (b runsBehavior) execute(args Args) []any {
	return b.action(args)
}
