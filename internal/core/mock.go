package core

import (
	"reflect"
	"sync"

	"github.com/strictmock/strictmock/internal/schema"
)

// Handle is one mocked instance: a mapping from member name to its
// interceptor(s), one for each method and a getter/setter pair for each field.
// Lookups are memoized, so repeated access to the same member always yields
// the same interceptor.
type Handle struct {
	t     TestReporter
	state *DslState
	sch   *schema.Schema

	mu      sync.Mutex
	methods map[string]*Method
	fields  map[string]*FieldRef
}

// NewHandle creates a mock handle over a discovered schema, bound to the DSL
// state of the given reporter.
func NewHandle(t TestReporter, sch *schema.Schema) *Handle {
	return &Handle{
		t:       t,
		state:   StateFor(t),
		sch:     sch,
		methods: map[string]*Method{},
		fields:  map[string]*FieldRef{},
	}
}

// Field returns the stable reference for a field member. Unknown names fail
// the test.
func (h *Handle) Field(name string) *FieldRef {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ref, ok := h.fields[name]; ok {
		return ref
	}

	field, ok := h.sch.Fields[name]
	if !ok {
		h.t.Fatalf("%v: %s has no field %q", ErrStubbing, h.sch.TypeName, name)

		return nil
	}

	ref := &FieldRef{
		t:    h.t,
		name: name,
		getter: NewInterceptor(h.t, h.state, KindGetter, h.sch.TypeName, name, schema.Signature{
			Results: []reflect.Type{field.Type},
		}),
	}

	if !field.ReadOnly {
		ref.setter = NewInterceptor(h.t, h.state, KindSetter, h.sch.TypeName, name, schema.Signature{
			Params: []schema.Param{{Name: "value", Type: field.Type}},
		})
	}

	h.fields[name] = ref

	return ref
}

// Interceptors returns every interceptor owned by this handle, methods and
// field getter/setter pairs alike. Used by the reset functions.
func (h *Handle) Interceptors() []*Interceptor {
	h.mu.Lock()
	defer h.mu.Unlock()

	var all []*Interceptor

	for _, method := range h.methods {
		all = append(all, method.ic)
	}

	for _, ref := range h.fields {
		all = append(all, ref.getter)

		if ref.setter != nil {
			all = append(all, ref.setter)
		}
	}

	return all
}

// Method returns the stable wrapper for a method member. Unknown names fail
// the test.
func (h *Handle) Method(name string) *Method {
	h.mu.Lock()
	defer h.mu.Unlock()

	if method, ok := h.methods[name]; ok {
		return method
	}

	sig, ok := h.sch.Methods[name]
	if !ok {
		h.t.Fatalf("%v: %s has no method %q", ErrStubbing, h.sch.TypeName, name)

		return nil
	}

	method := &Method{ic: NewInterceptor(h.t, h.state, KindMethod, h.sch.TypeName, name, sig)}
	h.methods[name] = method

	return method
}

// Reset empties interactions and behaviors of every member.
func (h *Handle) Reset() {
	Reset(h)
}

// ResetBehaviors empties the stubs of every member; interactions survive.
func (h *Handle) ResetBehaviors() {
	ResetBehaviors(h)
}

// ResetInteractions empties the call history of every member; stubs survive.
func (h *Handle) ResetInteractions() {
	ResetInteractions(h)
}

// Method wraps a method interceptor with the callable surface test code uses.
type Method struct {
	ic *Interceptor
}

// Call either dispatches a live call against the registered stubs or, inside a
// Given/Verify window, captures the invocation pattern.
func (m *Method) Call(args ...any) []any {
	return m.ic.Intercept(args)
}

// FieldRef is the stable reference to a mocked field: a getter interceptor and,
// unless the field is read-only, a setter interceptor.
type FieldRef struct {
	t      TestReporter
	name   string
	getter *Interceptor
	setter *Interceptor
}

// Get reads the field: a live read requires a matching getter stub, while a
// read inside a Given/Verify window is captured.
func (f *FieldRef) Get() any {
	results := f.getter.Intercept(nil)
	if len(results) == 0 {
		return nil
	}

	return results[0]
}

// Set writes the field. Read-only fields reject the write.
func (f *FieldRef) Set(value any) {
	if f.setter == nil {
		f.t.Helper()
		f.t.Fatalf("%v: field %s is read-only and cannot be set", ErrStubbing, f.name)

		return
	}

	f.setter.Intercept([]any{value})
}
