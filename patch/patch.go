// Package patch swaps real symbols for strictmock interceptors for the
// lifetime of a test scope.
//
// Func intercepts a function variable: production code calling through the
// variable hits a mock interceptor that participates in Given/Verify like any
// mocked method. Var swaps a plain variable (package-level or otherwise) for a
// fixed replacement. Both restore the original binding when the test
// completes, via the reporter's Cleanup hook when available, or via the
// returned restore function otherwise.
package patch

import (
	"reflect"
	"runtime"
	"strings"
	"sync"

	"github.com/strictmock/strictmock/internal/core"
	"github.com/strictmock/strictmock/internal/schema"
)

// TestReporter is the minimal interface patch needs from test frameworks.
type TestReporter = core.TestReporter

// PatchedFunc is the mock surface of a patched function variable. Use Call at
// Given/Verify capture sites the way you would use a mocked method.
type PatchedFunc struct {
	ic      *core.Interceptor
	restore func()
	once    sync.Once
}

// Func replaces the function stored in *target with an interceptor-backed
// one. Calls through the variable are intercepted: they require a matching
// stub and are recorded for verification. The original function is restored
// on test cleanup or on Restore, whichever comes first.
//
//	pf := patch.Func(t, &pkg.Now)
//	strictmock.Given(t).Call(pf.Call()).Returns(someTime)
func Func[F any](t TestReporter, target *F) *PatchedFunc {
	t.Helper()

	funcType := reflect.TypeFor[F]()
	if funcType.Kind() != reflect.Func {
		t.Fatalf("%v: patch.Func needs a pointer to a function variable, got *%v; use patch.Var for non-function variables",
			core.ErrPatchTarget, funcType)

		return nil
	}

	sig := schema.FuncSignature(funcType)
	name := funcName(reflect.ValueOf(*target))
	ic := core.NewInterceptor(t, core.StateFor(t), core.KindMethod, "patch", name, sig)

	original := *target

	replacement := reflect.MakeFunc(funcType, func(in []reflect.Value) []reflect.Value {
		results := ic.Intercept(flattenArgs(in, funcType))

		return resultValues(results, funcType)
	})

	*target = replacement.Interface().(F)

	patched := &PatchedFunc{
		ic:      ic,
		restore: func() { *target = original },
	}

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(patched.Restore)
	}

	return patched
}

// Var replaces the value stored in *target for the test scope and returns a
// restore function. The restore also runs on test cleanup when the reporter
// supports it; running it twice is harmless.
//
// Function variables belong in Func instead, so that calls through them are
// intercepted rather than silently replaced.
func Var[T any](t TestReporter, target *T, replacement T) (restore func()) {
	t.Helper()

	if reflect.TypeFor[T]().Kind() == reflect.Func {
		t.Fatalf("%v: patch.Var on a function variable bypasses interception; use patch.Func instead",
			core.ErrPatchTarget)

		return func() {}
	}

	original := *target
	*target = replacement

	var once sync.Once

	restore = func() {
		once.Do(func() { *target = original })
	}

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(restore)
	}

	return restore
}

// Call either dispatches a live call against the registered stubs or, inside
// a Given/Verify window, captures the invocation pattern.
func (p *PatchedFunc) Call(args ...any) []any {
	return p.ic.Intercept(args)
}

// Interceptors exposes the backing interceptor so the reset functions work on
// patched functions too.
func (p *PatchedFunc) Interceptors() []*core.Interceptor {
	return []*core.Interceptor{p.ic}
}

// Restore reinstates the original function. Idempotent.
func (p *PatchedFunc) Restore() {
	p.once.Do(p.restore)
}

// cleanupRegistrar is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}

// flattenArgs converts the reflect call frame into per-position arguments,
// expanding the trailing slice of a variadic function into individual
// positions so matching stays positional.
func flattenArgs(in []reflect.Value, funcType reflect.Type) []any {
	var args []any

	for i, value := range in {
		if funcType.IsVariadic() && i == len(in)-1 {
			for j := range value.Len() {
				args = append(args, value.Index(j).Interface())
			}

			continue
		}

		args = append(args, value.Interface())
	}

	return args
}

// funcName extracts a short display name for a function value, falling back
// to "func" for nil or anonymous values.
func funcName(value reflect.Value) string {
	if value.IsZero() {
		return "func"
	}

	full := runtime.FuncForPC(value.Pointer()).Name()
	if full == "" {
		return "func"
	}

	if idx := strings.LastIndex(full, "/"); idx >= 0 {
		full = full[idx+1:]
	}

	return full
}

// resultValues converts dispatch results back into the reflect call frame,
// zero-filling nils so typed returns stay well-formed.
func resultValues(results []any, funcType reflect.Type) []reflect.Value {
	out := make([]reflect.Value, funcType.NumOut())

	for i := range funcType.NumOut() {
		resultType := funcType.Out(i)
		out[i] = reflect.Zero(resultType)

		if i < len(results) && results[i] != nil {
			out[i] = reflect.ValueOf(results[i]).Convert(resultType)
		}
	}

	return out
}
