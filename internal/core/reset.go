package core

// InterceptorOwner is anything that can enumerate its interceptors: mock
// handles and patched functions alike.
type InterceptorOwner interface {
	Interceptors() []*Interceptor
}

// Reset clears all interactions and behaviors from a mock, returning it to its
// initial state without destroying member identity. Idempotent.
func Reset(owner InterceptorOwner) {
	ResetInteractions(owner)
	ResetBehaviors(owner)
}

// ResetBehaviors clears all stubbed behaviors from a mock. Unstubbed calls
// fail with an unexpected-call error afterward; recorded interactions are
// preserved.
func ResetBehaviors(owner InterceptorOwner) {
	if owner == nil {
		return
	}

	for _, ic := range owner.Interceptors() {
		ic.ResetBehaviors()
	}
}

// ResetInteractions clears all recorded calls from a mock. Verification sees
// no previous interactions afterward; stubbed behaviors are preserved.
func ResetInteractions(owner InterceptorOwner) {
	if owner == nil {
		return
	}

	for _, ic := range owner.Interceptors() {
		ic.ResetInteractions()
	}
}
