package core

import "errors"

// Sentinel errors for the failure categories strictmock reports. Every
// failure message wraps exactly one of these, so tests that capture reporter
// output can classify failures with errors.Is.
var (
	// ErrStubbing marks malformed arrange statements: unknown members, arity
	// or type drift against the declared signature, writes to read-only
	// fields.
	ErrStubbing = errors.New("strictmock stubbing error")

	// ErrUnexpectedCall marks a live call that no registered behavior accepts.
	ErrUnexpectedCall = errors.New("strictmock unexpected call")

	// ErrVerification marks a cardinality assertion that does not hold.
	ErrVerification = errors.New("strictmock verification failure")

	// ErrDanglingDSL marks a Given/Verify statement that was opened but never
	// completed, or completed out of order.
	ErrDanglingDSL = errors.New("strictmock incomplete statement")

	// ErrPatchTarget marks a patch request whose target has the wrong shape.
	ErrPatchTarget = errors.New("strictmock patch error")
)
