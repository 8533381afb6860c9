package keynumber

import "errors"

var (
	// ErrBadInput is returned when a key contains a character outside the
	// fixed 64-symbol alphabet.
	ErrBadInput = errors.New("keynumber: key contains a character outside the fixed alphabet")

	// ErrLogicalInvariant is returned when Sub is called with a left
	// operand smaller than the right; callers are expected to guarantee
	// this never happens, so seeing it indicates a planner or worker bug.
	ErrLogicalInvariant = errors.New("keynumber: subtraction would underflow (left < right)")
)
