package constraint

import "errors"

var (
	// ErrInvalidConstraint is returned when a constraints object violates
	// its invariants: non-positive weight or volume budget, negative
	// bounds, or a category minimum exceeding its maximum.
	ErrInvalidConstraint = errors.New("invalid packing constraints")
	// ErrUnknownPreset is returned when a requested preset name has no
	// registry entry.
	ErrUnknownPreset = errors.New("unknown constraint preset")
)
