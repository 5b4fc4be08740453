package domain

import (
	"errors"
	"fmt"
)

// Expected, caller-correctable failures. They are returned to the immediate
// caller and never retried inside the core.
var (
	ErrOverlap           = errors.New("booking overlaps an active booking or hold")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("transition not permitted from current status")
	ErrOutOfWindow       = errors.New("action outside the booking's date window")
)

// InvariantError reports internal state corruption, e.g. two active bookings
// claiming the same room on the same day. It is always a defect, never a
// user error, and is kept as a distinct type so callers can tell it apart
// from the sentinel failures above.
type InvariantError struct {
	RoomNumber string
	Detail     string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation on room %s: %s", e.RoomNumber, e.Detail)
}

// IsInvariantViolation reports whether err (or anything it wraps) is an
// InvariantError.
func IsInvariantViolation(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
