package domain

import "time"

// BookingState is the lifecycle state of a booking.
type BookingState string

const (
	StateReserved   BookingState = "reserved"
	StateConfirmed  BookingState = "confirmed" // guest is checked in
	StateCheckedOut BookingState = "checked_out"
	StateCancelled  BookingState = "cancelled"
)

// Booking is a guest's claim on a room over [Start, End]. Both edges are
// inclusive: a one-night stay has Start = check-in day and End = check-out
// day. Bookings are never deleted; cancellation is a state change so history
// survives.
type Booking struct {
	ID         int64
	RoomNumber string
	GuestName  string
	Start      Date
	End        Date
	State      BookingState
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsActive reports whether the booking still holds a claim on its room.
// Cancelled and checked-out bookings are history only.
func (b *Booking) IsActive() bool {
	return b.State == StateReserved || b.State == StateConfirmed
}

// Contains reports whether d falls inside the booking's closed interval.
func (b *Booking) Contains(d Date) bool {
	return !d.Before(b.Start) && !d.After(b.End)
}

// Overlaps reports whether [start, end] intersects the booking's interval.
// Closed-closed semantics: a booking ending on day N still occupies day N, so
// another booking starting on N overlaps. Turnover on the same calendar day
// requires an explicit check-out + clean cycle first.
func (b *Booking) Overlaps(start, end Date) bool {
	return !b.End.Before(start) && !b.Start.After(end)
}

// Nights is the number of nights the guest stays.
func (b *Booking) Nights() int {
	n := DaysBetween(b.Start, b.End)
	if n < 1 {
		return 1
	}
	return n
}
