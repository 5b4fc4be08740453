package domain

import "context"

// Inventory owns room and booking records. Implementations must make the
// overlap check and insert in AddBooking atomic per room; that is the only
// mutual exclusion the core requires. Writes to different rooms do not
// interfere, and readers always observe a consistent snapshot.
type Inventory interface {
	// Rooms
	UpsertRoom(ctx context.Context, r Room) error
	GetRoom(ctx context.Context, number string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	// SetHousekeeping replaces the room's flag and hold window together so a
	// hold can never outlive its maintenance flag.
	SetHousekeeping(ctx context.Context, number string, hk Housekeeping, hold *Hold) error

	// Bookings
	// AddBooking validates the interval, rejects overlap with any active
	// booking or maintenance hold on the room (ErrOverlap), and assigns the id.
	AddBooking(ctx context.Context, b Booking) (Booking, error)
	CancelBooking(ctx context.Context, id int64) error
	SetBookingState(ctx context.Context, id int64, state BookingState) error
	GetBooking(ctx context.Context, id int64) (Booking, error)
	// BookingsForRoom returns all bookings (history included) sorted by start
	// date ascending.
	BookingsForRoom(ctx context.Context, number string) ([]Booking, error)
	// ActiveBookingOn returns the single active booking containing date, or
	// nil. Two matches is an InvariantError.
	ActiveBookingOn(ctx context.Context, number string, date Date) (*Booking, error)
}

// Cache is a read-through cache for assembled view projections. Derived room
// status is never cached; only rendered board/calendar views pass through,
// TTL-bounded and invalidated on every mutation of the room.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, keys ...string) error
}
