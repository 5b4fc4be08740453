package domain

import "fmt"

// DayKind classifies one calendar day of a room's availability. The edge
// kinds drive the calendar's check-in/check-out markers.
type DayKind string

const (
	DayFree           DayKind = "free"
	DayOccupiedStart  DayKind = "occupied_start"
	DayOccupiedEnd    DayKind = "occupied_end"
	DayOccupiedSingle DayKind = "occupied_single" // start and end on the same day
	DayOccupiedMiddle DayKind = "occupied_middle"
)

// DaySlot is the availability of one room on one day. BookingID and
// GuestName are zero when the day is free.
type DaySlot struct {
	Date      Date
	Kind      DayKind
	BookingID int64
	GuestName string
}

// ActiveOn returns the single active booking containing d, or nil when the
// day is free. Finding two is prior state corruption and fails loudly with
// an InvariantError rather than silently picking one.
func ActiveOn(bookings []Booking, d Date) (*Booking, error) {
	var found *Booking
	for i := range bookings {
		b := &bookings[i]
		if !b.IsActive() || !b.Contains(d) {
			continue
		}
		if found != nil {
			return nil, &InvariantError{
				RoomNumber: b.RoomNumber,
				Detail: fmt.Sprintf("bookings %d and %d both active on %s",
					found.ID, b.ID, d),
			}
		}
		found = b
	}
	return found, nil
}

// QueryRange classifies every day in [start, end] against the given
// bookings. Days carry the booking's id and guest so the calendar can label
// cells without a second lookup.
func QueryRange(bookings []Booking, start, end Date) ([]DaySlot, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("query range: end %s before start %s", end, start)
	}
	out := make([]DaySlot, 0, DaysBetween(start, end)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		b, err := ActiveOn(bookings, d)
		if err != nil {
			return nil, err
		}
		out = append(out, classify(b, d))
	}
	return out, nil
}

func classify(b *Booking, d Date) DaySlot {
	if b == nil {
		return DaySlot{Date: d, Kind: DayFree}
	}
	slot := DaySlot{Date: d, BookingID: b.ID, GuestName: b.GuestName}
	switch {
	case b.Start.Equal(d) && b.End.Equal(d):
		slot.Kind = DayOccupiedSingle
	case b.Start.Equal(d):
		slot.Kind = DayOccupiedStart
	case b.End.Equal(d):
		slot.Kind = DayOccupiedEnd
	default:
		slot.Kind = DayOccupiedMiddle
	}
	return slot
}
