package domain

// ResolveStatus derives the room's display status for today from its
// bookings and housekeeping flag. First match wins:
//
//  1. housekeeping maintenance -> maintenance (hard override; a room under
//     maintenance is never shown as bookable)
//  2. confirmed booking containing today -> occupied
//  3. reserved booking containing today -> reserved
//  4. housekeeping dirty and the most recent past booking is checked out
//     -> checkout (just vacated, awaiting cleaning)
//  5. housekeeping dirty otherwise -> cleaning (manually flagged)
//  6. vacant
//
// The function is pure: calling it twice with unchanged inputs returns the
// same status. Nothing in the system stores the result.
func ResolveStatus(room Room, bookings []Booking, today Date) RoomStatus {
	if room.Housekeeping == HousekeepingMaintenance {
		return StatusMaintenance
	}

	var reservedToday bool
	for i := range bookings {
		b := &bookings[i]
		if !b.IsActive() || !b.Contains(today) {
			continue
		}
		if b.State == StateConfirmed {
			return StatusOccupied
		}
		reservedToday = true
	}
	if reservedToday {
		return StatusReserved
	}

	if room.Housekeeping == HousekeepingDirty {
		if last := mostRecentEnded(bookings, today); last != nil && last.State == StateCheckedOut {
			return StatusCheckout
		}
		return StatusCleaning
	}
	return StatusVacant
}

// mostRecentEnded returns the booking with the latest end day among those
// ending on or before today, or nil.
func mostRecentEnded(bookings []Booking, today Date) *Booking {
	var last *Booking
	for i := range bookings {
		b := &bookings[i]
		if b.State == StateCancelled {
			continue
		}
		if b.End.After(today) {
			continue
		}
		if last == nil || b.End.After(last.End) {
			last = b
		}
	}
	return last
}
