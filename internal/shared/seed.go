package shared

import (
	"time"

	"frontdesk/internal/domain"
)

// SeedRooms is the demo inventory used by the in-memory store and the seeder:
// three floors, room types matching what the booking desk actually sells.
func SeedRooms() []domain.Room {
	return []domain.Room{
		{Number: "101", Type: "Standard Single", Housekeeping: domain.HousekeepingClean},
		{Number: "102", Type: "Standard Double", Housekeeping: domain.HousekeepingClean},
		{Number: "103", Type: "Standard Double", Housekeeping: domain.HousekeepingClean},
		{Number: "201", Type: "Deluxe Single", Housekeeping: domain.HousekeepingClean},
		{Number: "202", Type: "Deluxe Double", Housekeeping: domain.HousekeepingClean},
		{Number: "301", Type: "Executive Suite", Housekeeping: domain.HousekeepingClean},
	}
}

// SeedBookings returns demo reservations over the first May 2025 week.
func SeedBookings() []domain.Booking {
	may := func(d int) domain.Date { return domain.NewDate(2025, time.May, d) }
	return []domain.Booking{
		{RoomNumber: "101", GuestName: "John Smith", Start: may(3), End: may(7), State: domain.StateConfirmed},
		{RoomNumber: "102", GuestName: "Emily Johnson", Start: may(5), End: may(10), State: domain.StateReserved},
		{RoomNumber: "201", GuestName: "Michael Brown", Start: may(8), End: may(12), State: domain.StateReserved},
	}
}
