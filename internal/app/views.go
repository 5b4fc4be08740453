package app

import (
	"sort"

	"frontdesk/internal/domain"
)

// View models returned to the presentation layer. They carry everything a
// room card or calendar cell renders so the front end never derives status
// on its own.

type RoomCardView struct {
	RoomNumber string            `json:"roomNumber"`
	RoomType   string            `json:"type"`
	Floor      string            `json:"floor"`
	Status     domain.RoomStatus `json:"status"`
	Guest      string            `json:"guest,omitempty"`
	CheckIn    string            `json:"checkIn,omitempty"`
	CheckOut   string            `json:"checkOut,omitempty"`
	Actions    []domain.Action   `json:"actions"`
}

type FloorView struct {
	Floor string         `json:"floor"`
	Rooms []RoomCardView `json:"rooms"`
}

type BoardView struct {
	Date   string      `json:"date"`
	Floors []FloorView `json:"floors"`
}

type CalendarDayView struct {
	Date      string         `json:"date"`
	Kind      domain.DayKind `json:"kind"`
	Guest     string         `json:"guest,omitempty"`
	BookingID int64          `json:"bookingId,omitempty"`
}

type CalendarView struct {
	RoomNumber string            `json:"roomNumber"`
	RoomType   string            `json:"type"`
	Start      string            `json:"start"`
	End        string            `json:"end"`
	Days       []CalendarDayView `json:"days"`
}

type BookingView struct {
	ID        int64               `json:"id"`
	Room      string              `json:"roomNumber"`
	GuestName string              `json:"guestName"`
	Start     string              `json:"startDate"`
	End       string              `json:"endDate"`
	State     domain.BookingState `json:"state"`
}

func roomCard(room domain.Room, bookings []domain.Booking, today domain.Date) (RoomCardView, error) {
	status := domain.ResolveStatus(room, bookings, today)
	card := RoomCardView{
		RoomNumber: room.Number,
		RoomType:   room.Type,
		Floor:      room.Floor(),
		Status:     status,
		Actions:    domain.PermittedActions(status),
	}
	// Occupied and reserved cards show who holds the room and for how long.
	if status == domain.StatusOccupied || status == domain.StatusReserved {
		b, err := domain.ActiveOn(bookings, today)
		if err != nil {
			return RoomCardView{}, err
		}
		if b != nil {
			card.Guest = b.GuestName
			card.CheckIn = b.Start.String()
			card.CheckOut = b.End.String()
		}
	}
	return card, nil
}

// groupByFloor splits cards into floor sections ordered by floor, preserving
// the card order within each floor.
func groupByFloor(cards []RoomCardView) []FloorView {
	byFloor := make(map[string][]RoomCardView)
	for _, c := range cards {
		byFloor[c.Floor] = append(byFloor[c.Floor], c)
	}
	floors := make([]string, 0, len(byFloor))
	for f := range byFloor {
		floors = append(floors, f)
	}
	sort.Strings(floors)

	out := make([]FloorView, 0, len(floors))
	for _, f := range floors {
		out = append(out, FloorView{Floor: f, Rooms: byFloor[f]})
	}
	return out
}

func bookingView(b domain.Booking) BookingView {
	return BookingView{
		ID:        b.ID,
		Room:      b.RoomNumber,
		GuestName: b.GuestName,
		Start:     b.Start.String(),
		End:       b.End.String(),
		State:     b.State,
	}
}
