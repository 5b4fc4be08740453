package app

import (
	"context"
	"fmt"
	"time"

	"frontdesk/internal/domain"
)

// QueryService is the read side: board and calendar projections with a
// read-through cache, plus uncached status resolution. Raw status is never
// cached; it is recomputed from bookings and the housekeeping flag on every
// call, which is what keeps displayed state impossible to go stale.
type QueryService struct {
	inv      domain.Inventory
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(inv domain.Inventory, cache domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{inv: inv, cache: cache, cacheTTL: ttl}
}

func boardKey(today domain.Date) string { return fmt.Sprintf("board:%s", today) }

func calendarKey(room string, start, end domain.Date) string {
	return fmt.Sprintf("calendar:%s:%s:%s", room, start, end)
}

// RoomStatus resolves one room's status for today. Deliberately uncached.
func (s *QueryService) RoomStatus(ctx context.Context, number string, today domain.Date) (RoomCardView, error) {
	room, err := s.inv.GetRoom(ctx, number)
	if err != nil {
		return RoomCardView{}, err
	}
	bookings, err := s.inv.BookingsForRoom(ctx, number)
	if err != nil {
		return RoomCardView{}, err
	}
	return roomCard(room, bookings, today)
}

// Board returns every room grouped by floor with resolved statuses.
func (s *QueryService) Board(ctx context.Context, today domain.Date) (BoardView, error) {
	key := boardKey(today)
	var cached BoardView
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	rooms, err := s.inv.ListRooms(ctx)
	if err != nil {
		return BoardView{}, err
	}
	cards := make([]RoomCardView, 0, len(rooms))
	for _, room := range rooms {
		bookings, err := s.inv.BookingsForRoom(ctx, room.Number)
		if err != nil {
			return BoardView{}, err
		}
		card, err := roomCard(room, bookings, today)
		if err != nil {
			return BoardView{}, err
		}
		cards = append(cards, card)
	}
	board := BoardView{Date: today.String(), Floors: groupByFloor(cards)}
	_ = s.cache.Set(ctx, key, board, int(s.cacheTTL.Seconds()))
	return board, nil
}

// Calendar classifies each day of [start, end] for one room.
func (s *QueryService) Calendar(ctx context.Context, number string, start, end domain.Date) (CalendarView, error) {
	if end.Before(start) {
		return CalendarView{}, fmt.Errorf("calendar: end %s before start %s", end, start)
	}
	key := calendarKey(number, start, end)
	var cached CalendarView
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	room, err := s.inv.GetRoom(ctx, number)
	if err != nil {
		return CalendarView{}, err
	}
	bookings, err := s.inv.BookingsForRoom(ctx, number)
	if err != nil {
		return CalendarView{}, err
	}
	slots, err := domain.QueryRange(bookings, start, end)
	if err != nil {
		return CalendarView{}, err
	}

	view := CalendarView{
		RoomNumber: room.Number,
		RoomType:   room.Type,
		Start:      start.String(),
		End:        end.String(),
		Days:       make([]CalendarDayView, 0, len(slots)),
	}
	for _, slot := range slots {
		view.Days = append(view.Days, CalendarDayView{
			Date:      slot.Date.String(),
			Kind:      slot.Kind,
			Guest:     slot.GuestName,
			BookingID: slot.BookingID,
		})
	}
	_ = s.cache.Set(ctx, key, view, int(s.cacheTTL.Seconds()))
	return view, nil
}

// Bookings lists a room's booking history, start ascending.
func (s *QueryService) Bookings(ctx context.Context, number string) ([]BookingView, error) {
	bookings, err := s.inv.BookingsForRoom(ctx, number)
	if err != nil {
		return nil, err
	}
	out := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingView(b))
	}
	return out, nil
}
