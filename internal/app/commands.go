package app

import (
	"context"
	"fmt"

	"frontdesk/internal/domain"

	"github.com/rs/zerolog/log"
)

// DeskService is the write side: operator-triggered lifecycle transitions
// plus reservation management. Every action is validated against the
// permitted-action table for the room's resolved status; a rejected action
// mutates nothing. After a successful mutation the affected view caches are
// invalidated so projections rebuild from the new state.
type DeskService struct {
	inv   domain.Inventory
	cache domain.Cache
	today func() domain.Date
}

func NewDeskService(inv domain.Inventory, cache domain.Cache) *DeskService {
	return &DeskService{inv: inv, cache: cache, today: domain.Today}
}

// WithToday pins the service's notion of "today". Used by tests and by
// callers replaying historical days.
func (s *DeskService) WithToday(f func() domain.Date) *DeskService {
	s.today = f
	return s
}

// Reserve creates a reservation. The store's atomic check-and-insert rejects
// overlap with active bookings and maintenance holds.
func (s *DeskService) Reserve(ctx context.Context, number, guest string, start, end domain.Date) (BookingView, error) {
	b, err := s.inv.AddBooking(ctx, domain.Booking{
		RoomNumber: number,
		GuestName:  guest,
		Start:      start,
		End:        end,
		State:      domain.StateReserved,
	})
	if err != nil {
		return BookingView{}, err
	}
	log.Info().Str("room", number).Str("guest", guest).
		Str("start", start.String()).Str("end", end.String()).
		Int64("booking_id", b.ID).Msg("reservation created")
	s.invalidate(ctx, number, start, end)
	return bookingView(b), nil
}

// Cancel soft-cancels a reservation; the record stays for history.
func (s *DeskService) Cancel(ctx context.Context, id int64) error {
	b, err := s.inv.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if err := s.inv.CancelBooking(ctx, id); err != nil {
		return err
	}
	log.Info().Int64("booking_id", id).Str("room", b.RoomNumber).Msg("reservation cancelled")
	s.invalidate(ctx, b.RoomNumber, b.Start, b.End)
	return nil
}

// CheckIn puts a guest in the room. On a reserved room it confirms the
// reservation containing today. On a vacant room with a guest name it is a
// walk-in: a one-night booking starting today is created confirmed (extend
// the end date afterwards via a new reservation if the stay is longer). A
// check-in aimed at a reservation that has not started yet is out of window,
// not an implicit early arrival.
func (s *DeskService) CheckIn(ctx context.Context, number, guest string) (BookingView, error) {
	today := s.today()
	room, bookings, status, err := s.snapshot(ctx, number, today)
	if err != nil {
		return BookingView{}, err
	}

	switch status {
	case domain.StatusReserved:
		b, err := domain.ActiveOn(bookings, today)
		if err != nil {
			return BookingView{}, err
		}
		if b == nil || b.State != domain.StateReserved {
			return BookingView{}, fmt.Errorf("room %s has no reservation covering %s: %w",
				number, today, domain.ErrOutOfWindow)
		}
		if err := s.inv.SetBookingState(ctx, b.ID, domain.StateConfirmed); err != nil {
			return BookingView{}, err
		}
		b.State = domain.StateConfirmed
		log.Info().Str("room", number).Int64("booking_id", b.ID).Msg("guest checked in")
		s.invalidate(ctx, number, b.Start, b.End)
		return bookingView(*b), nil

	case domain.StatusVacant:
		if guest == "" {
			// No walk-in guest named: the operator is trying to check in a
			// reservation whose window has not opened (or has passed).
			if next := upcomingReservation(bookings, today); next != nil {
				return BookingView{}, fmt.Errorf("reservation %d starts %s: %w",
					next.ID, next.Start, domain.ErrOutOfWindow)
			}
			return BookingView{}, fmt.Errorf("room %s has no reservation: %w", number, domain.ErrNotFound)
		}
		b, err := s.inv.AddBooking(ctx, domain.Booking{
			RoomNumber: room.Number,
			GuestName:  guest,
			Start:      today,
			End:        today.AddDays(1),
			State:      domain.StateConfirmed,
		})
		if err != nil {
			return BookingView{}, err
		}
		log.Info().Str("room", number).Str("guest", guest).Int64("booking_id", b.ID).Msg("walk-in checked in")
		s.invalidate(ctx, number, b.Start, b.End)
		return bookingView(b), nil

	default:
		return BookingView{}, fmt.Errorf("check-in from %s: %w", status, domain.ErrInvalidTransition)
	}
}

// CheckOut ends the current stay: the booking becomes checked-out and the
// room is flagged dirty. Late departures (today past the booking's end) are
// accepted; a check-out before the stay begins is out of window.
func (s *DeskService) CheckOut(ctx context.Context, number string) (BookingView, error) {
	today := s.today()
	_, bookings, status, err := s.snapshot(ctx, number, today)
	if err != nil {
		return BookingView{}, err
	}
	if status == domain.StatusMaintenance {
		// a hold outranks everything; checking out would silently clear it
		return BookingView{}, fmt.Errorf("check-out from %s: %w", status, domain.ErrInvalidTransition)
	}

	b := currentStay(bookings, today)
	if b == nil {
		return BookingView{}, fmt.Errorf("check-out from %s: %w", status, domain.ErrInvalidTransition)
	}
	if today.Before(b.Start) {
		return BookingView{}, fmt.Errorf("stay starts %s: %w", b.Start, domain.ErrOutOfWindow)
	}
	if err := s.inv.SetBookingState(ctx, b.ID, domain.StateCheckedOut); err != nil {
		return BookingView{}, err
	}
	if err := s.inv.SetHousekeeping(ctx, number, domain.HousekeepingDirty, nil); err != nil {
		return BookingView{}, err
	}
	b.State = domain.StateCheckedOut
	log.Info().Str("room", number).Int64("booking_id", b.ID).Msg("guest checked out")
	s.invalidate(ctx, number, b.Start, b.End)
	return bookingView(*b), nil
}

// MarkReady returns a cleaning or maintenance room to service: the hold (if
// any) is cleared and housekeeping set clean.
func (s *DeskService) MarkReady(ctx context.Context, number string) error {
	today := s.today()
	_, _, status, err := s.snapshot(ctx, number, today)
	if err != nil {
		return err
	}
	if !domain.CanPerform(status, domain.ActionMarkReady) {
		return fmt.Errorf("mark-ready from %s: %w", status, domain.ErrInvalidTransition)
	}
	if err := s.inv.SetHousekeeping(ctx, number, domain.HousekeepingClean, nil); err != nil {
		return err
	}
	log.Info().Str("room", number).Msg("room marked ready")
	s.invalidate(ctx, number, today, today)
	return nil
}

// MarkClean finishes the post-checkout cleaning cycle.
func (s *DeskService) MarkClean(ctx context.Context, number string) error {
	today := s.today()
	_, _, status, err := s.snapshot(ctx, number, today)
	if err != nil {
		return err
	}
	if !domain.CanPerform(status, domain.ActionMarkClean) {
		return fmt.Errorf("mark-clean from %s: %w", status, domain.ErrInvalidTransition)
	}
	if err := s.inv.SetHousekeeping(ctx, number, domain.HousekeepingClean, nil); err != nil {
		return err
	}
	log.Info().Str("room", number).Msg("room marked clean")
	s.invalidate(ctx, number, today, today)
	return nil
}

// PlaceHold blocks the room for maintenance over [from, to]. Any active
// booking overlapping the window rejects the hold: a hold may not evict a
// guest or squat on a future reservation.
func (s *DeskService) PlaceHold(ctx context.Context, number string, from, to domain.Date, reason string) error {
	if to.Before(from) {
		return fmt.Errorf("hold end %s before start %s", to, from)
	}
	today := s.today()
	_, bookings, status, err := s.snapshot(ctx, number, today)
	if err != nil {
		return err
	}
	if !domain.CanPerform(status, domain.ActionPlaceHold) {
		return fmt.Errorf("place-hold from %s: %w", status, domain.ErrInvalidTransition)
	}
	for i := range bookings {
		b := &bookings[i]
		if b.IsActive() && b.Overlaps(from, to) {
			return fmt.Errorf("booking %d occupies %s..%s: %w", b.ID, b.Start, b.End, domain.ErrOverlap)
		}
	}
	hold := &domain.Hold{From: from, To: to, Reason: reason}
	if err := s.inv.SetHousekeeping(ctx, number, domain.HousekeepingMaintenance, hold); err != nil {
		return err
	}
	log.Info().Str("room", number).Str("from", from.String()).Str("to", to.String()).
		Str("reason", reason).Msg("maintenance hold placed")
	s.invalidate(ctx, number, from, to)
	return nil
}

func (s *DeskService) snapshot(ctx context.Context, number string, today domain.Date) (domain.Room, []domain.Booking, domain.RoomStatus, error) {
	room, err := s.inv.GetRoom(ctx, number)
	if err != nil {
		return domain.Room{}, nil, "", err
	}
	bookings, err := s.inv.BookingsForRoom(ctx, number)
	if err != nil {
		return domain.Room{}, nil, "", err
	}
	return room, bookings, domain.ResolveStatus(room, bookings, today), nil
}

// currentStay finds the confirmed booking the guest occupies today,
// accepting overstays past the booking's end day.
func currentStay(bookings []domain.Booking, today domain.Date) *domain.Booking {
	var stay *domain.Booking
	for i := range bookings {
		b := &bookings[i]
		if b.State != domain.StateConfirmed {
			continue
		}
		if b.Contains(today) {
			return b
		}
		if b.End.Before(today) && (stay == nil || b.End.After(stay.End)) {
			stay = b
		}
	}
	return stay
}

// upcomingReservation returns the earliest reserved booking starting after
// today, or nil.
func upcomingReservation(bookings []domain.Booking, today domain.Date) *domain.Booking {
	var next *domain.Booking
	for i := range bookings {
		b := &bookings[i]
		if b.State != domain.StateReserved || !b.Start.After(today) {
			continue
		}
		if next == nil || b.Start.Before(next.Start) {
			next = b
		}
	}
	return next
}

// invalidate drops the board keys and the weekly calendar keys touched by a
// mutation over [from, to]. Other cached ranges age out with their TTL.
func (s *DeskService) invalidate(ctx context.Context, number string, from, to domain.Date) {
	today := s.today()
	keys := []string{boardKey(today)}
	seen := map[string]bool{keys[0]: true}

	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for d := from; !d.After(to); d = d.AddDays(7) {
		ws := d.StartOfWeek()
		add(calendarKey(number, ws, ws.AddDays(6)))
		add(boardKey(d))
	}
	ws := to.StartOfWeek()
	add(calendarKey(number, ws, ws.AddDays(6)))

	if err := s.cache.Del(ctx, keys...); err != nil {
		log.Warn().Err(err).Str("room", number).Msg("cache invalidation failed")
	}
}
