package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"frontdesk/internal/domain"
)

// Store is the in-memory Inventory. Locking is scoped per room: the overlap
// check and insert happen under one room's mutex, so concurrent check-ins
// cannot race into a double booking while writes to other rooms proceed
// untouched. The store-level RWMutex only guards the maps.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*roomState
	index map[int64]string // booking id -> room number
	seq   int64
}

type roomState struct {
	mu       sync.Mutex
	room     domain.Room
	bookings []domain.Booking // kept sorted by start date
}

func New() *Store {
	return &Store{
		rooms: make(map[string]*roomState),
		index: make(map[int64]string),
	}
}

func (s *Store) roomState(number string) (*roomState, error) {
	s.mu.RLock()
	rs, ok := s.rooms[number]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("room %s: %w", number, domain.ErrNotFound)
	}
	return rs, nil
}

func (s *Store) UpsertRoom(_ context.Context, r domain.Room) error {
	if r.Number == "" {
		return fmt.Errorf("room number is required")
	}
	if r.Housekeeping == "" {
		r.Housekeeping = domain.HousekeepingClean
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rs, ok := s.rooms[r.Number]; ok {
		rs.mu.Lock()
		rs.room = r
		rs.mu.Unlock()
		return nil
	}
	s.rooms[r.Number] = &roomState{room: r}
	return nil
}

func (s *Store) GetRoom(_ context.Context, number string) (domain.Room, error) {
	rs, err := s.roomState(number)
	if err != nil {
		return domain.Room{}, err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return copyRoom(rs.room), nil
}

func (s *Store) ListRooms(_ context.Context) ([]domain.Room, error) {
	s.mu.RLock()
	states := make([]*roomState, 0, len(s.rooms))
	for _, rs := range s.rooms {
		states = append(states, rs)
	}
	s.mu.RUnlock()

	out := make([]domain.Room, 0, len(states))
	for _, rs := range states {
		rs.mu.Lock()
		out = append(out, copyRoom(rs.room))
		rs.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (s *Store) SetHousekeeping(_ context.Context, number string, hk domain.Housekeeping, hold *domain.Hold) error {
	rs, err := s.roomState(number)
	if err != nil {
		return err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.room.Housekeeping = hk
	if hold != nil {
		h := *hold
		rs.room.Hold = &h
	} else {
		rs.room.Hold = nil
	}
	return nil
}

func (s *Store) AddBooking(_ context.Context, b domain.Booking) (domain.Booking, error) {
	if b.GuestName == "" {
		return domain.Booking{}, fmt.Errorf("guest name is required")
	}
	if b.End.Before(b.Start) {
		return domain.Booking{}, fmt.Errorf("booking end %s before start %s", b.End, b.Start)
	}
	if b.State == "" {
		b.State = domain.StateReserved
	}
	rs, err := s.roomState(b.RoomNumber)
	if err != nil {
		return domain.Booking{}, err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	// Check and insert under the room lock: this is the atomicity the
	// non-overlap invariant depends on.
	if h := rs.room.Hold; h != nil && h.Overlaps(b.Start, b.End) {
		return domain.Booking{}, fmt.Errorf("room %s held for maintenance %s..%s: %w",
			b.RoomNumber, h.From, h.To, domain.ErrOverlap)
	}
	for i := range rs.bookings {
		ex := &rs.bookings[i]
		if ex.IsActive() && ex.Overlaps(b.Start, b.End) {
			return domain.Booking{}, fmt.Errorf("room %s already booked %s..%s by %s: %w",
				b.RoomNumber, ex.Start, ex.End, ex.GuestName, domain.ErrOverlap)
		}
	}

	b.ID = atomic.AddInt64(&s.seq, 1)
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	rs.bookings = append(rs.bookings, b)
	sort.SliceStable(rs.bookings, func(i, j int) bool {
		return rs.bookings[i].Start.Before(rs.bookings[j].Start)
	})

	s.mu.Lock()
	s.index[b.ID] = b.RoomNumber
	s.mu.Unlock()
	return b, nil
}

func (s *Store) CancelBooking(_ context.Context, id int64) error {
	rs, _, err := s.findBooking(id)
	if err != nil {
		return err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	cur := bookingByID(rs.bookings, id)
	if cur == nil {
		return fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	if !cur.IsActive() {
		return fmt.Errorf("booking %d is %s: %w", id, cur.State, domain.ErrInvalidTransition)
	}
	cur.State = domain.StateCancelled
	cur.UpdatedAt = time.Now()
	return nil
}

func (s *Store) SetBookingState(_ context.Context, id int64, state domain.BookingState) error {
	rs, _, err := s.findBooking(id)
	if err != nil {
		return err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	cur := bookingByID(rs.bookings, id)
	if cur == nil {
		return fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	cur.State = state
	cur.UpdatedAt = time.Now()
	return nil
}

func (s *Store) GetBooking(_ context.Context, id int64) (domain.Booking, error) {
	rs, _, err := s.findBooking(id)
	if err != nil {
		return domain.Booking{}, err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	cur := bookingByID(rs.bookings, id)
	if cur == nil {
		return domain.Booking{}, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	return *cur, nil
}

func (s *Store) BookingsForRoom(_ context.Context, number string) ([]domain.Booking, error) {
	rs, err := s.roomState(number)
	if err != nil {
		return nil, err
	}
	rs.mu.Lock()
	defer rs.mu.Unlock()
	// snapshot copy so readers never observe a mid-mutation slice
	out := make([]domain.Booking, len(rs.bookings))
	copy(out, rs.bookings)
	return out, nil
}

func (s *Store) ActiveBookingOn(ctx context.Context, number string, date domain.Date) (*domain.Booking, error) {
	bookings, err := s.BookingsForRoom(ctx, number)
	if err != nil {
		return nil, err
	}
	return domain.ActiveOn(bookings, date)
}

// findBooking resolves id to its room via the index. The index lookup and
// the room lock are separate acquisitions; callers re-find the booking under
// the room lock before mutating.
func (s *Store) findBooking(id int64) (*roomState, string, error) {
	s.mu.RLock()
	number, ok := s.index[id]
	s.mu.RUnlock()
	if !ok {
		return nil, "", fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	rs, err := s.roomState(number)
	if err != nil {
		return nil, "", err
	}
	return rs, number, nil
}

func bookingByID(bookings []domain.Booking, id int64) *domain.Booking {
	for i := range bookings {
		if bookings[i].ID == id {
			return &bookings[i]
		}
	}
	return nil
}

func copyRoom(r domain.Room) domain.Room {
	out := r
	if r.Hold != nil {
		h := *r.Hold
		out.Hold = &h
	}
	return out
}
