package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"frontdesk/internal/domain"
)

// Repo is the MySQL Inventory. Per-room atomicity for AddBooking comes from
// locking the room row (SELECT ... FOR UPDATE) inside one transaction, so
// the hold check, the overlap count and the insert observe the same state.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func dateArg(d domain.Date) any { return d.String() }

func holdArgs(h *domain.Hold) (any, any, any) {
	if h == nil {
		return nil, nil, nil
	}
	return h.From.String(), h.To.String(), h.Reason
}

func (r *Repo) UpsertRoom(ctx context.Context, room domain.Room) error {
	if room.Number == "" {
		return fmt.Errorf("room number is required")
	}
	if room.Housekeeping == "" {
		room.Housekeeping = domain.HousekeepingClean
	}
	hf, ht, hr := holdArgs(room.Hold)
	_, err := r.db.ExecContext(ctx, upsertRoomSQL,
		room.Number, room.Type, string(room.Housekeeping), hf, ht, hr)
	return err
}

func (r *Repo) GetRoom(ctx context.Context, number string) (domain.Room, error) {
	return scanRoom(r.db.QueryRowContext(ctx, getRoomSQL, number), number)
}

func (r *Repo) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, listRoomsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		room, err := scanRoomRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

func (r *Repo) SetHousekeeping(ctx context.Context, number string, hk domain.Housekeeping, hold *domain.Hold) error {
	hf, ht, hr := holdArgs(hold)
	res, err := r.db.ExecContext(ctx, setHousekeepingSQL, string(hk), hf, ht, hr, number)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is 0 both for a missing room and for a no-op update;
		// disambiguate with a read.
		if _, gerr := r.GetRoom(ctx, number); gerr != nil {
			return gerr
		}
	}
	return nil
}

func (r *Repo) AddBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if b.GuestName == "" {
		return domain.Booking{}, fmt.Errorf("guest name is required")
	}
	if b.End.Before(b.Start) {
		return domain.Booking{}, fmt.Errorf("booking end %s before start %s", b.End, b.Start)
	}
	if b.State == "" {
		b.State = domain.StateReserved
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Booking{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var hk string
	var holdFrom, holdTo sql.NullTime
	err = tx.QueryRowContext(ctx, lockRoomSQL, b.RoomNumber).Scan(&hk, &holdFrom, &holdTo)
	if err == sql.ErrNoRows {
		return domain.Booking{}, fmt.Errorf("room %s: %w", b.RoomNumber, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Booking{}, err
	}
	if holdFrom.Valid && holdTo.Valid {
		h := domain.Hold{From: domain.DateOf(holdFrom.Time), To: domain.DateOf(holdTo.Time)}
		if h.Overlaps(b.Start, b.End) {
			return domain.Booking{}, fmt.Errorf("room %s held for maintenance %s..%s: %w",
				b.RoomNumber, h.From, h.To, domain.ErrOverlap)
		}
	}

	var n int
	if err := tx.QueryRowContext(ctx, countOverlapSQL,
		b.RoomNumber, dateArg(b.End), dateArg(b.Start)).Scan(&n); err != nil {
		return domain.Booking{}, err
	}
	if n > 0 {
		return domain.Booking{}, fmt.Errorf("room %s already booked over %s..%s: %w",
			b.RoomNumber, b.Start, b.End, domain.ErrOverlap)
	}

	res, err := tx.ExecContext(ctx, insertBookingSQL,
		b.RoomNumber, b.GuestName, dateArg(b.Start), dateArg(b.End), string(b.State))
	if err != nil {
		return domain.Booking{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Booking{}, err
	}
	return r.GetBooking(ctx, id)
}

func (r *Repo) CancelBooking(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var state string
	err = tx.QueryRowContext(ctx, lockBookingStateSQL, id).Scan(&state)
	if err == sql.ErrNoRows {
		return fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return err
	}
	bs := domain.BookingState(state)
	if bs != domain.StateReserved && bs != domain.StateConfirmed {
		return fmt.Errorf("booking %d is %s: %w", id, bs, domain.ErrInvalidTransition)
	}
	if _, err := tx.ExecContext(ctx, setBookingStateSQL, string(domain.StateCancelled), id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repo) SetBookingState(ctx context.Context, id int64, state domain.BookingState) error {
	res, err := r.db.ExecContext(ctx, setBookingStateSQL, string(state), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, gerr := r.GetBooking(ctx, id); gerr != nil {
			return gerr
		}
	}
	return nil
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, id))
	if err == sql.ErrNoRows {
		return domain.Booking{}, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	return b, err
}

func (r *Repo) BookingsForRoom(ctx context.Context, number string) ([]domain.Booking, error) {
	// distinguish an empty history from an unknown room
	if _, err := r.GetRoom(ctx, number); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, bookingsForRoomSQL, number)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) ActiveBookingOn(ctx context.Context, number string, date domain.Date) (*domain.Booking, error) {
	bookings, err := r.BookingsForRoom(ctx, number)
	if err != nil {
		return nil, err
	}
	return domain.ActiveOn(bookings, date)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRoom(row *sql.Row, number string) (domain.Room, error) {
	room, err := scanRoomRow(row)
	if err == sql.ErrNoRows {
		return domain.Room{}, fmt.Errorf("room %s: %w", number, domain.ErrNotFound)
	}
	return room, err
}

func scanRoomRow(s scanner) (domain.Room, error) {
	var room domain.Room
	var hk string
	var holdFrom, holdTo sql.NullTime
	var holdReason sql.NullString
	if err := s.Scan(&room.Number, &room.Type, &hk, &holdFrom, &holdTo, &holdReason); err != nil {
		return domain.Room{}, err
	}
	room.Housekeeping = domain.Housekeeping(hk)
	if holdFrom.Valid && holdTo.Valid {
		room.Hold = &domain.Hold{
			From:   domain.DateOf(holdFrom.Time),
			To:     domain.DateOf(holdTo.Time),
			Reason: holdReason.String,
		}
	}
	return room, nil
}

func scanBooking(s scanner) (domain.Booking, error) {
	var b domain.Booking
	var start, end sql.NullTime
	var state string
	if err := s.Scan(&b.ID, &b.RoomNumber, &b.GuestName, &start, &end, &state, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return domain.Booking{}, err
	}
	b.Start = domain.DateOf(start.Time)
	b.End = domain.DateOf(end.Time)
	b.State = domain.BookingState(state)
	return b, nil
}
