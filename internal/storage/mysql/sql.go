package mysql

const upsertRoomSQL = `
INSERT INTO rooms
  (number, room_type, housekeeping, hold_from, hold_to, hold_reason)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  room_type    = VALUES(room_type),
  housekeeping = VALUES(housekeeping),
  hold_from    = VALUES(hold_from),
  hold_to      = VALUES(hold_to),
  hold_reason  = VALUES(hold_reason),
  updated_at   = CURRENT_TIMESTAMP
`

const getRoomSQL = `
SELECT number, room_type, housekeeping, hold_from, hold_to, hold_reason
FROM rooms
WHERE number = ?
`

const listRoomsSQL = `
SELECT number, room_type, housekeeping, hold_from, hold_to, hold_reason
FROM rooms
ORDER BY number
`

const setHousekeepingSQL = `
UPDATE rooms
SET housekeeping = ?,
    hold_from    = ?,
    hold_to      = ?,
    hold_reason  = ?,
    updated_at   = CURRENT_TIMESTAMP
WHERE number = ?
`

// Room-row lock taken inside the AddBooking transaction; the overlap count
// and the insert below both run while this lock is held.
const lockRoomSQL = `
SELECT housekeeping, hold_from, hold_to
FROM rooms
WHERE number = ?
FOR UPDATE
`

// Closed-closed interval overlap: a booking ending on a day collides with
// one starting that same day.
const countOverlapSQL = `
SELECT COUNT(*)
FROM bookings
WHERE room_number = ?
  AND state IN ('reserved','confirmed')
  AND start_date <= ?
  AND end_date   >= ?
`

const insertBookingSQL = `
INSERT INTO bookings
  (room_number, guest_name, start_date, end_date, state)
VALUES
  (?, ?, ?, ?, ?)
`

const getBookingSQL = `
SELECT id, room_number, guest_name, start_date, end_date, state, created_at, updated_at
FROM bookings
WHERE id = ?
`

const bookingsForRoomSQL = `
SELECT id, room_number, guest_name, start_date, end_date, state, created_at, updated_at
FROM bookings
WHERE room_number = ?
ORDER BY start_date, id
`

const setBookingStateSQL = `
UPDATE bookings
SET state = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

const lockBookingStateSQL = `
SELECT state
FROM bookings
WHERE id = ?
FOR UPDATE
`
