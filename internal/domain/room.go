package domain

// Housekeeping is the per-room flag maintained independently of bookings.
type Housekeeping string

const (
	HousekeepingClean       Housekeeping = "clean"
	HousekeepingDirty       Housekeeping = "dirty"
	HousekeepingMaintenance Housekeeping = "maintenance"
)

// Hold is a maintenance window blocking a room. While a hold is present the
// room's housekeeping flag is maintenance and the window occupies the
// interval like a booking would: new bookings overlapping it are rejected.
type Hold struct {
	From   Date
	To     Date
	Reason string
}

// Overlaps reports whether [start, end] intersects the hold window
// (closed-closed, same semantics as bookings).
func (h *Hold) Overlaps(start, end Date) bool {
	return !h.To.Before(start) && !h.From.After(end)
}

// Room is identified by its number ("204"). Floor is derived from the
// number's leading digit, not stored.
type Room struct {
	Number       string
	Type         string // label, e.g. "Deluxe Double"
	Housekeeping Housekeeping
	Hold         *Hold
}

// Floor returns the floor label derived from the room number.
func (r *Room) Floor() string {
	if r.Number == "" {
		return ""
	}
	return r.Number[:1]
}

// RoomStatus is the derived display state of a room. It is never stored;
// ResolveStatus computes it from the room's bookings and housekeeping flag.
type RoomStatus string

const (
	StatusVacant      RoomStatus = "vacant"
	StatusOccupied    RoomStatus = "occupied"
	StatusReserved    RoomStatus = "reserved"
	StatusCleaning    RoomStatus = "cleaning"
	StatusMaintenance RoomStatus = "maintenance"
	StatusCheckout    RoomStatus = "checkout"
)

// Action is an operator-triggered lifecycle transition.
type Action string

const (
	ActionCheckIn   Action = "check_in"
	ActionCheckOut  Action = "check_out"
	ActionMarkReady Action = "mark_ready"
	ActionMarkClean Action = "mark_clean"
	ActionPlaceHold Action = "place_hold"
)

// permittedActions maps each status to the transitions an operator may
// trigger from it. Adding a status means touching this table, nothing else.
var permittedActions = map[RoomStatus][]Action{
	StatusVacant:      {ActionCheckIn, ActionPlaceHold},
	StatusReserved:    {ActionCheckIn, ActionPlaceHold},
	StatusOccupied:    {ActionCheckOut, ActionPlaceHold},
	StatusCleaning:    {ActionMarkReady},
	StatusMaintenance: {ActionMarkReady},
	StatusCheckout:    {ActionMarkClean},
}

// PermittedActions returns the actions available from status. The slice is a
// copy; callers may not mutate the table.
func PermittedActions(status RoomStatus) []Action {
	src := permittedActions[status]
	out := make([]Action, len(src))
	copy(out, src)
	return out
}

// CanPerform reports whether action is a listed edge from status.
func CanPerform(status RoomStatus, action Action) bool {
	for _, a := range permittedActions[status] {
		if a == action {
			return true
		}
	}
	return false
}
