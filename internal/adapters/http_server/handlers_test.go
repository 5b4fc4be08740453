package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	httpserver "frontdesk/internal/adapters/http_server"
	"frontdesk/internal/app"
	"frontdesk/internal/domain"
	"frontdesk/internal/storage/memory"
)

// nopCache satisfies the cache port without storing anything; handler tests
// exercise routing and status mapping, not caching.
type nopCache struct{}

func (nopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (nopCache) Set(context.Context, string, any, int) error    { return nil }
func (nopCache) Del(context.Context, ...string) error           { return nil }

func day(d int) domain.Date { return domain.NewDate(2025, time.May, d) }

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	store := memory.New()
	ctx := context.Background()
	rooms := []domain.Room{
		{Number: "101", Type: "Standard Single", Housekeeping: domain.HousekeepingClean},
		{Number: "102", Type: "Standard Double", Housekeeping: domain.HousekeepingClean},
		{Number: "201", Type: "Deluxe Single", Housekeeping: domain.HousekeepingClean},
	}
	for _, r := range rooms {
		if err := store.UpsertRoom(ctx, r); err != nil {
			t.Fatalf("seed room %s: %v", r.Number, err)
		}
	}

	q := app.NewQueryService(store, nopCache{}, time.Minute)
	desk := app.NewDeskService(store, nopCache{}).WithToday(func() domain.Date { return day(5) })

	srv := httpserver.New(1000, 1000)
	srv.MountHandlers(&httpserver.Handlers{Q: q, Desk: desk})
	return srv.Mux()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestCreateBookingAndOverlapConflict(t *testing.T) {
	h := newTestServer(t)

	req := map[string]string{
		"roomNumber": "101", "guestName": "John Smith",
		"startDate": "2025-05-10", "endDate": "2025-05-14",
	}
	rec := doJSON(t, h, http.MethodPost, "/v1/bookings", req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[app.BookingView](t, rec)
	if created.ID == 0 || created.State != domain.StateReserved {
		t.Fatalf("created booking: %+v", created)
	}

	// a second reservation starting on the first one's end day collides
	req2 := map[string]string{
		"roomNumber": "101", "guestName": "Emily Johnson",
		"startDate": "2025-05-14", "endDate": "2025-05-16",
	}
	rec = doJSON(t, h, http.MethodPost, "/v1/bookings", req2)
	if rec.Code != http.StatusConflict {
		t.Fatalf("overlap: status %d body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type %q", ct)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/bookings", map[string]string{"roomNumber": "101"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing fields: status %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/bookings", map[string]string{
		"roomNumber": "999", "guestName": "Ghost",
		"startDate": "2025-05-10", "endDate": "2025-05-12",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown room: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestReservationLifecycleOverHTTP(t *testing.T) {
	h := newTestServer(t)

	// reservation covering today (May 5)
	rec := doJSON(t, h, http.MethodPost, "/v1/bookings", map[string]string{
		"roomNumber": "102", "guestName": "Michael Brown",
		"startDate": "2025-05-03", "endDate": "2025-05-07",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/rooms/102/status?date=2025-05-05", nil)
	card := decodeBody[app.RoomCardView](t, rec)
	if card.Status != domain.StatusReserved || card.Guest != "Michael Brown" {
		t.Fatalf("pre check-in card: %+v", card)
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/rooms/102/check-in", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("check-in: status %d body %s", rec.Code, rec.Body.String())
	}
	b := decodeBody[app.BookingView](t, rec)
	if b.State != domain.StateConfirmed {
		t.Fatalf("after check-in: %+v", b)
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/rooms/102/check-out", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("check-out: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/rooms/102/status?date=2025-05-05", nil)
	card = decodeBody[app.RoomCardView](t, rec)
	if card.Status != domain.StatusCheckout {
		t.Fatalf("post check-out card: %+v", card)
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/rooms/102/mark-clean", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("mark-clean: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/rooms/102/status?date=2025-05-05", nil)
	card = decodeBody[app.RoomCardView](t, rec)
	if card.Status != domain.StatusVacant {
		t.Fatalf("final card: %+v", card)
	}
}

func TestCheckOutVacantRoomRejected(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/v1/rooms/201/check-out", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestEarlyCheckInUnprocessable(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/bookings", map[string]string{
		"roomNumber": "201", "guestName": "Sarah Davis",
		"startDate": "2025-05-08", "endDate": "2025-05-12",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d", rec.Code)
	}

	// today is May 5; the reservation opens May 8
	rec = doJSON(t, h, http.MethodPost, "/v1/rooms/201/check-in", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("early check-in: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestCancelBooking(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/bookings", map[string]string{
		"roomNumber": "101", "guestName": "John Smith",
		"startDate": "2025-05-10", "endDate": "2025-05-14",
	})
	created := decodeBody[app.BookingView](t, rec)

	rec = doJSON(t, h, http.MethodDelete, "/v1/bookings/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cancel unknown: status %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/bookings/"+itoa(created.ID), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("cancel: status %d body %s", w.Code, w.Body.String())
	}

	// the freed interval accepts a new reservation
	rec = doJSON(t, h, http.MethodPost, "/v1/bookings", map[string]string{
		"roomNumber": "101", "guestName": "Emily Johnson",
		"startDate": "2025-05-10", "endDate": "2025-05-14",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("rebook after cancel: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestPlaceHoldAndConflicts(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/rooms/201/hold", map[string]string{
		"from": "2025-05-05", "to": "2025-05-09", "reason": "plumbing",
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("hold: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/rooms/201/status?date=2025-05-06", nil)
	card := decodeBody[app.RoomCardView](t, rec)
	if card.Status != domain.StatusMaintenance {
		t.Fatalf("held card: %+v", card)
	}

	// reservations inside the hold window bounce
	rec = doJSON(t, h, http.MethodPost, "/v1/bookings", map[string]string{
		"roomNumber": "201", "guestName": "John Smith",
		"startDate": "2025-05-08", "endDate": "2025-05-10",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("reserve into hold: status %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/rooms/201/mark-ready", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("mark-ready: status %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/rooms/201/status?date=2025-05-06", nil)
	card = decodeBody[app.RoomCardView](t, rec)
	if card.Status != domain.StatusVacant {
		t.Fatalf("released card: %+v", card)
	}
}

func TestHoldInvalidBody(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/v1/rooms/201/hold", map[string]string{"reason": "x"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestBoardAndETag(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/v1/board?date=2025-05-05", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("board: status %d", rec.Code)
	}
	board := decodeBody[app.BoardView](t, rec)
	if len(board.Floors) != 2 {
		t.Fatalf("floors: %+v", board.Floors)
	}
	if board.Floors[0].Floor != "1" || board.Floors[1].Floor != "2" {
		t.Fatalf("floor order: %+v", board.Floors)
	}

	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag")
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/board?date=2025-05-05", nil)
	req.Header.Set("If-None-Match", etag)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified {
		t.Fatalf("conditional get: status %d", w.Code)
	}
}

func TestCalendarDefaultsToCurrentWeek(t *testing.T) {
	h := newTestServer(t)

	// today May 5 2025 is a Monday, so the default window is May 5..11
	rec := doJSON(t, h, http.MethodGet, "/v1/rooms/101/calendar", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("calendar: status %d body %s", rec.Code, rec.Body.String())
	}
	cal := decodeBody[app.CalendarView](t, rec)
	if len(cal.Days) != 7 {
		t.Fatalf("days: %d", len(cal.Days))
	}
	for _, d := range cal.Days {
		if d.Kind != domain.DayFree {
			t.Fatalf("empty room day: %+v", d)
		}
	}
}

func TestCalendarInvalidRange(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/v1/rooms/101/calendar?start=2025-05-10&end=2025-05-05", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestListBookings(t *testing.T) {
	h := newTestServer(t)

	for _, r := range []map[string]string{
		{"roomNumber": "101", "guestName": "John Smith", "startDate": "2025-05-10", "endDate": "2025-05-12"},
		{"roomNumber": "101", "guestName": "Emily Johnson", "startDate": "2025-05-20", "endDate": "2025-05-22"},
	} {
		if rec := doJSON(t, h, http.MethodPost, "/v1/bookings", r); rec.Code != http.StatusCreated {
			t.Fatalf("seed booking: status %d", rec.Code)
		}
	}

	rec := doJSON(t, h, http.MethodGet, "/v1/rooms/101/bookings", nil)
	views := decodeBody[[]app.BookingView](t, rec)
	if len(views) != 2 || views[0].GuestName != "John Smith" || views[1].GuestName != "Emily Johnson" {
		t.Fatalf("bookings: %+v", views)
	}
}

func TestUnknownRoomIs404(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/v1/rooms/777/status", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
