package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"frontdesk/internal/adapters/observability"
	"frontdesk/internal/app"
	"frontdesk/internal/domain"
)

type Handlers struct {
	Q    *app.QueryService
	Desk *app.DeskService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/board", h.getBoard)
	s.mux.Get("/v1/rooms/{number}/status", h.getRoomStatus)
	s.mux.Get("/v1/rooms/{number}/calendar", h.getCalendar)
	s.mux.Get("/v1/rooms/{number}/bookings", h.listBookings)

	s.mux.Post("/v1/bookings", h.createBooking)
	s.mux.Delete("/v1/bookings/{id}", h.cancelBooking)

	s.mux.Post("/v1/rooms/{number}/check-in", h.checkIn)
	s.mux.Post("/v1/rooms/{number}/check-out", h.checkOut)
	s.mux.Post("/v1/rooms/{number}/mark-ready", h.markReady)
	s.mux.Post("/v1/rooms/{number}/mark-clean", h.markClean)
	s.mux.Post("/v1/rooms/{number}/hold", h.placeHold)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeDomainError maps the core's failure taxonomy onto HTTP statuses.
// Invariant violations are the only 5xx: they are defects, not user errors.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsInvariantViolation(err):
		log.Error().Err(err).Msg("state invariant violated")
		writeProblem(w, http.StatusInternalServerError, "Invariant Violation", "internal state inconsistency detected")
	case errors.Is(err, domain.ErrOverlap):
		writeProblem(w, http.StatusConflict, "Overlap", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeProblem(w, http.StatusConflict, "Invalid Transition", err.Error())
	case errors.Is(err, domain.ErrOutOfWindow):
		writeProblem(w, http.StatusUnprocessableEntity, "Out Of Window", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	}
}

// outcomeLabel normalizes an error into a transition metric label.
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsInvariantViolation(err):
		return "invariant"
	case errors.Is(err, domain.ErrOverlap):
		return "overlap"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrOutOfWindow):
		return "out_of_window"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSONWithETag(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// dateParam reads a query date, defaulting to today when absent.
func dateParam(r *http.Request, key string) (domain.Date, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return domain.Today(), nil
	}
	return domain.ParseDate(s)
}

// ---- reads ----

func (h *Handlers) getBoard(w http.ResponseWriter, r *http.Request) {
	today, err := dateParam(r, "date")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}
	board, err := h.Q.Board(r.Context(), today)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONWithETag(w, r, board)
}

func (h *Handlers) getRoomStatus(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	today, err := dateParam(r, "date")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}
	card, err := h.Q.RoomStatus(r.Context(), number, today)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *Handlers) getCalendar(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	// default window: the current week, Monday through Sunday
	q := r.URL.Query()
	var start domain.Date
	var err error
	if s := q.Get("start"); s != "" {
		if start, err = domain.ParseDate(s); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Date", err.Error())
			return
		}
	} else {
		start = domain.Today().StartOfWeek()
	}
	end := start.AddDays(6)
	if s := q.Get("end"); s != "" {
		if end, err = domain.ParseDate(s); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Date", err.Error())
			return
		}
	}
	if end.Before(start) {
		writeProblem(w, http.StatusBadRequest, "Invalid Range", "end must not be before start")
		return
	}

	cal, err := h.Q.Calendar(r.Context(), number, start, end)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSONWithETag(w, r, cal)
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	views, err := h.Q.Bookings(r.Context(), number)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// ---- writes ----

type createBookingRequest struct {
	Room  string      `json:"roomNumber"`
	Guest string      `json:"guestName"`
	Start domain.Date `json:"startDate"`
	End   domain.Date `json:"endDate"`
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if req.Room == "" || req.Guest == "" || req.Start.IsZero() || req.End.IsZero() {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "roomNumber, guestName, startDate and endDate are required")
		return
	}
	b, err := h.Desk.Reserve(r.Context(), req.Room, req.Guest, req.Start, req.End)
	if err != nil {
		if errors.Is(err, domain.ErrOverlap) {
			observability.ObserveBookingDecision("overlap")
		} else {
			observability.ObserveBookingDecision("rejected")
		}
		writeDomainError(w, err)
		return
	}
	observability.ObserveBookingDecision("accepted")
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	if err := h.Desk.Cancel(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type checkInRequest struct {
	Guest string `json:"guestName"`
}

func (h *Handlers) checkIn(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	var req checkInRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
			return
		}
	}
	b, err := h.Desk.CheckIn(r.Context(), number, req.Guest)
	observability.ObserveTransition(string(domain.ActionCheckIn), outcomeLabel(err))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) checkOut(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	b, err := h.Desk.CheckOut(r.Context(), number)
	observability.ObserveTransition(string(domain.ActionCheckOut), outcomeLabel(err))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) markReady(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	err := h.Desk.MarkReady(r.Context(), number)
	observability.ObserveTransition(string(domain.ActionMarkReady), outcomeLabel(err))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) markClean(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	err := h.Desk.MarkClean(r.Context(), number)
	observability.ObserveTransition(string(domain.ActionMarkClean), outcomeLabel(err))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type holdRequest struct {
	From   domain.Date `json:"from"`
	To     domain.Date `json:"to"`
	Reason string      `json:"reason"`
}

func (h *Handlers) placeHold(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	var req holdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if req.From.IsZero() || req.To.IsZero() {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "from and to are required")
		return
	}
	err := h.Desk.PlaceHold(r.Context(), number, req.From, req.To, req.Reason)
	observability.ObserveTransition(string(domain.ActionPlaceHold), outcomeLabel(err))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
