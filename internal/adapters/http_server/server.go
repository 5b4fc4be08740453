package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type Server struct{ mux *chi.Mux }

// New builds the router with the full middleware chain. rps/burst bound the
// request rate across all clients; the desk API sits behind the hotel's LAN
// so a single global limiter is enough.
func New(rps float64, burst int) *Server {
	m := chi.NewRouter()

	// middlewares before any routes are added
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Timeout(15 * time.Second))
	m.Use(RateLimit(rate.NewLimiter(rate.Limit(rps), burst)))
	m.Use(Metrics)
	m.Use(Logger(log.Logger))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
