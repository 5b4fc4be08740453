package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "frontdesk/internal/adapters/http_server"
	"frontdesk/internal/adapters/observability"
	redisad "frontdesk/internal/adapters/redis"
	"frontdesk/internal/app"
	"frontdesk/internal/domain"
	"frontdesk/internal/shared"
	"frontdesk/internal/storage/memory"
	mysqlrepo "frontdesk/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	inv := buildInventory(cfg)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	q := app.NewQueryService(inv, cache, cfg.CacheTTL)
	desk := app.NewDeskService(inv, cache)

	srv := server.New(cfg.RateRPS, cfg.RateBurst)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, Desk: desk})

	log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.Store).Msg("front desk API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// buildInventory selects the store backend. The in-memory store starts with
// the demo inventory so a fresh checkout serves a populated board.
func buildInventory(cfg shared.Config) domain.Inventory {
	switch cfg.Store {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		return mysqlrepo.New(db)

	case "memory":
		store := memory.New()
		ctx := context.Background()
		for _, r := range shared.SeedRooms() {
			if err := store.UpsertRoom(ctx, r); err != nil {
				log.Fatal().Err(err).Str("room", r.Number).Msg("seed room failed")
			}
		}
		for _, b := range shared.SeedBookings() {
			if _, err := store.AddBooking(ctx, b); err != nil {
				log.Warn().Err(err).Str("room", b.RoomNumber).Msg("seed booking skipped")
			}
		}
		return store

	default:
		log.Fatal().Str("store", cfg.Store).Msg("unknown STORE (want memory or mysql)")
		return nil
	}
}
