package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"frontdesk/internal/adapters/observability"
	"frontdesk/internal/domain"
	"frontdesk/internal/shared"
	mysqlrepo "frontdesk/internal/storage/mysql"
)

// Seeds the MySQL inventory with the demo rooms and reservations. Rooms go in
// first (bookings reference them), then bookings load concurrently with a
// bounded number of workers.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().Int("workers", cfg.SeedWorkers).Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	for _, r := range shared.SeedRooms() {
		if err := repo.UpsertRoom(ctx, r); err != nil {
			log.Fatal().Err(err).Str("room", r.Number).Msg("seed room failed")
		}
		log.Info().Str("room", r.Number).Str("type", r.Type).Msg("room upserted")
	}

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, b := range shared.SeedBookings() {
		b := b

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(b domain.Booking) {
			defer wg.Done()
			defer sem.Release(1)

			stored, err := repo.AddBooking(ctx, b)
			if err != nil {
				// rerunning the seeder hits overlap on existing reservations
				log.Warn().Str("room", b.RoomNumber).Err(err).Msg("seed booking skipped")
				return
			}
			log.Info().Str("room", b.RoomNumber).Int64("booking_id", stored.ID).Msg("booking seeded")
		}(b)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}
