// Package main provides the entrypoint for the background refresh worker.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/pollentracker/pollentracker/internal/config"
	"github.com/pollentracker/pollentracker/internal/history"
	"github.com/pollentracker/pollentracker/internal/kv"
	"github.com/pollentracker/pollentracker/internal/pollen"
	pollengoogle "github.com/pollentracker/pollentracker/internal/pollen/google"
	"github.com/pollentracker/pollentracker/internal/worker"
)

// Version is set at compile time via ldflags.
var Version = "dev"

func main() {
	const serviceName = "pollentracker-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.GoogleAPIKey == "" {
		log.Fatal().Msg("GOOGLE_API_KEY is required")
	}
	if len(cfg.Locations) == 0 {
		log.Fatal().Msg("TRACKED_LOCATIONS is required")
	}

	ctx := context.Background()

	store, cleanup := newKVStore(ctx, cfg, log)
	defer cleanup()

	historyStore := history.New(history.Config{
		KV:     store,
		Logger: log,
	})
	historyStore.Load(ctx)

	pollenClient := pollengoogle.NewClient(pollengoogle.ClientConfig{
		APIKey: cfg.GoogleAPIKey,
		Logger: log,
	})
	pollenService := pollen.NewService(pollen.ServiceConfig{
		Provider:    pollenClient,
		History:     historyStore,
		LocationKey: history.LocationKey,
		Logger:      log,
	})

	points := make([]worker.Point, 0, len(cfg.Locations))
	for _, loc := range cfg.Locations {
		points = append(points, worker.Point{Lat: loc.Lat, Lon: loc.Lon})
	}

	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config: worker.RefreshConfig{
			Points:       points,
			Language:     cfg.DefaultLanguage,
			ForecastDays: cfg.ForecastDays,
		},
		Logger:        log,
		PollenService: pollenService,
	})

	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Every(cfg.RefreshInterval).Do(func() {
		job.Run(ctx)
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule refresh job")
	}

	log.Info().
		Dur("interval", cfg.RefreshInterval).
		Int("points", len(points)).
		Msg("starting refresh scheduler")

	scheduler.StartAsync()

	// Run once immediately so a fresh deployment has data
	job.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	scheduler.Stop()

	historyStore.Save(context.Background())
	log.Info().Msg("worker stopped")
}

// newKVStore selects the persistence backend from configuration:
// Redis, then Postgres, then in-memory.
func newKVStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (kv.Store, func()) {
	if cfg.RedisAddr != "" {
		redisStore := kv.NewRedis(cfg.RedisAddr)
		if err := redisStore.Ping(ctx); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
		}
		return redisStore, func() { _ = redisStore.Close() }
	}

	if cfg.DatabaseURL != "" {
		pgStore, err := kv.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		return pgStore, pgStore.Close
	}

	log.Warn().Msg("no persistence backend configured - refreshed history will not survive restarts")
	return kv.NewMemory(), func() {}
}
