// Package main provides the entrypoint for the pollen tracker API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pollentracker/pollentracker/internal/api"
	"github.com/pollentracker/pollentracker/internal/api/handler"
	"github.com/pollentracker/pollentracker/internal/config"
	"github.com/pollentracker/pollentracker/internal/geocode"
	geocodegoogle "github.com/pollentracker/pollentracker/internal/geocode/google"
	"github.com/pollentracker/pollentracker/internal/geocode/nominatim"
	"github.com/pollentracker/pollentracker/internal/history"
	"github.com/pollentracker/pollentracker/internal/kv"
	"github.com/pollentracker/pollentracker/internal/pollen"
	pollengoogle "github.com/pollentracker/pollentracker/internal/pollen/google"
	"github.com/pollentracker/pollentracker/internal/telemetry"
	"github.com/pollentracker/pollentracker/internal/weather"
	"github.com/pollentracker/pollentracker/internal/weather/openweathermap"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "pollentracker-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting pollen tracker API")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	// Select the persistence backend for history
	store, checks, cleanup := newKVStore(ctx, cfg, log)
	defer cleanup()

	historyStore := history.New(history.Config{
		KV:     store,
		Logger: log,
	})
	historyStore.Load(ctx)
	log.Info().Int("locations", len(historyStore.Locations())).Msg("history loaded")

	// Pollen provider and service
	var pollenClient *pollengoogle.Client
	if cfg.GoogleAPIKey != "" {
		pollenClient = pollengoogle.NewClient(pollengoogle.ClientConfig{
			APIKey: cfg.GoogleAPIKey,
			Logger: log,
		})
	} else {
		log.Warn().Msg("GOOGLE_API_KEY not set - pollen endpoints will fail")
	}

	var pollenService *pollen.Service
	if pollenClient != nil {
		pollenService = pollen.NewService(pollen.ServiceConfig{
			Provider:    pollenClient,
			History:     historyStore,
			LocationKey: history.LocationKey,
			Logger:      log,
		})
	}

	// Geocoding with secondary fallback
	var primary geocode.Provider = nominatim.NewClient(nominatim.ClientConfig{Logger: log})
	var secondary geocode.Provider
	if cfg.GoogleAPIKey != "" {
		primary = geocodegoogle.NewClient(geocodegoogle.ClientConfig{
			APIKey: cfg.GoogleAPIKey,
			Logger: log,
		})
		secondary = nominatim.NewClient(nominatim.ClientConfig{Logger: log})
	}
	geocodeService := geocode.NewService(geocode.ServiceConfig{
		Primary:   primary,
		Secondary: secondary,
		Logger:    log,
	})

	// Weather provider and service
	var weatherClient *openweathermap.Client
	var weatherService *weather.Service
	if cfg.WeatherAPIKey != "" {
		weatherClient = openweathermap.NewClient(openweathermap.ClientConfig{
			APIKey: cfg.WeatherAPIKey,
			Logger: log,
		})
		weatherService = weather.NewService(weather.ServiceConfig{
			Provider: weatherClient,
			Logger:   log,
		})
	} else {
		log.Warn().Msg("OPENWEATHER_API_KEY not set - weather endpoints will fail")
	}

	routerCfg := api.RouterConfig{
		Version:         Version,
		BuildTime:       BuildTime,
		Logger:          log,
		ServiceName:     serviceName,
		PollenService:   pollenService,
		HistoryStore:    historyStore,
		GeocodeService:  geocodeService,
		WeatherService:  weatherService,
		ReadinessChecks: checks,
	}
	if pollenClient != nil {
		routerCfg.PollenProxy = pollenClient
	}
	if weatherClient != nil {
		routerCfg.WeatherProxy = weatherClient
	}

	router := api.NewRouter(routerCfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	// Persist history one last time before exit
	historyStore.Save(context.Background())

	log.Info().Msg("server stopped")
}

// newKVStore selects the persistence backend from configuration:
// Redis, then Postgres, then in-memory.
func newKVStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (kv.Store, map[string]handler.ReadinessCheck, func()) {
	if cfg.RedisAddr != "" {
		redisStore := kv.NewRedis(cfg.RedisAddr)
		if err := redisStore.Ping(ctx); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis connected")
		checks := map[string]handler.ReadinessCheck{"redis": redisStore.Ping}
		return redisStore, checks, func() { _ = redisStore.Close() }
	}

	if cfg.DatabaseURL != "" {
		pgStore, err := kv.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		log.Info().Msg("database connected")
		checks := map[string]handler.ReadinessCheck{"postgres": pgStore.Ping}
		return pgStore, checks, pgStore.Close
	}

	log.Warn().Msg("no persistence backend configured - history is in-memory only")
	return kv.NewMemory(), nil, func() {}
}
