// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Location is a tracked coordinate pair for the background refresher.
type Location struct {
	Lat float64
	Lon float64
}

// Config holds application configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// Environment name (development, production).
	Environment string

	// GoogleAPIKey authorizes the pollen and geocoding APIs.
	GoogleAPIKey string

	// WeatherAPIKey authorizes the current-weather API.
	WeatherAPIKey string

	// RedisAddr selects the Redis persistence backend when set.
	RedisAddr string

	// DatabaseURL selects the Postgres persistence backend when set.
	DatabaseURL string

	// OTLPEndpoint receives traces when telemetry is enabled.
	OTLPEndpoint string
	OTELEnabled  bool

	// RefreshInterval controls how often the worker refetches forecasts.
	RefreshInterval time.Duration

	// Locations the worker keeps refreshed, parsed from
	// "lat,lon;lat,lon" pairs.
	Locations []Location

	// ForecastDays requested from the pollen API.
	ForecastDays int

	// DefaultLanguage for upstream requests.
	DefaultLanguage string
}

// Load reads configuration from environment with sensible defaults.
// A .env file is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getenvDefault("APP_PORT", "8080"),
		Environment:     getenvDefault("APP_ENV", "development"),
		GoogleAPIKey:    os.Getenv("GOOGLE_API_KEY"),
		WeatherAPIKey:   os.Getenv("OPENWEATHER_API_KEY"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		OTLPEndpoint:    getenvDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTELEnabled:     os.Getenv("OTEL_ENABLED") == "true",
		ForecastDays:    getenvInt("FORECAST_DAYS", 5),
		DefaultLanguage: getenvDefault("DEFAULT_LANGUAGE", "en"),
	}

	interval, err := time.ParseDuration(getenvDefault("REFRESH_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	locations, err := ParseLocations(os.Getenv("TRACKED_LOCATIONS"))
	if err != nil {
		return nil, err
	}
	cfg.Locations = locations

	return cfg, nil
}

// ParseLocations parses a "lat,lon;lat,lon" list. An empty input yields
// no locations.
func ParseLocations(s string) ([]Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var locations []Location
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid TRACKED_LOCATIONS entry %q", pair)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in %q: %w", pair, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in %q: %w", pair, err)
		}
		locations = append(locations, Location{Lat: lat, Lon: lon})
	}
	return locations, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
