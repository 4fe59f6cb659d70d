package pollen

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// Provider defines the interface for pollen forecast providers.
type Provider interface {
	// Lookup fetches the multi-day forecast for a location, returning
	// the upstream body verbatim.
	Lookup(ctx context.Context, lat, lon float64, lang string, days int) (json.RawMessage, error)

	// Name returns the provider name for logging.
	Name() string
}

// HistoryStore is where fetched forecasts are recorded.
type HistoryStore interface {
	StoreForecast(locationKey string, forecast ForecastPayload)
	Save(ctx context.Context)
}

// LocationKeyFunc derives the history identity for a coordinate pair.
type LocationKeyFunc func(lat, lon float64) string

// ServiceConfig holds configuration for the pollen service.
type ServiceConfig struct {
	// Provider is the pollen forecast provider.
	Provider Provider

	// History receives every successfully fetched forecast. Optional.
	History HistoryStore

	// LocationKey derives history keys from coordinates. Required when
	// History is set.
	LocationKey LocationKeyFunc

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service fetches pollen forecasts and records them in the history store.
type Service struct {
	provider    Provider
	history     HistoryStore
	locationKey LocationKeyFunc
	logger      zerolog.Logger
}

// NewService creates a new pollen service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider:    cfg.Provider,
		history:     cfg.History,
		locationKey: cfg.LocationKey,
		logger:      cfg.Logger,
	}
}

// FetchResult carries both the verbatim upstream bytes (for the proxy
// passthrough) and the decoded payload.
type FetchResult struct {
	Raw     json.RawMessage
	Payload ForecastPayload
}

// Fetch retrieves the forecast for a location, stores every daily slice
// in the history store, and persists the store. Persistence failures
// never surface here.
func (s *Service) Fetch(ctx context.Context, lat, lon float64, lang string, days int) (*FetchResult, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	raw, err := s.provider.Lookup(ctx, lat, lon, lang, days)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Str("provider", s.provider.Name()).
			Msg("failed to fetch pollen forecast")
		return nil, ErrProviderUnavailable
	}

	result := &FetchResult{Raw: raw}
	if err := json.Unmarshal(raw, &result.Payload); err != nil {
		s.logger.Warn().Err(err).Msg("pollen payload did not decode, skipping history")
		return result, nil
	}

	if s.history != nil && s.locationKey != nil {
		key := s.locationKey(lat, lon)
		s.history.StoreForecast(key, result.Payload)
		s.history.Save(ctx)

		s.logger.Debug().
			Str("location", key).
			Int("days", len(result.Payload.DailyInfo)).
			Msg("stored pollen forecast in history")
	}

	return result, nil
}
