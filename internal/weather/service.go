package weather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Provider defines the interface for weather data providers.
type Provider interface {
	// GetCurrent fetches current conditions for a location.
	GetCurrent(ctx context.Context, lat, lon float64, lang string) (*Current, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the weather data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache conditions (default: 10 minutes).
	CacheTTL time.Duration
}

// Service provides current weather with a small per-location cache.
type Service struct {
	provider Provider
	logger   zerolog.Logger
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedCurrent
}

type cachedCurrent struct {
	data      *Current
	expiresAt time.Time
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		cacheTTL: cacheTTL,
		cache:    make(map[string]*cachedCurrent),
	}
}

// GetCurrent returns current conditions for a location, cached per
// rounded coordinate and language.
func (s *Service) GetCurrent(ctx context.Context, lat, lon float64, lang string) (*Current, error) {
	if err := validateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%.2f:%.2f:%s", lat, lon, lang)

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.data, nil
	}
	s.mu.RUnlock()

	data, err := s.provider.GetCurrent(ctx, lat, lon, lang)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Str("provider", s.provider.Name()).
			Msg("failed to fetch weather")
		return nil, ErrProviderUnavailable
	}

	s.mu.Lock()
	s.cache[key] = &cachedCurrent{
		data:      data,
		expiresAt: time.Now().Add(s.cacheTTL),
	}
	s.mu.Unlock()

	return data, nil
}
