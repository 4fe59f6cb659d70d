// Package geocode resolves coordinates to a human-readable place name,
// with a secondary provider fallback and a raw-coordinate last resort.
package geocode

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Provider defines the interface for reverse-geocoding providers.
type Provider interface {
	// ReverseGeocode resolves a coordinate pair to an address.
	ReverseGeocode(ctx context.Context, lat, lon float64, lang string) (*Address, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// Primary is tried first (required).
	Primary Provider

	// Secondary is tried when the primary fails (optional).
	Secondary Provider

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service resolves display names with provider fallback.
type Service struct {
	primary   Provider
	secondary Provider
	logger    zerolog.Logger
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		primary:   cfg.Primary,
		secondary: cfg.Secondary,
		logger:    cfg.Logger,
	}
}

// Resolve returns the address from the first provider that succeeds.
func (s *Service) Resolve(ctx context.Context, lat, lon float64, lang string) (*Address, error) {
	addr, err := s.primary.ReverseGeocode(ctx, lat, lon, lang)
	if err == nil {
		return addr, nil
	}

	s.logger.Warn().Err(err).
		Str("provider", s.primary.Name()).
		Msg("primary geocoder failed")

	if s.secondary == nil {
		return nil, ErrProviderUnavailable
	}

	addr, err = s.secondary.ReverseGeocode(ctx, lat, lon, lang)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("provider", s.secondary.Name()).
			Msg("secondary geocoder failed")
		return nil, ErrProviderUnavailable
	}
	return addr, nil
}

// DisplayName resolves a coordinate pair to a display string. Failures
// never surface: when every provider fails, the raw coordinates are
// returned.
func (s *Service) DisplayName(ctx context.Context, lat, lon float64, lang string) string {
	addr, err := s.Resolve(ctx, lat, lon, lang)
	if err != nil {
		return CoordinateLabel(lat, lon)
	}

	if name := FormatAddress(addr); name != "" {
		return name
	}
	return CoordinateLabel(lat, lon)
}

// FormatAddress builds the display name with the priority chain:
// city+country, state+country, country, then a truncated formatted
// address. Returns "" when nothing usable is present.
func FormatAddress(addr *Address) string {
	if addr == nil {
		return ""
	}

	switch {
	case addr.City != "" && addr.Country != "":
		return addr.City + ", " + addr.Country
	case addr.State != "" && addr.Country != "":
		return addr.State + ", " + addr.Country
	case addr.Country != "":
		return addr.Country
	}

	if addr.Formatted != "" {
		parts := strings.SplitN(addr.Formatted, ",", 3)
		if len(parts) > 2 {
			parts = parts[:2]
		}
		return strings.TrimSpace(strings.Join(parts, ","))
	}
	return ""
}

// CoordinateLabel formats a raw coordinate pair for display.
func CoordinateLabel(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}
