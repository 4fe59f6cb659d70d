package geocode

import "errors"

// Geocoding errors.
var (
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
	ErrNoResult            = errors.New("no geocoding result")
)

// Address is a structured reverse-geocoding result.
type Address struct {
	// City is the locality (town/village fall back here).
	City string `json:"city,omitempty"`

	// State is the first-level administrative area.
	State string `json:"state,omitempty"`

	// Country is the country name.
	Country string `json:"country,omitempty"`

	// Formatted is the provider's full display address.
	Formatted string `json:"formatted,omitempty"`
}
