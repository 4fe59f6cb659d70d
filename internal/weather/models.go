// Package weather provides the current-conditions model for the
// dashboard's weather card.
package weather

import (
	"errors"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Current represents the current conditions at a location.
type Current struct {
	// Location coordinates.
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	// Temperature in Celsius.
	Temperature float64 `json:"temperature"`

	// Description is the localized condition text.
	Description string `json:"description"`

	// Icon is the provider's icon code (e.g. "01d").
	Icon string `json:"icon"`

	// Glyph is the emoji for the icon code.
	Glyph string `json:"glyph"`

	// FetchedAt is when the data was retrieved.
	FetchedAt time.Time `json:"fetchedAt"`
}

// defaultGlyph is used for icon codes outside the table.
const defaultGlyph = "🌤️"

// iconGlyphs maps OpenWeatherMap icon codes to emoji.
var iconGlyphs = map[string]string{
	"01d": "☀️", "01n": "🌙",
	"02d": "⛅", "02n": "⛅",
	"03d": "☁️", "03n": "☁️",
	"04d": "☁️", "04n": "☁️",
	"09d": "🌦️", "09n": "🌦️",
	"10d": "🌧️", "10n": "🌧️",
	"11d": "⛈️", "11n": "⛈️",
	"13d": "🌨️", "13n": "🌨️",
	"50d": "🌫️", "50n": "🌫️",
}

// Glyph returns the emoji for an icon code, with a default for
// unmapped codes.
func Glyph(icon string) string {
	if g, ok := iconGlyphs[icon]; ok {
		return g
	}
	return defaultGlyph
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
