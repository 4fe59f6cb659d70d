// Package worker provides the background forecast refresher.
package worker

import "time"

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// RefreshConfig holds configuration for the refresh job.
type RefreshConfig struct {
	// Points are the lat/lon coordinates to refresh.
	Points []Point

	// Concurrency is the number of concurrent refresh operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each refresh operation.
	// Default: 30 seconds
	Timeout time.Duration

	// Language for upstream requests. Default: "en"
	Language string

	// ForecastDays requested per refresh. Default: 5
	ForecastDays int

	// RefreshWeather enables weather refresh alongside pollen.
	RefreshWeather bool
}

// withDefaults fills in zero-valued fields.
func (c RefreshConfig) withDefaults() RefreshConfig {
	if c.Concurrency <= 0 {
		c.Concurrency = 3
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if c.ForecastDays <= 0 {
		c.ForecastDays = 5
	}
	return c
}
