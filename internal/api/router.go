// Package api provides the HTTP API for the pollen tracker.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/pollentracker/pollentracker/internal/api/handler"
	"github.com/pollentracker/pollentracker/internal/api/middleware"
	"github.com/pollentracker/pollentracker/internal/geocode"
	"github.com/pollentracker/pollentracker/internal/history"
	"github.com/pollentracker/pollentracker/internal/pollen"
	"github.com/pollentracker/pollentracker/internal/weather"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string

	// PollenProxy and WeatherProxy back the /api pass-through endpoints.
	// Either may be nil when the credential is not configured.
	PollenProxy  handler.PollenLookup
	WeatherProxy handler.WeatherLookup

	PollenService  *pollen.Service
	HistoryStore   *history.Store
	GeocodeService *geocode.Service
	WeatherService *weather.Service

	// ReadinessChecks probe backing dependencies for /v1/ops/ready.
	ReadinessChecks map[string]handler.ReadinessCheck
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "pollentracker-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ReadinessChecks)
	proxyHandler := handler.NewProxyHandler(cfg.PollenProxy, cfg.WeatherProxy, cfg.Logger)
	pollenHandler := handler.NewPollenHandler(cfg.PollenService, cfg.HistoryStore, cfg.Logger)
	geocodeHandler := handler.NewGeocodeHandler(cfg.GeocodeService, cfg.Logger)
	weatherHandler := handler.NewWeatherHandler(cfg.WeatherService, cfg.Logger)

	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// Pass-through proxy endpoints for the dashboard
	r.Route("/api", func(r chi.Router) {
		r.Use(expensiveRateLimit)
		r.Get("/pollen", proxyHandler.Pollen)
		r.Get("/weather", proxyHandler.Weather)
	})

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Upstream-backed endpoints
		r.Group(func(r chi.Router) {
			r.Use(expensiveRateLimit)
			r.Get("/pollen", pollenHandler.Forecast)
			r.Get("/geocode/reverse", geocodeHandler.Reverse)
			r.Get("/weather", weatherHandler.Current)
		})

		// History endpoints served from the local store
		r.Group(func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/history", pollenHandler.History)
			r.Get("/history/chart", pollenHandler.Chart)
		})
	})

	return r
}
