// Package handler provides HTTP handlers for the pollen tracker API.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pollentracker/pollentracker/internal/api/response"
)

const defaultForecastDays = 5

// PollenLookup fetches the upstream pollen forecast body verbatim.
type PollenLookup interface {
	Lookup(ctx context.Context, lat, lon float64, lang string, days int) (json.RawMessage, error)
}

// WeatherLookup fetches the upstream current-weather body verbatim.
type WeatherLookup interface {
	Raw(ctx context.Context, lat, lon float64, lang string) (json.RawMessage, error)
}

// ProxyHandler forwards dashboard requests to the upstream pollen and
// weather APIs using server-held credentials, returning the upstream
// JSON unmodified. A nil lookup means the corresponding credential was
// not configured.
type ProxyHandler struct {
	pollen  PollenLookup
	weather WeatherLookup
	log     zerolog.Logger
}

// NewProxyHandler creates a new ProxyHandler.
func NewProxyHandler(pollen PollenLookup, weather WeatherLookup, log zerolog.Logger) *ProxyHandler {
	return &ProxyHandler{
		pollen:  pollen,
		weather: weather,
		log:     log,
	}
}

// Pollen handles GET /api/pollen - pass-through to the pollen forecast API.
func (h *ProxyHandler) Pollen(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := queryCoordinates(r)
	if !ok {
		response.BadRequest(w, r, "lat and lng query parameters are required")
		return
	}

	if h.pollen == nil {
		response.InternalError(w, r, "pollen API key is not configured")
		return
	}

	lang := queryLanguage(r)
	days := queryDays(r)

	raw, err := h.pollen.Lookup(r.Context(), lat, lon, lang, days)
	if err != nil {
		h.log.Error().Err(err).Msg("pollen proxy upstream request failed")
		response.InternalError(w, r, "failed to fetch pollen data")
		return
	}

	response.Raw(w, r, http.StatusOK, raw)
}

// Weather handles GET /api/weather - pass-through to the current weather API.
func (h *ProxyHandler) Weather(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := queryCoordinates(r)
	if !ok {
		response.BadRequest(w, r, "lat and lng query parameters are required")
		return
	}

	if h.weather == nil {
		response.InternalError(w, r, "weather API key is not configured")
		return
	}

	raw, err := h.weather.Raw(r.Context(), lat, lon, queryLanguage(r))
	if err != nil {
		h.log.Error().Err(err).Msg("weather proxy upstream request failed")
		response.InternalError(w, r, "failed to fetch weather data")
		return
	}

	response.Raw(w, r, http.StatusOK, raw)
}

// queryCoordinates extracts coordinates from the query string, accepting
// both the short and long parameter spellings.
func queryCoordinates(r *http.Request) (lat, lon float64, ok bool) {
	q := r.URL.Query()

	latStr := q.Get("lat")
	if latStr == "" {
		latStr = q.Get("latitude")
	}
	lonStr := q.Get("lng")
	if lonStr == "" {
		lonStr = q.Get("longitude")
	}
	if latStr == "" || lonStr == "" {
		return 0, 0, false
	}

	var err error
	if lat, err = strconv.ParseFloat(latStr, 64); err != nil {
		return 0, 0, false
	}
	if lon, err = strconv.ParseFloat(lonStr, 64); err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// queryLanguage extracts the language code, accepting both spellings.
func queryLanguage(r *http.Request) string {
	q := r.URL.Query()
	if lang := q.Get("lang"); lang != "" {
		return lang
	}
	return q.Get("languageCode")
}

// queryDays extracts the forecast day count, falling back to the default.
func queryDays(r *http.Request) int {
	if s := r.URL.Query().Get("days"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return defaultForecastDays
}
