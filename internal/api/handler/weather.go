package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/pollentracker/pollentracker/internal/api/response"
	"github.com/pollentracker/pollentracker/internal/weather"
)

// WeatherHandler handles decoded current-weather endpoints. A nil
// service means the weather credential was not configured.
type WeatherHandler struct {
	service *weather.Service
	log     zerolog.Logger
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(service *weather.Service, log zerolog.Logger) *WeatherHandler {
	return &WeatherHandler{
		service: service,
		log:     log,
	}
}

// currentResponse is the body for GET /v1/weather.
type currentResponse struct {
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Glyph       string  `json:"glyph"`
}

// Current handles GET /v1/weather - current conditions with the display glyph.
func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := queryCoordinates(r)
	if !ok {
		response.BadRequest(w, r, "lat and lng query parameters are required")
		return
	}

	if h.service == nil {
		response.InternalError(w, r, "weather API key is not configured")
		return
	}

	current, err := h.service.GetCurrent(r.Context(), lat, lon, queryLanguage(r))
	if err != nil {
		if errors.Is(err, weather.ErrProviderUnavailable) {
			response.ServiceUnavailable(w, r, "weather provider is unavailable")
			return
		}
		response.InternalError(w, r, "failed to fetch weather data")
		return
	}

	response.JSON(w, r, http.StatusOK, currentResponse{
		Temperature: current.Temperature,
		Description: current.Description,
		Icon:        current.Icon,
		Glyph:       current.Glyph,
	})
}
