package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/pollentracker/pollentracker/internal/api/response"
	"github.com/pollentracker/pollentracker/internal/geocode"
)

// GeocodeHandler handles reverse geocoding endpoints.
type GeocodeHandler struct {
	service *geocode.Service
	log     zerolog.Logger
}

// NewGeocodeHandler creates a new GeocodeHandler.
func NewGeocodeHandler(service *geocode.Service, log zerolog.Logger) *GeocodeHandler {
	return &GeocodeHandler{
		service: service,
		log:     log,
	}
}

// reverseResponse is the body for GET /v1/geocode/reverse.
type reverseResponse struct {
	DisplayName string           `json:"displayName"`
	Address     *geocode.Address `json:"address,omitempty"`
}

// Reverse handles GET /v1/geocode/reverse - resolve coordinates to a
// display name. Provider failures degrade to a coordinate label rather
// than an error response.
func (h *GeocodeHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := queryCoordinates(r)
	if !ok {
		response.BadRequest(w, r, "lat and lng query parameters are required")
		return
	}
	lang := queryLanguage(r)

	resp := reverseResponse{}
	addr, err := h.service.Resolve(r.Context(), lat, lon, lang)
	if err != nil {
		resp.DisplayName = geocode.CoordinateLabel(lat, lon)
	} else {
		resp.Address = addr
		if resp.DisplayName = geocode.FormatAddress(addr); resp.DisplayName == "" {
			resp.DisplayName = geocode.CoordinateLabel(lat, lon)
		}
	}

	response.JSON(w, r, http.StatusOK, resp)
}
