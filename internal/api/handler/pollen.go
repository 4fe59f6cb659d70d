package handler

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/pollentracker/pollentracker/internal/api/response"
	"github.com/pollentracker/pollentracker/internal/chart"
	"github.com/pollentracker/pollentracker/internal/history"
	"github.com/pollentracker/pollentracker/internal/pollen"
)

const defaultChartDays = 7

// PollenHandler handles pollen forecast and history endpoints. A nil
// service means the pollen credential was not configured: Forecast
// reports that, while History and Chart keep serving the store.
type PollenHandler struct {
	service *pollen.Service
	store   *history.Store
	log     zerolog.Logger
}

// NewPollenHandler creates a new PollenHandler.
func NewPollenHandler(service *pollen.Service, store *history.Store, log zerolog.Logger) *PollenHandler {
	return &PollenHandler{
		service: service,
		store:   store,
		log:     log,
	}
}

// forecastDay is one day of the decoded forecast response.
type forecastDay struct {
	Date        string               `json:"date"`
	MaxLevel    int                  `json:"maxLevel"`
	MaxCategory string               `json:"maxCategory"`
	TotalTypes  int                  `json:"totalTypes"`
	Types       []pollen.TypeReading `json:"types"`
}

// forecastResponse is the body for GET /v1/pollen.
type forecastResponse struct {
	Location   string        `json:"location"`
	RegionCode string        `json:"regionCode,omitempty"`
	Days       []forecastDay `json:"days"`
}

// Forecast handles GET /v1/pollen - fetch the forecast, record it in
// history, and return the normalized view.
func (h *PollenHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := queryCoordinates(r)
	if !ok {
		response.BadRequest(w, r, "lat and lng query parameters are required")
		return
	}

	if h.service == nil {
		response.InternalError(w, r, "pollen API key is not configured")
		return
	}

	lang := queryLanguage(r)
	days := queryDays(r)

	result, err := h.service.Fetch(r.Context(), lat, lon, lang, days)
	if err != nil {
		switch {
		case errors.Is(err, pollen.ErrInvalidCoordinates):
			response.BadRequest(w, r, "coordinates are out of range")
		case errors.Is(err, pollen.ErrProviderUnavailable):
			response.ServiceUnavailable(w, r, "pollen provider is unavailable")
		default:
			response.InternalError(w, r, "failed to fetch pollen forecast")
		}
		return
	}

	resp := forecastResponse{
		Location:   history.LocationKey(lat, lon),
		RegionCode: result.Payload.RegionCode,
		Days:       make([]forecastDay, 0, len(result.Payload.DailyInfo)),
	}
	now := time.Now()
	for i, day := range result.Payload.DailyInfo {
		processed := pollen.ProcessDay(day)
		resp.Days = append(resp.Days, forecastDay{
			Date:        history.DateKey(now.AddDate(0, 0, i)),
			MaxLevel:    processed.MaxLevel,
			MaxCategory: processed.MaxCategory,
			TotalTypes:  processed.TotalTypes,
			Types:       processed.Readings(),
		})
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// historyDay is one stored day in the history response.
type historyDay struct {
	Date        string               `json:"date"`
	Timestamp   int64                `json:"timestamp"`
	MaxLevel    int                  `json:"maxLevel"`
	MaxCategory string               `json:"maxCategory"`
	TotalTypes  int                  `json:"totalTypes"`
	Types       []pollen.TypeReading `json:"types"`
}

// historyResponse is the body for GET /v1/history.
type historyResponse struct {
	Location string       `json:"location"`
	Days     []historyDay `json:"days"`
}

// History handles GET /v1/history - return the stored records for a location.
func (h *PollenHandler) History(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := queryCoordinates(r)
	if !ok {
		response.BadRequest(w, r, "lat and lng query parameters are required")
		return
	}

	key := history.LocationKey(lat, lon)
	hist := h.store.History(key)

	dates := make([]string, 0, len(hist))
	for date := range hist {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	resp := historyResponse{
		Location: key,
		Days:     make([]historyDay, 0, len(dates)),
	}
	for _, date := range dates {
		rec := hist[date]
		resp.Days = append(resp.Days, historyDay{
			Date:        date,
			Timestamp:   rec.Timestamp,
			MaxLevel:    rec.Processed.MaxLevel,
			MaxCategory: rec.Processed.MaxCategory,
			TotalTypes:  rec.Processed.TotalTypes,
			Types:       rec.Processed.Readings(),
		})
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// chartResponse is the body for GET /v1/history/chart.
type chartResponse struct {
	Location string                `json:"location"`
	View     string                `json:"view"`
	Days     []chart.RenderableDay `json:"days"`
	Legend   []chart.LegendItem    `json:"legend"`
}

// Chart handles GET /v1/history/chart - project stored history into
// renderable chart days. view=history (default) covers the trailing
// window ending today; view=forecast covers today onward.
func (h *PollenHandler) Chart(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := queryCoordinates(r)
	if !ok {
		response.BadRequest(w, r, "lat and lng query parameters are required")
		return
	}

	view := r.URL.Query().Get("view")
	if view == "" {
		view = "history"
	}
	if view != "history" && view != "forecast" {
		response.BadRequest(w, r, "view must be history or forecast")
		return
	}

	days := defaultChartDays
	if n := queryDays(r); r.URL.Query().Get("days") != "" {
		days = n
	}
	lang := queryLanguage(r)

	key := history.LocationKey(lat, lon)
	hist := h.store.History(key)

	now := time.Now()
	var dates []chart.DateInfo
	if view == "forecast" {
		dates = chart.ForecastRange(now, days)
	} else {
		dates = chart.HistoryRange(now, days)
	}

	resp := chartResponse{
		Location: key,
		View:     view,
		Days:     chart.Project(dates, hist, lang),
		Legend:   chart.Legend(hist, lang),
	}

	response.JSON(w, r, http.StatusOK, resp)
}
