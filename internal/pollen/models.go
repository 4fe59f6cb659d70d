// Package pollen holds the pollen domain model: the reference table of
// display descriptors, the forecast payload shapes, and the processing
// that turns one day's raw payload into a normalized record.
package pollen

import (
	"errors"

	"github.com/pollentracker/pollentracker/internal/i18n"
)

// Pollen errors.
var (
	ErrProviderUnavailable = errors.New("pollen provider unavailable")
	ErrNoDataForLocation   = errors.New("no pollen data for location")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// defaultCategory is used when the upstream omits a category label.
const defaultCategory = "Very Low"

// IndexInfo carries a single pollen index reading.
// Value is a pointer because the upstream omits it for dormant types;
// a missing value is treated as 0, not as an absent entry.
type IndexInfo struct {
	Value    *int   `json:"value,omitempty"`
	Category string `json:"category,omitempty"`
}

// PayloadEntry is one plant or pollen type entry in a daily payload.
type PayloadEntry struct {
	Code        string     `json:"code"`
	DisplayName string     `json:"displayName"`
	IndexInfo   *IndexInfo `json:"indexInfo,omitempty"`
}

// DayPayload is the raw upstream data for a single day.
// PlantInfo carries per-species readings; PollenTypeInfo is the coarser
// category rollup of the same day.
type DayPayload struct {
	PlantInfo      []PayloadEntry `json:"plantInfo,omitempty"`
	PollenTypeInfo []PayloadEntry `json:"pollenTypeInfo,omitempty"`
}

// ForecastPayload is the multi-day upstream response. DailyInfo index 0
// is today, index i is today + i days.
type ForecastPayload struct {
	RegionCode string       `json:"regionCode,omitempty"`
	DailyInfo  []DayPayload `json:"dailyInfo"`
}

// TypeReading is one normalized pollen type reading within a day.
type TypeReading struct {
	Code         string    `json:"code"`
	DisplayName  string    `json:"displayName"`
	ShortName    i18n.Text `json:"shortName"`
	Value        int       `json:"value"`
	Category     string    `json:"category"`
	Color        string    `json:"color"`
	TypeCategory Category  `json:"typeCategory"`
}

// Processed is the normalized view of one day's payload.
// Codes records insertion order so chart projection stays deterministic;
// Types is the same readings keyed by code.
type Processed struct {
	Types       map[string]TypeReading `json:"types"`
	Codes       []string               `json:"codes"`
	MaxLevel    int                    `json:"maxLevel"`
	MaxCategory string                 `json:"maxCategory"`
	TotalTypes  int                    `json:"totalTypes"`
}

// Readings returns the readings in insertion order.
func (p Processed) Readings() []TypeReading {
	out := make([]TypeReading, 0, len(p.Codes))
	for _, code := range p.Codes {
		if r, ok := p.Types[code]; ok {
			out = append(out, r)
		}
	}
	return out
}

// DayRecord is the stored history entry for one location on one date.
// Timestamp is epoch milliseconds of when the record was stored.
type DayRecord struct {
	Timestamp int64      `json:"timestamp"`
	Raw       DayPayload `json:"rawData"`
	Processed Processed  `json:"processed"`
}

// ProcessDay normalizes one day's payload. PlantInfo entries are taken
// first; PollenTypeInfo fills gaps only. The first entry for a code wins,
// so a repeated code never overwrites a reading or appears twice in
// Codes. Entries with a missing index value are kept with value 0.
// The running max uses strict comparison, so the first entry reaching the
// maximum keeps its category on ties.
func ProcessDay(day DayPayload) Processed {
	result := Processed{
		Types:       make(map[string]TypeReading),
		MaxCategory: defaultCategory,
	}

	add := func(entry PayloadEntry) {
		if entry.IndexInfo == nil {
			return
		}
		if _, seen := result.Types[entry.Code]; seen {
			return
		}
		value := 0
		if entry.IndexInfo.Value != nil {
			value = *entry.IndexInfo.Value
		}
		category := entry.IndexInfo.Category
		if category == "" {
			category = defaultCategory
		}

		desc := Resolve(entry.Code, entry.DisplayName)
		result.Types[entry.Code] = TypeReading{
			Code:         entry.Code,
			DisplayName:  entry.DisplayName,
			ShortName:    desc.ShortName,
			Value:        value,
			Category:     category,
			Color:        desc.Color,
			TypeCategory: desc.Category,
		}
		result.Codes = append(result.Codes, entry.Code)

		if value > result.MaxLevel {
			result.MaxLevel = value
			result.MaxCategory = category
		}
	}

	for _, plant := range day.PlantInfo {
		add(plant)
	}
	for _, rollup := range day.PollenTypeInfo {
		add(rollup)
	}

	result.TotalTypes = len(result.Types)
	return result
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
