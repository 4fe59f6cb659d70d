// Package chart projects a date range and a history snapshot into a
// rendering-ready description of the detailed pollen chart. Projection is
// pure: no I/O, deterministic for identical inputs.
package chart

import (
	"fmt"
	"sort"
	"time"

	"github.com/pollentracker/pollentracker/internal/history"
	"github.com/pollentracker/pollentracker/internal/i18n"
)

const (
	// maxBarsPerDay limits each day to the highest readings.
	maxBarsPerDay = 6

	// Bar height bounds in pixels.
	minBarHeight = 10
	maxBarHeight = 80

	// maxIndexValue is the top of the 0-5 pollen index scale.
	maxIndexValue = 5
)

// DateInfo is one calendar date in a chart range.
type DateInfo struct {
	Date    string    `json:"date"`
	Time    time.Time `json:"-"`
	IsToday bool      `json:"isToday"`
}

// HistoryRange returns the past `days` dates ending today, oldest first.
func HistoryRange(now time.Time, days int) []DateInfo {
	dates := make([]DateInfo, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		dates = append(dates, DateInfo{
			Date:    history.DateKey(d),
			Time:    d,
			IsToday: i == 0,
		})
	}
	return dates
}

// ForecastRange returns today plus the next `days`-1 dates.
func ForecastRange(now time.Time, days int) []DateInfo {
	dates := make([]DateInfo, 0, days)
	for i := 0; i < days; i++ {
		d := now.AddDate(0, 0, i)
		dates = append(dates, DateInfo{
			Date:    history.DateKey(d),
			Time:    d,
			IsToday: i == 0,
		})
	}
	return dates
}

// Bar is one pollen type bar within a day.
type Bar struct {
	Code     string `json:"code,omitempty"`
	Label    string `json:"label,omitempty"`
	HeightPx int    `json:"heightPx"`
	Color    string `json:"color"`
	Tooltip  string `json:"tooltip"`
	Value    int    `json:"value"`
}

// Summary is the per-day footer under the bars.
type Summary struct {
	MaxLevel    int    `json:"maxLevel"`
	MaxCategory string `json:"maxCategory"`
	TotalTypes  int    `json:"totalTypes"`
	MaxLabel    string `json:"maxLabel"`
	CountLabel  string `json:"countLabel"`
	LevelLabel  string `json:"levelLabel"`
}

// RenderableDay is one chart column, ready for presentation.
type RenderableDay struct {
	Date    string  `json:"date"`
	Label   string  `json:"label"`
	IsToday bool    `json:"isToday"`
	HasData bool    `json:"hasData"`
	Bars    []Bar   `json:"bars"`
	Summary Summary `json:"summary"`
}

// Project maps each date in the range to a renderable day using the
// given history snapshot. Days without data (or with an empty type set)
// become a single no-data placeholder bar.
func Project(dates []DateInfo, hist history.LocationHistory, lang string) []RenderableDay {
	lang = i18n.Normalize(lang)
	out := make([]RenderableDay, 0, len(dates))

	var anchor time.Time
	for _, info := range dates {
		if info.IsToday {
			anchor = info.Time
			break
		}
	}

	for _, info := range dates {
		day := RenderableDay{
			Date:    info.Date,
			Label:   dayLabel(info, anchor, lang),
			IsToday: info.IsToday,
		}

		rec, ok := hist[info.Date]
		if !ok || len(rec.Processed.Types) == 0 {
			noData := i18n.T(lang, "No data")
			day.Bars = []Bar{{
				HeightPx: minBarHeight,
				Color:    "no-data-bar",
				Tooltip:  noData,
			}}
			day.Summary = Summary{
				MaxLabel:   "--",
				CountLabel: noData,
			}
			out = append(out, day)
			continue
		}

		day.HasData = true
		readings := rec.Processed.Readings()

		// Highest first; the stable sort keeps insertion order on ties.
		sort.SliceStable(readings, func(i, j int) bool {
			return readings[i].Value > readings[j].Value
		})
		if len(readings) > maxBarsPerDay {
			readings = readings[:maxBarsPerDay]
		}

		for _, r := range readings {
			day.Bars = append(day.Bars, Bar{
				Code:     r.Code,
				Label:    r.ShortName.Get(lang),
				HeightPx: barHeight(r.Value),
				Color:    r.Color,
				Tooltip:  fmt.Sprintf("%s: %d (%s)", r.DisplayName, r.Value, i18n.Level(lang, r.Category)),
				Value:    r.Value,
			})
		}

		p := rec.Processed
		day.Summary = Summary{
			MaxLevel:    p.MaxLevel,
			MaxCategory: p.MaxCategory,
			TotalTypes:  p.TotalTypes,
			MaxLabel:    fmt.Sprintf("%s: %d", i18n.T(lang, "Max"), p.MaxLevel),
			CountLabel:  i18n.PluralTypes(lang, p.TotalTypes),
			LevelLabel:  i18n.Level(lang, p.MaxCategory),
		}
		out = append(out, day)
	}

	return out
}

// LegendItem is one entry in the pollen types legend.
type LegendItem struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Legend returns the distinct pollen types across the history window,
// sorted by code for a stable order.
func Legend(hist history.LocationHistory, lang string) []LegendItem {
	lang = i18n.Normalize(lang)

	seen := make(map[string]LegendItem)
	for _, rec := range hist {
		for code, r := range rec.Processed.Types {
			if _, ok := seen[code]; ok {
				continue
			}
			name := r.DisplayName
			if name == "" {
				name = code
			}
			seen[code] = LegendItem{Code: code, Name: name, Color: r.Color}
		}
	}

	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	items := make([]LegendItem, 0, len(codes))
	for _, code := range codes {
		items = append(items, seen[code])
	}
	return items
}

// barHeight scales a 0-5 index value to pixels, clamped to [10, 80].
func barHeight(value int) int {
	h := int(float64(value) / maxIndexValue * maxBarHeight)
	if h < minBarHeight {
		return minBarHeight
	}
	if h > maxBarHeight {
		return maxBarHeight
	}
	return h
}

// dayLabel renders Today/Yesterday/Tomorrow relative to the range's
// today anchor, or an abbreviated date.
func dayLabel(info DateInfo, anchor time.Time, lang string) string {
	if info.IsToday {
		return i18n.T(lang, "Today")
	}

	if !anchor.IsZero() {
		switch history.DateKey(info.Time) {
		case history.DateKey(anchor.AddDate(0, 0, -1)):
			return i18n.T(lang, "Yesterday")
		case history.DateKey(anchor.AddDate(0, 0, 1)):
			return i18n.T(lang, "Tomorrow")
		}
	}

	return fmt.Sprintf("%s %d %s",
		i18n.Weekday(lang, int(info.Time.Weekday())),
		info.Time.Day(),
		i18n.Month(lang, int(info.Time.Month())),
	)
}
