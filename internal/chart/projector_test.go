package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollentracker/pollentracker/internal/history"
	"github.com/pollentracker/pollentracker/internal/pollen"
)

func intPtr(v int) *int { return &v }

var testNow = time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)

func dayRecord(entries ...pollen.PayloadEntry) pollen.DayRecord {
	raw := pollen.DayPayload{PlantInfo: entries}
	return pollen.DayRecord{
		Timestamp: testNow.UnixMilli(),
		Raw:       raw,
		Processed: pollen.ProcessDay(raw),
	}
}

func entry(code, name string, value int, category string) pollen.PayloadEntry {
	return pollen.PayloadEntry{
		Code:        code,
		DisplayName: name,
		IndexInfo:   &pollen.IndexInfo{Value: intPtr(value), Category: category},
	}
}

func TestHistoryRange(t *testing.T) {
	dates := HistoryRange(testNow, 3)

	require.Len(t, dates, 3)
	assert.Equal(t, "2026-04-13", dates[0].Date)
	assert.Equal(t, "2026-04-14", dates[1].Date)
	assert.Equal(t, "2026-04-15", dates[2].Date)
	assert.False(t, dates[0].IsToday)
	assert.True(t, dates[2].IsToday)
}

func TestForecastRange(t *testing.T) {
	dates := ForecastRange(testNow, 3)

	require.Len(t, dates, 3)
	assert.Equal(t, "2026-04-15", dates[0].Date)
	assert.Equal(t, "2026-04-17", dates[2].Date)
	assert.True(t, dates[0].IsToday)
	assert.False(t, dates[1].IsToday)
}

func TestProject_NoDataPlaceholder(t *testing.T) {
	days := Project(HistoryRange(testNow, 2), history.LocationHistory{}, "en")

	require.Len(t, days, 2)
	for _, day := range days {
		assert.False(t, day.HasData)
		require.Len(t, day.Bars, 1)
		assert.Equal(t, 10, day.Bars[0].HeightPx)
		assert.Equal(t, "no-data-bar", day.Bars[0].Color)
		assert.Equal(t, "No data", day.Bars[0].Tooltip)
		assert.Equal(t, "--", day.Summary.MaxLabel)
	}
}

func TestProject_EmptyTypeSetIsNoData(t *testing.T) {
	hist := history.LocationHistory{
		"2026-04-15": dayRecord(),
	}

	days := Project(HistoryRange(testNow, 1), hist, "en")

	require.Len(t, days, 1)
	assert.False(t, days[0].HasData)
}

func TestProject_BarsSortedDescendingTopSix(t *testing.T) {
	hist := history.LocationHistory{
		"2026-04-15": dayRecord(
			entry("A1", "One", 1, "Low"),
			entry("A2", "Two", 5, "Very High"),
			entry("A3", "Three", 3, "Moderate"),
			entry("A4", "Four", 2, "Low"),
			entry("A5", "Five", 4, "High"),
			entry("A6", "Six", 2, "Low"),
			entry("A7", "Seven", 1, "Low"),
		),
	}

	days := Project(HistoryRange(testNow, 1), hist, "en")

	require.Len(t, days, 1)
	day := days[0]
	assert.True(t, day.HasData)
	require.Len(t, day.Bars, 6)

	// Descending by value
	for i := 1; i < len(day.Bars); i++ {
		assert.GreaterOrEqual(t, day.Bars[i-1].Value, day.Bars[i].Value)
	}
	assert.Equal(t, "A2", day.Bars[0].Code)
	assert.Equal(t, 5, day.Bars[0].Value)

	// Ties keep insertion order: A4 (value 2) comes before A6 (value 2)
	var tied []string
	for _, b := range day.Bars {
		if b.Value == 2 {
			tied = append(tied, b.Code)
		}
	}
	assert.Equal(t, []string{"A4", "A6"}, tied)
}

func TestProject_BarGeometryAndTooltip(t *testing.T) {
	hist := history.LocationHistory{
		"2026-04-15": dayRecord(entry("TREE_BIRCH", "Birch", 3, "Moderate")),
	}

	days := Project(HistoryRange(testNow, 1), hist, "en")

	bar := days[0].Bars[0]
	assert.Equal(t, 48, bar.HeightPx) // 3/5 * 80
	assert.Equal(t, "pollen-birch", bar.Color)
	assert.Equal(t, "Birch: 3 (Moderate)", bar.Tooltip)
}

func TestProject_Summary(t *testing.T) {
	hist := history.LocationHistory{
		"2026-04-15": dayRecord(
			entry("TREE_BIRCH", "Birch", 4, "High"),
			entry("GRASS", "Grass", 1, "Low"),
		),
	}

	days := Project(HistoryRange(testNow, 1), hist, "en")

	s := days[0].Summary
	assert.Equal(t, 4, s.MaxLevel)
	assert.Equal(t, "High", s.MaxCategory)
	assert.Equal(t, 2, s.TotalTypes)
	assert.Equal(t, "Max: 4", s.MaxLabel)
}

func TestProject_RussianLabels(t *testing.T) {
	hist := history.LocationHistory{
		"2026-04-15": dayRecord(entry("TREE_BIRCH", "Birch", 3, "Moderate")),
	}

	days := Project(HistoryRange(testNow, 2), hist, "ru")

	require.Len(t, days, 2)
	assert.Equal(t, "Вчера", days[0].Label)
	assert.Equal(t, "Сегодня", days[1].Label)
	assert.Contains(t, days[1].Bars[0].Tooltip, "Умеренный")
}

func TestProject_DayLabels(t *testing.T) {
	days := Project(HistoryRange(testNow, 3), history.LocationHistory{}, "en")

	require.Len(t, days, 3)
	assert.Equal(t, "Yesterday", days[1].Label)
	assert.Equal(t, "Today", days[2].Label)
	// 2026-04-13 is a Monday
	assert.Equal(t, "Mon 13 Apr", days[0].Label)
}

func TestProject_TomorrowLabelInForecastView(t *testing.T) {
	days := Project(ForecastRange(testNow, 2), history.LocationHistory{}, "en")

	require.Len(t, days, 2)
	assert.Equal(t, "Today", days[0].Label)
	assert.Equal(t, "Tomorrow", days[1].Label)
}

func TestProject_Deterministic(t *testing.T) {
	hist := history.LocationHistory{
		"2026-04-15": dayRecord(
			entry("A", "A", 2, "Low"),
			entry("B", "B", 2, "Low"),
			entry("C", "C", 2, "Low"),
		),
	}

	first := Project(HistoryRange(testNow, 1), hist, "en")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Project(HistoryRange(testNow, 1), hist, "en"))
	}
}

func TestBarHeight_Clamps(t *testing.T) {
	assert.Equal(t, 10, barHeight(0))
	assert.Equal(t, 16, barHeight(1))
	assert.Equal(t, 80, barHeight(5))
	assert.Equal(t, 80, barHeight(9))
}

func TestLegend_DistinctSortedTypes(t *testing.T) {
	hist := history.LocationHistory{
		"2026-04-14": dayRecord(entry("TREE_BIRCH", "Birch", 1, "Low")),
		"2026-04-15": dayRecord(
			entry("TREE_BIRCH", "Birch", 3, "Moderate"),
			entry("GRASS", "Grass", 2, "Low"),
		),
	}

	items := Legend(hist, "en")

	require.Len(t, items, 2)
	assert.Equal(t, "GRASS", items[0].Code)
	assert.Equal(t, "TREE_BIRCH", items[1].Code)
	assert.Equal(t, "pollen-birch", items[1].Color)
}

func TestLegend_Empty(t *testing.T) {
	assert.Empty(t, Legend(history.LocationHistory{}, "en"))
}
