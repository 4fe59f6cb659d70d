// Package history implements the per-location pollen history store: a
// bounded rolling window of normalized day records, keyed by location and
// date, with best-effort persistence to a flat key-value medium.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pollentracker/pollentracker/internal/kv"
	"github.com/pollentracker/pollentracker/internal/pollen"
)

const (
	// MaxHistoryDays is the retention window per location.
	MaxHistoryDays = 30

	// DefaultSlot is the key the store persists under.
	DefaultSlot = "detailed-pollen-history"

	// envelopeVersion is the persisted envelope format version.
	envelopeVersion = "1.0"

	// dateKeyLayout is the ISO date format used for history keys.
	dateKeyLayout = "2006-01-02"
)

// LocationKey derives the string identity for a coordinate pair.
// Coordinates are rounded to 4 decimal places (~11m), so nearby points
// intentionally collide. NaN or infinite inputs format to a degenerate
// but usable key; they are never rejected.
func LocationKey(lat, lon float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lon)
}

// DateKey formats a time as a history date key.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// LocationHistory maps ISO date keys to day records for one location.
type LocationHistory map[string]pollen.DayRecord

// envelope is the persisted wrapper format. A legacy unwrapped mapping
// (no version field) is still accepted on load.
type envelope struct {
	Version   string                     `json:"version"`
	Timestamp int64                      `json:"timestamp"`
	Data      map[string]LocationHistory `json:"data"`
}

// Config holds configuration for the history store.
type Config struct {
	// KV is the persistence medium. Required.
	KV kv.Store

	// Slot is the key persisted under (default: DefaultSlot).
	Slot string

	// MaxDays is the retention window (default: MaxHistoryDays).
	MaxDays int

	// Logger for store operations.
	Logger zerolog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Store is the in-memory history store. All mutations happen under a
// single mutex; persistence is synchronous and best-effort.
type Store struct {
	mu      sync.RWMutex
	data    map[string]LocationHistory
	kv      kv.Store
	slot    string
	maxDays int
	logger  zerolog.Logger
	now     func() time.Time
}

// New creates an empty history store.
func New(cfg Config) *Store {
	slot := cfg.Slot
	if slot == "" {
		slot = DefaultSlot
	}
	maxDays := cfg.MaxDays
	if maxDays == 0 {
		maxDays = MaxHistoryDays
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Store{
		data:    make(map[string]LocationHistory),
		kv:      cfg.KV,
		slot:    slot,
		maxDays: maxDays,
		logger:  cfg.Logger,
		now:     now,
	}
}

// StoreDay normalizes rawDay and upserts the record for (locationKey,
// dateKey), then prunes the location to the retention window. An empty
// dateKey means today.
func (s *Store) StoreDay(locationKey, dateKey string, rawDay pollen.DayPayload) {
	if dateKey == "" {
		dateKey = DateKey(s.now())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeDayLocked(locationKey, dateKey, rawDay)
}

// StoreForecast stores every daily slice of a multi-day payload. Slice
// index i is recorded under today + i days; each day is processed in
// isolation from its own slice.
func (s *Store) StoreForecast(locationKey string, forecast pollen.ForecastPayload) {
	today := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, day := range forecast.DailyInfo {
		dateKey := DateKey(today.AddDate(0, 0, i))
		s.storeDayLocked(locationKey, dateKey, day)
	}
}

func (s *Store) storeDayLocked(locationKey, dateKey string, rawDay pollen.DayPayload) {
	loc, ok := s.data[locationKey]
	if !ok {
		loc = make(LocationHistory)
		s.data[locationKey] = loc
	}

	loc[dateKey] = pollen.DayRecord{
		Timestamp: s.now().UnixMilli(),
		Raw:       rawDay,
		Processed: pollen.ProcessDay(rawDay),
	}

	s.pruneLocked(loc)
}

// pruneLocked evicts the oldest dates (by date-string sort order) until
// the location is within the retention window.
func (s *Store) pruneLocked(loc LocationHistory) {
	if len(loc) <= s.maxDays {
		return
	}

	dates := make([]string, 0, len(loc))
	for d := range loc {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, d := range dates[:len(dates)-s.maxDays] {
		delete(loc, d)
	}
}

// History returns a copy of the history for a location key. The result
// is never nil; an unknown location yields an empty mapping.
func (s *Store) History(locationKey string) LocationHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.data[locationKey]
	if !ok {
		return LocationHistory{}
	}

	out := make(LocationHistory, len(loc))
	for date, rec := range loc {
		out[date] = copyRecord(rec)
	}
	return out
}

// Locations returns the known location keys, sorted.
func (s *Store) Locations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load replaces the in-memory state with the persisted snapshot. Absent,
// corrupted, or structurally wrong persisted values yield an empty store
// and silently reset the persisted slot; Load never fails the caller.
func (s *Store) Load(ctx context.Context) {
	data, reset := s.decodePersisted(ctx)
	if reset {
		if err := s.kv.Delete(ctx, s.slot); err != nil {
			s.logger.Warn().Err(err).Str("slot", s.slot).Msg("failed to reset corrupted history slot")
		}
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

// decodePersisted reads and validates the persisted slot. It returns the
// decoded data (empty on any problem) and whether the slot should be reset.
func (s *Store) decodePersisted(ctx context.Context) (map[string]LocationHistory, bool) {
	empty := make(map[string]LocationHistory)

	raw, err := s.kv.Get(ctx, s.slot)
	if errors.Is(err, kv.ErrNotFound) {
		return empty, false
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("slot", s.slot).Msg("failed to read history slot")
		return empty, false
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "undefined" || trimmed == "null" || trimmed == "[object Object]" {
		s.logger.Warn().Str("slot", s.slot).Msg("corrupted history slot detected")
		return empty, true
	}

	// Current envelope format first.
	var env envelope
	if err := json.Unmarshal([]byte(trimmed), &env); err == nil && env.Version != "" && env.Data != nil {
		return env.Data, false
	}

	// Legacy unwrapped mapping; accepted for read, rewritten in envelope
	// form by the next Save.
	var legacy map[string]LocationHistory
	if err := json.Unmarshal([]byte(trimmed), &legacy); err == nil && legacy != nil {
		s.logger.Info().Str("slot", s.slot).Msg("loaded legacy history format")
		return legacy, false
	}

	s.logger.Warn().Str("slot", s.slot).Msg("unparseable history slot, resetting")
	return empty, true
}

// Save persists the current state in the versioned envelope format. The
// serialized bytes are verified to round-trip before writing. Failures
// are logged and skipped; Save never raises to the caller.
func (s *Store) Save(ctx context.Context) {
	s.mu.RLock()
	env := envelope{
		Version:   envelopeVersion,
		Timestamp: s.now().UnixMilli(),
		Data:      s.data,
	}
	serialized, err := json.Marshal(env)
	s.mu.RUnlock()

	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to serialize history, skipping save")
		return
	}

	var check envelope
	if err := json.Unmarshal(serialized, &check); err != nil || check.Version != envelopeVersion {
		s.logger.Warn().Err(err).Msg("history serialization did not round-trip, skipping save")
		return
	}

	if err := s.kv.Set(ctx, s.slot, string(serialized)); err != nil {
		s.logger.Warn().Err(err).Str("slot", s.slot).Msg("failed to persist history")
	}
}

func copyRecord(rec pollen.DayRecord) pollen.DayRecord {
	out := rec
	out.Processed.Types = make(map[string]pollen.TypeReading, len(rec.Processed.Types))
	for code, r := range rec.Processed.Types {
		out.Processed.Types[code] = r
	}
	out.Processed.Codes = append([]string(nil), rec.Processed.Codes...)
	return out
}
