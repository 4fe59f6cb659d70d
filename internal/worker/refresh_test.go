package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollentracker/pollentracker/internal/history"
	"github.com/pollentracker/pollentracker/internal/kv"
	"github.com/pollentracker/pollentracker/internal/pollen"
	"github.com/pollentracker/pollentracker/internal/worker"
)

type fakeForecastProvider struct {
	calls int64
	err   error
}

func (f *fakeForecastProvider) Lookup(_ context.Context, _, _ float64, _ string, _ int) (json.RawMessage, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"regionCode":"RU","dailyInfo":[{"plantInfo":[]}]}`), nil
}

func (f *fakeForecastProvider) Name() string { return "fake" }

func newRefreshJob(provider pollen.Provider, store *history.Store, points []worker.Point) *worker.RefreshJob {
	service := pollen.NewService(pollen.ServiceConfig{
		Provider:    provider,
		History:     store,
		LocationKey: history.LocationKey,
		Logger:      zerolog.Nop(),
	})

	return worker.NewRefreshJob(worker.RefreshJobConfig{
		Config: worker.RefreshConfig{
			Points:      points,
			Concurrency: 2,
			Timeout:     5 * time.Second,
		},
		Logger:        zerolog.Nop(),
		PollenService: service,
	})
}

func TestRefreshJob_RefreshesAllPoints(t *testing.T) {
	provider := &fakeForecastProvider{}
	store := history.New(history.Config{KV: kv.NewMemory(), Logger: zerolog.Nop()})
	points := []worker.Point{
		{Lat: 55.7558, Lon: 37.6173},
		{Lat: 59.9311, Lon: 30.3609},
		{Lat: 54.9833, Lon: 82.8964},
	}

	job := newRefreshJob(provider, store, points)
	result := job.Run(context.Background())

	assert.Equal(t, 3, result.TotalPoints)
	assert.Equal(t, 3, result.Successful)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)
	assert.Equal(t, int64(3), atomic.LoadInt64(&provider.calls))

	// Each point landed in the history store
	for _, p := range points {
		assert.Len(t, store.History(history.LocationKey(p.Lat, p.Lon)), 1)
	}
}

func TestRefreshJob_CollectsFailures(t *testing.T) {
	provider := &fakeForecastProvider{err: errors.New("upstream down")}
	store := history.New(history.Config{KV: kv.NewMemory(), Logger: zerolog.Nop()})

	job := newRefreshJob(provider, store, []worker.Point{{Lat: 1, Lon: 2}})
	result := job.Run(context.Background())

	assert.Equal(t, 0, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "pollen", result.Errors[0].Provider)
}

func TestRefreshJob_UpdatesMetrics(t *testing.T) {
	provider := &fakeForecastProvider{}
	store := history.New(history.Config{KV: kv.NewMemory(), Logger: zerolog.Nop()})

	job := newRefreshJob(provider, store, []worker.Point{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}})
	job.Run(context.Background())
	job.Run(context.Background())

	m := job.Metrics()
	assert.Equal(t, int64(2), m.TotalRefreshes)
	assert.Equal(t, int64(4), m.SuccessfulRefresh)
	assert.Equal(t, int64(0), m.FailedRefreshes)
	assert.Equal(t, int64(4), m.PollenRefresh)
	assert.False(t, m.LastRefreshAt.IsZero())
}

func TestRefreshJob_EmptyPoints(t *testing.T) {
	provider := &fakeForecastProvider{}
	store := history.New(history.Config{KV: kv.NewMemory(), Logger: zerolog.Nop()})

	job := newRefreshJob(provider, store, nil)
	result := job.Run(context.Background())

	assert.Equal(t, 0, result.TotalPoints)
	assert.Equal(t, int64(0), atomic.LoadInt64(&provider.calls))
}
