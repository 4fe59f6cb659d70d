package pollen_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollentracker/pollentracker/internal/pollen"
)

type fakeProvider struct {
	raw json.RawMessage
	err error
}

func (f *fakeProvider) Lookup(_ context.Context, _, _ float64, _ string, _ int) (json.RawMessage, error) {
	return f.raw, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

type fakeHistory struct {
	storedKey      string
	storedForecast pollen.ForecastPayload
	saved          bool
}

func (f *fakeHistory) StoreForecast(locationKey string, forecast pollen.ForecastPayload) {
	f.storedKey = locationKey
	f.storedForecast = forecast
}

func (f *fakeHistory) Save(_ context.Context) { f.saved = true }

func TestService_Fetch_StoresForecast(t *testing.T) {
	raw := json.RawMessage(`{
		"regionCode": "RU",
		"dailyInfo": [
			{"plantInfo": [{"code": "TREE_BIRCH", "displayName": "Birch", "indexInfo": {"value": 3, "category": "Moderate"}}]},
			{"plantInfo": [{"code": "TREE_BIRCH", "displayName": "Birch", "indexInfo": {"value": 2, "category": "Low"}}]}
		]
	}`)

	hist := &fakeHistory{}
	svc := pollen.NewService(pollen.ServiceConfig{
		Provider:    &fakeProvider{raw: raw},
		History:     hist,
		LocationKey: func(lat, lon float64) string { return "key" },
		Logger:      zerolog.Nop(),
	})

	result, err := svc.Fetch(context.Background(), 55.75, 37.61, "ru", 2)
	require.NoError(t, err)

	assert.Equal(t, raw, result.Raw)
	assert.Equal(t, "RU", result.Payload.RegionCode)
	assert.Equal(t, "key", hist.storedKey)
	assert.Len(t, hist.storedForecast.DailyInfo, 2)
	assert.True(t, hist.saved)
}

func TestService_Fetch_InvalidCoordinates(t *testing.T) {
	svc := pollen.NewService(pollen.ServiceConfig{
		Provider: &fakeProvider{},
		Logger:   zerolog.Nop(),
	})

	_, err := svc.Fetch(context.Background(), 120, 0, "en", 5)
	assert.ErrorIs(t, err, pollen.ErrInvalidCoordinates)
}

func TestService_Fetch_ProviderError(t *testing.T) {
	svc := pollen.NewService(pollen.ServiceConfig{
		Provider: &fakeProvider{err: errors.New("boom")},
		Logger:   zerolog.Nop(),
	})

	_, err := svc.Fetch(context.Background(), 55.75, 37.61, "en", 5)
	assert.ErrorIs(t, err, pollen.ErrProviderUnavailable)
}

func TestService_Fetch_UndecodablePayloadSkipsHistory(t *testing.T) {
	hist := &fakeHistory{}
	svc := pollen.NewService(pollen.ServiceConfig{
		Provider:    &fakeProvider{raw: json.RawMessage(`"not an object"`)},
		History:     hist,
		LocationKey: func(lat, lon float64) string { return "key" },
		Logger:      zerolog.Nop(),
	})

	result, err := svc.Fetch(context.Background(), 55.75, 37.61, "en", 5)
	require.NoError(t, err)

	assert.NotNil(t, result.Raw)
	assert.False(t, hist.saved)
}
