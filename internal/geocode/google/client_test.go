package google_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollentracker/pollentracker/internal/geocode"
	"github.com/pollentracker/pollentracker/internal/geocode/google"
	"github.com/pollentracker/pollentracker/internal/provider/resilience"
)

func testHTTPClient() *resilience.Client {
	return resilience.NewClient(resilience.ClientConfig{
		Name:            "test",
		Timeout:         2 * time.Second,
		MaxRetries:      1,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
	})
}

func TestClient_ReverseGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/json", r.URL.Path)
		assert.Equal(t, "55.755800,37.617300", r.URL.Query().Get("latlng"))
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "ru", r.URL.Query().Get("language"))

		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "Red Square, Moscow, Russia, 109012",
				"address_components": [
					{"long_name": "Moscow", "short_name": "Moscow", "types": ["locality", "political"]},
					{"long_name": "Moscow", "short_name": "Moscow", "types": ["administrative_area_level_1"]},
					{"long_name": "Russia", "short_name": "RU", "types": ["country", "political"]}
				]
			}]
		}`))
	}))
	defer server.Close()

	client := google.NewClient(google.ClientConfig{
		APIKey:     "secret",
		BaseURL:    server.URL,
		HTTPClient: testHTTPClient(),
	})

	addr, err := client.ReverseGeocode(context.Background(), 55.7558, 37.6173, "ru")
	require.NoError(t, err)

	assert.Equal(t, "Moscow", addr.City)
	assert.Equal(t, "Moscow", addr.State)
	assert.Equal(t, "Russia", addr.Country)
	assert.Equal(t, "Red Square, Moscow, Russia, 109012", addr.Formatted)
}

func TestClient_ReverseGeocode_ZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer server.Close()

	client := google.NewClient(google.ClientConfig{
		APIKey:     "secret",
		BaseURL:    server.URL,
		HTTPClient: testHTTPClient(),
	})

	_, err := client.ReverseGeocode(context.Background(), 0, 0, "en")
	assert.ErrorIs(t, err, geocode.ErrNoResult)
}
