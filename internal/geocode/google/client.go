// Package google implements the Google Geocoding API client.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/pollentracker/pollentracker/internal/geocode"
	"github.com/pollentracker/pollentracker/internal/provider/resilience"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "google-geocoding"

	// DefaultBaseURL is the Google Geocoding API base URL.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api"
)

// ClientConfig holds configuration for the Google Geocoding client.
type ClientConfig struct {
	// APIKey is the Google API key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Google Geocoding API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Google Geocoding client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// ReverseGeocode resolves a coordinate pair via the Geocoding API.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64, lang string) (*geocode.Address, error) {
	q := url.Values{}
	q.Set("latlng", fmt.Sprintf("%.6f,%.6f", lat, lon))
	q.Set("key", c.apiKey)
	q.Set("language", lang)

	reqURL := fmt.Sprintf("%s/geocode/json?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var geoResp geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&geoResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if geoResp.Status != "OK" || len(geoResp.Results) == 0 {
		return nil, fmt.Errorf("%w: status %s", geocode.ErrNoResult, geoResp.Status)
	}

	return toAddress(&geoResp.Results[0]), nil
}

// toAddress extracts city/state/country from address components.
func toAddress(result *geocodeResult) *geocode.Address {
	addr := &geocode.Address{Formatted: result.FormattedAddress}

	for _, comp := range result.AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "locality":
				addr.City = comp.LongName
			case "administrative_area_level_1":
				addr.State = comp.LongName
			case "country":
				addr.Country = comp.LongName
			}
		}
	}
	return addr
}

// Google Geocoding API response structures.

type geocodeResponse struct {
	Status  string          `json:"status"`
	Results []geocodeResult `json:"results"`
}

type geocodeResult struct {
	FormattedAddress  string `json:"formatted_address"`
	AddressComponents []struct {
		LongName  string   `json:"long_name"`
		ShortName string   `json:"short_name"`
		Types     []string `json:"types"`
	} `json:"address_components"`
}
