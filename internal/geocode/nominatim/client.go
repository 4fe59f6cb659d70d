// Package nominatim implements the OpenStreetMap Nominatim reverse
// geocoding client, used as the fallback when Google geocoding fails.
package nominatim

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
	ProviderName = "nominatim"

	// DefaultBaseURL is the public Nominatim instance.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// userAgent identifies the service per the Nominatim usage policy.
	userAgent = "pollentracker/1.0"
)

// ClientConfig holds configuration for the Nominatim client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Nominatim reverse-geocoding client.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Nominatim client.
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
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// ReverseGeocode resolves a coordinate pair via Nominatim.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64, lang string) (*geocode.Address, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.6f", lat))
	q.Set("lon", fmt.Sprintf("%.6f", lon))
	q.Set("format", "json")
	q.Set("accept-language", lang)
	q.Set("addressdetails", "1")

	reqURL := fmt.Sprintf("%s/reverse?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var nomResp reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&nomResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if nomResp.Address == nil {
		return nil, geocode.ErrNoResult
	}

	return toAddress(&nomResp), nil
}

// toAddress maps Nominatim's address fields onto the domain model.
// City falls through town, village, and county.
func toAddress(resp *reverseResponse) *geocode.Address {
	a := resp.Address

	city := a.City
	if city == "" {
		city = a.Town
	}
	if city == "" {
		city = a.Village
	}
	if city == "" {
		city = a.County
	}

	return &geocode.Address{
		City:      city,
		State:     a.State,
		Country:   a.Country,
		Formatted: resp.DisplayName,
	}
}

// Nominatim API response structures.

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     *struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		County  string `json:"county"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}
