// Package google implements the Google Pollen API client.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/pollentracker/pollentracker/internal/pollen"
	"github.com/pollentracker/pollentracker/internal/provider/resilience"
)

const (
	// ProviderName identifies this pollen provider.
	ProviderName = "google-pollen"

	// DefaultBaseURL is the Google Pollen API base URL.
	DefaultBaseURL = "https://pollen.googleapis.com/v1"
)

// ClientConfig holds configuration for the Google Pollen client.
type ClientConfig struct {
	// APIKey is the Google API key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Google Pollen API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Google Pollen client.
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

// Lookup fetches the pollen forecast and returns the upstream body
// verbatim. The proxy endpoint passes these bytes through unchanged.
func (c *Client) Lookup(ctx context.Context, lat, lon float64, lang string, days int) (json.RawMessage, error) {
	if days < 1 {
		days = 1
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("location.latitude", fmt.Sprintf("%.6f", lat))
	q.Set("location.longitude", fmt.Sprintf("%.6f", lon))
	q.Set("days", fmt.Sprintf("%d", days))
	q.Set("languageCode", lang)

	reqURL := fmt.Sprintf("%s/forecast:lookup?%s", c.baseURL, q.Encode())

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

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return json.RawMessage(body), nil
}

// Forecast fetches and decodes the pollen forecast.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, lang string, days int) (*pollen.ForecastPayload, error) {
	raw, err := c.Lookup(ctx, lat, lon, lang, days)
	if err != nil {
		return nil, err
	}

	var payload pollen.ForecastPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &payload, nil
}
