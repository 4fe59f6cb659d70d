// Package openweathermap implements the OpenWeatherMap client.
package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/pollentracker/pollentracker/internal/provider/resilience"
	"github.com/pollentracker/pollentracker/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
)

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new OpenWeatherMap client.
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

// Raw fetches current weather and returns the upstream body verbatim,
// for the proxy passthrough.
func (c *Client) Raw(ctx context.Context, lat, lon float64, lang string) (json.RawMessage, error) {
	body, err := c.fetch(ctx, lat, lon, lang)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// GetCurrent fetches and decodes current conditions.
func (c *Client) GetCurrent(ctx context.Context, lat, lon float64, lang string) (*weather.Current, error) {
	body, err := c.fetch(ctx, lat, lon, lang)
	if err != nil {
		return nil, err
	}

	var owmResp currentResponse
	if err := json.Unmarshal(body, &owmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return c.toCurrent(&owmResp, lat, lon), nil
}

func (c *Client) fetch(ctx context.Context, lat, lon float64, lang string) ([]byte, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.6f", lat))
	q.Set("lon", fmt.Sprintf("%.6f", lon))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	q.Set("lang", lang)

	reqURL := fmt.Sprintf("%s/weather?%s", c.baseURL, q.Encode())

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
	return body, nil
}

// toCurrent converts the OpenWeatherMap response to the domain model.
func (c *Client) toCurrent(resp *currentResponse, lat, lon float64) *weather.Current {
	current := &weather.Current{
		Lat:         lat,
		Lon:         lon,
		Temperature: resp.Main.Temp,
		FetchedAt:   time.Now(),
	}

	if len(resp.Weather) > 0 {
		current.Description = resp.Weather[0].Description
		current.Icon = resp.Weather[0].Icon
	}
	current.Glyph = weather.Glyph(current.Icon)

	return current
}

// OpenWeatherMap API response structures.

type currentResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Name string `json:"name"`
}
