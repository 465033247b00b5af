package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claussann/FishingWebApp/internal/observability"
	"github.com/claussann/FishingWebApp/internal/weather"
)

// Client implements weather.Geocoder using the Nominatim search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	language   string
	userAgent  string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim geocoding client. Nominatim's usage policy
// requires an identifying User-Agent.
func NewClient(baseURL, language, userAgent string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		language:  language,
		userAgent: userAgent,
		metrics:   metrics,
		logger:    logger,
	}
}

// Geocode returns the best match for query, or an empty Place when there is none.
func (c *Client) Geocode(ctx context.Context, query string) (weather.Place, error) {
	params := url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return weather.Place{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept-Language", c.language)
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.WeatherAPIDuration.WithLabelValues("geocode").Observe(time.Since(start).Seconds())
	if err != nil {
		return weather.Place{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return weather.Place{}, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var results []result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return weather.Place{}, fmt.Errorf("decode response: %w", err)
	}

	if len(results) == 0 {
		c.logger.Debug("no geocoding match", "query", query)
		return weather.Place{}, nil
	}

	r := results[0]
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return weather.Place{}, fmt.Errorf("parse lat %q: %w", r.Lat, err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return weather.Place{}, fmt.Errorf("parse lon %q: %w", r.Lon, err)
	}
	return weather.Place{Lat: lat, Lon: lon, DisplayName: r.DisplayName}, nil
}

// Nominatim API response types. Coordinates are sent as strings.

type result struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
