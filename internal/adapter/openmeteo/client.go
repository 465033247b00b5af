package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/claussann/FishingWebApp/internal/observability"
	"github.com/claussann/FishingWebApp/internal/weather"
)

const currentFields = "temperature_2m,relative_humidity_2m,wind_speed_10m,weathercode"

// Client implements weather.Forecaster using the Open-Meteo forecast API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
}

// NewClient creates an Open-Meteo client. baseURL is the full forecast
// endpoint, e.g. https://api.open-meteo.com/v1/forecast.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    metrics,
	}
}

// Current fetches the current conditions at lat, lon. The bool is false when
// the response has no current block.
func (c *Client) Current(ctx context.Context, lat, lon float64) (weather.Conditions, bool, error) {
	params := url.Values{
		"latitude":  {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(lon, 'f', -1, 64)},
		"current":   {currentFields},
		"timezone":  {"auto"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return weather.Conditions{}, false, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.WeatherAPIDuration.WithLabelValues("forecast").Observe(time.Since(start).Seconds())
	if err != nil {
		return weather.Conditions{}, false, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return weather.Conditions{}, false, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return weather.Conditions{}, false, fmt.Errorf("decode response: %w", err)
	}
	if fr.Current == nil {
		return weather.Conditions{}, false, nil
	}

	return weather.Conditions{
		Temperature: fr.Current.Temperature,
		Humidity:    fr.Current.Humidity,
		WindSpeed:   fr.Current.WindSpeed,
		WeatherCode: fr.Current.WeatherCode,
	}, true, nil
}

// Open-Meteo API response types.

type forecastResponse struct {
	Current *current `json:"current"`
}

type current struct {
	Temperature float64 `json:"temperature_2m"`
	Humidity    float64 `json:"relative_humidity_2m"`
	WindSpeed   float64 `json:"wind_speed_10m"`
	WeatherCode int     `json:"weathercode"`
}
