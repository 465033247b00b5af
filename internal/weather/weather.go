// Package weather looks up the current conditions for a free-text place name.
//
// A lookup is two sequential calls: the place is geocoded to coordinates, then
// the forecast service is asked for the current conditions there. There is no
// retry; timeouts come from the HTTP clients of the adapters.
package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/claussann/FishingWebApp/internal/observability"
)

// Lookup errors. ErrUpstream wraps transport and API failures of either
// upstream service.
var (
	ErrEmptyQuery    = errors.New("place is empty")
	ErrPlaceNotFound = errors.New("place not found")
	ErrNoConditions  = errors.New("no current conditions available")
	ErrUpstream      = errors.New("weather service unavailable")
)

// Place is a geocoding match. The zero value means no match.
type Place struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"displayName"`
}

// IsZero reports whether the place carries no match.
func (p Place) IsZero() bool { return p.DisplayName == "" }

// Name returns the first comma-separated part of the display name.
func (p Place) Name() string {
	name, _, _ := strings.Cut(p.DisplayName, ",")
	return strings.TrimSpace(name)
}

// Conditions are the current weather values at a location.
type Conditions struct {
	Temperature float64 // °C
	Humidity    float64 // %
	WindSpeed   float64 // km/h
	WeatherCode int
}

// Geocoder resolves a free-text query to the best matching place. An empty
// Place with a nil error means nothing matched.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Place, error)
}

// Forecaster returns the current conditions at a location. The bool is false
// when the response carried no current block.
type Forecaster interface {
	Current(ctx context.Context, lat, lon float64) (Conditions, bool, error)
}

// Report is the result of a successful lookup.
type Report struct {
	City        string  `json:"city"`
	DisplayName string  `json:"displayName"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Temperature int     `json:"temperature"` // rounded °C
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Code        int     `json:"code"`
	Symbol
}

// Service combines a Geocoder and a Forecaster.
type Service struct {
	geocoder   Geocoder
	forecaster Forecaster
	logger     *slog.Logger
	metrics    *observability.Metrics
}

func NewService(g Geocoder, f Forecaster, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{geocoder: g, forecaster: f, logger: logger, metrics: metrics}
}

// Lookup geocodes query and fetches the current conditions for the match.
func (s *Service) Lookup(ctx context.Context, query string) (Report, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Report{}, ErrEmptyQuery
	}

	place, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		s.record("geocode", "error")
		return Report{}, fmt.Errorf("geocode %q: %w: %w", query, ErrUpstream, err)
	}
	if place.IsZero() {
		s.record("geocode", "empty")
		return Report{}, ErrPlaceNotFound
	}
	s.record("geocode", "success")

	cond, ok, err := s.forecaster.Current(ctx, place.Lat, place.Lon)
	if err != nil {
		s.record("forecast", "error")
		return Report{}, fmt.Errorf("forecast for %q: %w: %w", place.Name(), ErrUpstream, err)
	}
	if !ok {
		s.record("forecast", "empty")
		return Report{}, ErrNoConditions
	}
	s.record("forecast", "success")

	s.logger.Debug("weather lookup", "query", query, "place", place.DisplayName, "code", cond.WeatherCode)
	return Report{
		City:        place.Name(),
		DisplayName: place.DisplayName,
		Lat:         place.Lat,
		Lon:         place.Lon,
		Temperature: int(math.Round(cond.Temperature)),
		Humidity:    cond.Humidity,
		WindSpeed:   cond.WindSpeed,
		Code:        cond.WeatherCode,
		Symbol:      Describe(cond.WeatherCode),
	}, nil
}

func (s *Service) record(stage, outcome string) {
	s.metrics.WeatherRequests.WithLabelValues(stage, outcome).Inc()
}
