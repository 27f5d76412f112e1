package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/akeller/weathervane/backend/internal/domain"
	"github.com/akeller/weathervane/backend/internal/forecast"
)

// LookupInput carries the caller-supplied fields for a live weather lookup.
// Either Query is set, or Lat and Lon are both set (device geolocation);
// coordinates take precedence when both are present.
type LookupInput struct {
	Query string
	Lat   *float64
	Lon   *float64
	Units string
}

// LookupResult is the live-lookup response: current conditions plus one
// representative sample per day for the next few days. Nothing is persisted.
type LookupResult struct {
	Name      string                  `json:"name"`
	Latitude  float64                 `json:"lat"`
	Longitude float64                 `json:"lon"`
	Units     domain.Units            `json:"units"`
	Current   domain.ForecastSample   `json:"current"`
	Forecast  []domain.ForecastSample `json:"forecast"`
}

// LookupService implements the live weather lookup flow. It resolves the
// place (unless raw coordinates were supplied), then fetches current
// conditions and the 5-day forecast concurrently — the two calls are
// independent of each other.
type LookupService struct {
	weather WeatherClient
}

// NewLookupService constructs a LookupService backed by the provided
// upstream client.
func NewLookupService(weather WeatherClient) *LookupService {
	return &LookupService{weather: weather}
}

// Lookup resolves the input to coordinates and returns current conditions
// plus daily forecast summaries. An unrecognized units value falls back to
// imperial.
func (s *LookupService) Lookup(ctx context.Context, input LookupInput) (LookupResult, error) {
	if !s.weather.Configured() {
		return LookupResult{}, fmt.Errorf("%w: missing OpenWeatherMap API key", domain.ErrConfig)
	}

	units := domain.Units(input.Units)
	if units != domain.UnitsMetric {
		units = domain.UnitsImperial
	}

	loc, err := s.resolve(ctx, input)
	if err != nil {
		return LookupResult{}, err
	}

	var (
		current domain.ForecastSample
		series  []domain.ForecastSample
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.weather.Current(gctx, loc.Latitude, loc.Longitude, units)
		return err
	})
	g.Go(func() error {
		var err error
		series, err = s.weather.Forecast(gctx, loc.Latitude, loc.Longitude, units)
		return err
	})
	if err := g.Wait(); err != nil {
		return LookupResult{}, fmt.Errorf("service.LookupService.Lookup: %w", err)
	}

	return LookupResult{
		Name:      loc.Name,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Units:     units,
		Current:   current,
		Forecast:  forecast.DailySummaries(series),
	}, nil
}

// resolve turns the lookup input into a LocationRef: raw coordinates pass
// through with a placeholder name, a text query goes through geocoding.
func (s *LookupService) resolve(ctx context.Context, input LookupInput) (domain.LocationRef, error) {
	if input.Lat != nil && input.Lon != nil {
		return domain.LocationRef{Name: "Your location", Latitude: *input.Lat, Longitude: *input.Lon}, nil
	}

	query := strings.TrimSpace(input.Query)
	if query == "" {
		return domain.LocationRef{}, fmt.Errorf("%w: provide query or lat and lon", domain.ErrValidation)
	}
	loc, err := s.weather.Geocode(ctx, query)
	if err != nil {
		return domain.LocationRef{}, fmt.Errorf("service.LookupService.Lookup: %w", err)
	}
	return loc, nil
}
