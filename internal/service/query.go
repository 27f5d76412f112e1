// Package service contains the business logic for the Weathervane API.
// Services validate inputs, enforce business rules, and orchestrate repo and
// upstream client calls. No SQL and no HTTP plumbing lives here.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akeller/weathervane/backend/internal/domain"
	"github.com/akeller/weathervane/backend/internal/forecast"
	"github.com/akeller/weathervane/backend/internal/repo"
)

// maxRangeDays caps the distance between start and end date of a query.
// The upstream forecast only spans ~5 days, so anything much larger would
// snapshot mostly-empty ranges.
const maxRangeDays = 7

// WeatherClient defines the upstream provider operations the services
// depend on. Defining the interface here (in the consumer package) lets
// service tests inject a fake without any network traffic.
type WeatherClient interface {
	// Configured reports whether the upstream API credential is set.
	Configured() bool

	// Geocode resolves a free-text place query to a single LocationRef.
	Geocode(ctx context.Context, query string) (domain.LocationRef, error)

	// Current fetches current conditions at the given coordinates.
	Current(ctx context.Context, lat, lon float64, units domain.Units) (domain.ForecastSample, error)

	// Forecast fetches the full 3-hourly forecast series at the given
	// coordinates.
	Forecast(ctx context.Context, lat, lon float64, units domain.Units) ([]domain.ForecastSample, error)
}

// CreateQueryInput carries the caller-supplied fields for creating a
// weather query.
type CreateQueryInput struct {
	Query     string
	StartDate string
	EndDate   string
	Units     string
}

// UpdateQueryInput carries the caller-supplied fields for updating a
// weather query. The place itself cannot change; only range and units.
type UpdateQueryInput struct {
	StartDate string
	EndDate   string
	Units     string
}

// QueryService implements the weather query lifecycle: create resolves,
// fetches, filters, and persists; update re-fetches at the stored
// coordinates and replaces the snapshot wholesale.
type QueryService struct {
	queries repo.QueryRepo
	weather WeatherClient
}

// NewQueryService constructs a QueryService backed by the provided repo and
// upstream client.
func NewQueryService(queries repo.QueryRepo, weather WeatherClient) *QueryService {
	return &QueryService{queries: queries, weather: weather}
}

// Create validates the input, resolves the location, fetches and filters
// the forecast, and persists a new record with its snapshot.
//
// Validation runs before any upstream call so a bad request never costs an
// API roundtrip. An unrecognized units value falls back to imperial.
func (s *QueryService) Create(ctx context.Context, input CreateQueryInput) (domain.WeatherQuery, error) {
	start, end, err := validateRange(input.StartDate, input.EndDate)
	if err != nil {
		return domain.WeatherQuery{}, err
	}
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return domain.WeatherQuery{}, fmt.Errorf("%w: query (location) is required", domain.ErrValidation)
	}
	if !s.weather.Configured() {
		return domain.WeatherQuery{}, fmt.Errorf("%w: missing OpenWeatherMap API key", domain.ErrConfig)
	}

	units := domain.Units(input.Units)
	if units != domain.UnitsMetric {
		units = domain.UnitsImperial
	}

	loc, err := s.weather.Geocode(ctx, query)
	if err != nil {
		return domain.WeatherQuery{}, fmt.Errorf("service.QueryService.Create: %w", err)
	}

	series, err := s.weather.Forecast(ctx, loc.Latitude, loc.Longitude, units)
	if err != nil {
		return domain.WeatherQuery{}, fmt.Errorf("service.QueryService.Create: %w", err)
	}
	items := forecast.FilterRange(series, start, end)

	record := domain.WeatherQuery{
		LocationName: loc.Name,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Units:        units,
		Payload: domain.Snapshot{
			SchemaVersion: domain.SnapshotSchemaVersion,
			LocationName:  loc.Name,
			Latitude:      loc.Latitude,
			Longitude:     loc.Longitude,
			Units:         units,
			StartDate:     input.StartDate,
			EndDate:       input.EndDate,
			Items:         items,
		},
	}

	created, err := s.queries.Create(ctx, record)
	if err != nil {
		return domain.WeatherQuery{}, fmt.Errorf("service.QueryService.Create: %w", err)
	}
	return created, nil
}

// Update re-validates the range, re-fetches the forecast at the record's
// stored coordinates (the place never changes on update), and replaces the
// range, units, and snapshot in one atomic write.
//
// A units value that is not exactly "metric" or "imperial" silently keeps
// the record's existing units.
func (s *QueryService) Update(ctx context.Context, id int64, input UpdateQueryInput) (domain.WeatherQuery, error) {
	start, end, err := validateRange(input.StartDate, input.EndDate)
	if err != nil {
		return domain.WeatherQuery{}, err
	}

	existing, err := s.queries.GetByID(ctx, id)
	if err != nil {
		return domain.WeatherQuery{}, fmt.Errorf("service.QueryService.Update: %w", err)
	}

	units := domain.Units(input.Units)
	if !units.Valid() {
		units = existing.Units
	}

	if !s.weather.Configured() {
		return domain.WeatherQuery{}, fmt.Errorf("%w: missing OpenWeatherMap API key", domain.ErrConfig)
	}

	series, err := s.weather.Forecast(ctx, existing.Latitude, existing.Longitude, units)
	if err != nil {
		return domain.WeatherQuery{}, fmt.Errorf("service.QueryService.Update: %w", err)
	}
	items := forecast.FilterRange(series, start, end)

	payload := domain.Snapshot{
		SchemaVersion: domain.SnapshotSchemaVersion,
		LocationName:  existing.LocationName,
		Latitude:      existing.Latitude,
		Longitude:     existing.Longitude,
		Units:         units,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Items:         items,
	}

	updated, err := s.queries.ReplaceSnapshot(ctx, id, input.StartDate, input.EndDate, units, payload)
	if err != nil {
		return domain.WeatherQuery{}, fmt.Errorf("service.QueryService.Update: %w", err)
	}
	return updated, nil
}

// GetByID returns a single weather query by ID.
func (s *QueryService) GetByID(ctx context.Context, id int64) (domain.WeatherQuery, error) {
	result, err := s.queries.GetByID(ctx, id)
	if err != nil {
		return domain.WeatherQuery{}, fmt.Errorf("service.QueryService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all weather queries, most recent first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *QueryService) List(ctx context.Context) ([]domain.WeatherQuery, error) {
	queries, err := s.queries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.QueryService.List: %w", err)
	}
	if queries == nil {
		return []domain.WeatherQuery{}, nil
	}
	return queries, nil
}

// Delete removes a weather query by ID.
// Returns domain.ErrNotFound if the record does not exist.
func (s *QueryService) Delete(ctx context.Context, id int64) error {
	if err := s.queries.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.QueryService.Delete: %w", err)
	}
	return nil
}

// validateRange enforces the date rules shared by Create and Update: both
// dates must parse as YYYY-MM-DD, start must not be after end, and the span
// must not exceed maxRangeDays.
func validateRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, errStart := time.Parse(forecast.DateLayout, startDate)
	end, errEnd := time.Parse(forecast.DateLayout, endDate)
	if errStart != nil || errEnd != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid startDate or endDate; expected YYYY-MM-DD", domain.ErrValidation)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate must be before or equal to endDate", domain.ErrValidation)
	}
	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date range too large; please use %d days or less", domain.ErrValidation, maxRangeDays)
	}
	return start, end, nil
}
