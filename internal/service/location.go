package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/akeller/weathervane/backend/internal/domain"
	"github.com/akeller/weathervane/backend/internal/repo"
)

// LocationService implements business logic for plain saved locations.
type LocationService struct {
	locations repo.LocationRepo
}

// NewLocationService constructs a LocationService backed by the provided repo.
func NewLocationService(r repo.LocationRepo) *LocationService {
	return &LocationService{locations: r}
}

// Create validates and persists a new saved location.
// Returns domain.ErrValidation if the name is blank or the coordinates are
// outside their valid ranges.
func (s *LocationService) Create(ctx context.Context, loc domain.Location) (domain.Location, error) {
	if err := validateLocation(loc); err != nil {
		return domain.Location{}, err
	}
	result, err := s.locations.Create(ctx, loc)
	if err != nil {
		return domain.Location{}, fmt.Errorf("service.LocationService.Create: %w", err)
	}
	return result, nil
}

// List returns all saved locations, most recent first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *LocationService) List(ctx context.Context) ([]domain.Location, error) {
	locations, err := s.locations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.LocationService.List: %w", err)
	}
	if locations == nil {
		return []domain.Location{}, nil
	}
	return locations, nil
}

// Rename updates the name of an existing saved location.
// Returns domain.ErrValidation for a blank name, domain.ErrNotFound if the
// location does not exist.
func (s *LocationService) Rename(ctx context.Context, id int64, name string) (domain.Location, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Location{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	result, err := s.locations.Rename(ctx, id, name)
	if err != nil {
		return domain.Location{}, fmt.Errorf("service.LocationService.Rename: %w", err)
	}
	return result, nil
}

// Delete removes a saved location by ID.
// Returns domain.ErrNotFound if the location does not exist.
func (s *LocationService) Delete(ctx context.Context, id int64) error {
	if err := s.locations.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.LocationService.Delete: %w", err)
	}
	return nil
}

// validateLocation enforces the rules common to saved locations.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - Latitude must be within [-90, 90], longitude within [-180, 180].
func validateLocation(loc domain.Location) error {
	if strings.TrimSpace(loc.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return fmt.Errorf("%w: lat must be between -90 and 90", domain.ErrValidation)
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return fmt.Errorf("%w: lon must be between -180 and 180", domain.ErrValidation)
	}
	return nil
}
