package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/akeller/weathervane/backend/internal/domain"
)

// LocationRepo defines the persistence operations for plain saved locations.
type LocationRepo interface {
	// Create inserts a new location and returns the persisted record.
	Create(ctx context.Context, loc domain.Location) (domain.Location, error)

	// List returns all locations ordered by created_at descending.
	List(ctx context.Context) ([]domain.Location, error)

	// Rename updates the name of an existing location and returns the
	// updated record. Coordinates are immutable — saving a place elsewhere
	// means saving a new place. Returns domain.ErrNotFound if absent.
	Rename(ctx context.Context, id int64, name string) (domain.Location, error)

	// Delete removes a location by ID. Returns domain.ErrNotFound if it
	// does not exist.
	Delete(ctx context.Context, id int64) error
}

// pgLocationRepo is the Postgres implementation of LocationRepo.
type pgLocationRepo struct {
	db db
}

// NewLocationRepo constructs a LocationRepo backed by the provided db connection.
func NewLocationRepo(db db) LocationRepo {
	return &pgLocationRepo{db: db}
}

func (r *pgLocationRepo) Create(ctx context.Context, loc domain.Location) (domain.Location, error) {
	const stmt = `
		INSERT INTO locations (name, lat, lon)
		VALUES (@name, @lat, @lon)
		RETURNING id, name, lat, lon, created_at`

	args := pgx.NamedArgs{
		"name": loc.Name,
		"lat":  loc.Latitude,
		"lon":  loc.Longitude,
	}

	row := r.db.QueryRow(ctx, stmt, args)
	result, err := scanLocation(row)
	if err != nil {
		return domain.Location{}, fmt.Errorf("repo.LocationRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgLocationRepo) List(ctx context.Context) ([]domain.Location, error) {
	const stmt = `
		SELECT id, name, lat, lon, created_at
		FROM locations
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("repo.LocationRepo.List: %w", err)
	}
	defer rows.Close()

	var locations []domain.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.LocationRepo.List: scan: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LocationRepo.List: rows: %w", err)
	}

	return locations, nil
}

func (r *pgLocationRepo) Rename(ctx context.Context, id int64, name string) (domain.Location, error) {
	const stmt = `
		UPDATE locations
		SET name = @name
		WHERE id = @id
		RETURNING id, name, lat, lon, created_at`

	row := r.db.QueryRow(ctx, stmt, pgx.NamedArgs{"id": id, "name": name})
	result, err := scanLocation(row)
	if err != nil {
		return domain.Location{}, fmt.Errorf("repo.LocationRepo.Rename: %w", err)
	}
	return result, nil
}

func (r *pgLocationRepo) Delete(ctx context.Context, id int64) error {
	const stmt = `DELETE FROM locations WHERE id = @id`

	tag, err := r.db.Exec(ctx, stmt, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.LocationRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.LocationRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanLocation maps a single database row into a domain.Location.
func scanLocation(s scanner) (domain.Location, error) {
	var loc domain.Location
	err := s.Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Location{}, domain.ErrNotFound
		}
		return domain.Location{}, err
	}
	return loc, nil
}
