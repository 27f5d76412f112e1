// Package repo contains all database access logic for the Weathervane API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/akeller/weathervane/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// dateLayout is the wire format for the date-only columns.
const dateLayout = "2006-01-02"

// QueryRepo defines the persistence operations for WeatherQuery records.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type QueryRepo interface {
	// Create inserts a new record and returns the persisted row (with
	// DB-generated id and created_at populated).
	Create(ctx context.Context, q domain.WeatherQuery) (domain.WeatherQuery, error)

	// GetByID retrieves a single record by primary key.
	// Returns domain.ErrNotFound if no record with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.WeatherQuery, error)

	// List returns all records ordered by created_at descending.
	List(ctx context.Context) ([]domain.WeatherQuery, error)

	// ReplaceSnapshot overwrites start_date, end_date, units, and payload in
	// one statement — the only fields an update may touch — and returns the
	// updated row. Returns domain.ErrConflict if zero rows were affected,
	// which means the record vanished between load and write.
	ReplaceSnapshot(ctx context.Context, id int64, startDate, endDate string, units domain.Units, payload domain.Snapshot) (domain.WeatherQuery, error)

	// Delete removes a record by ID. Returns domain.ErrNotFound if it does
	// not exist.
	Delete(ctx context.Context, id int64) error
}

// pgQueryRepo is the Postgres implementation of QueryRepo.
type pgQueryRepo struct {
	db db
}

// NewQueryRepo constructs a QueryRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewQueryRepo(db db) QueryRepo {
	return &pgQueryRepo{db: db}
}

// Create inserts a new weather query row and returns the full persisted record.
func (r *pgQueryRepo) Create(ctx context.Context, q domain.WeatherQuery) (domain.WeatherQuery, error) {
	const stmt = `
		INSERT INTO weather_queries (location_name, lat, lon, start_date, end_date, units, payload)
		VALUES (@location_name, @lat, @lon, @start_date, @end_date, @units, @payload)
		RETURNING id, location_name, lat, lon, start_date, end_date, units, payload, created_at`

	args, err := queryArgs(q.LocationName, q.Latitude, q.Longitude, q.StartDate, q.EndDate, q.Units, q.Payload)
	if err != nil {
		return domain.WeatherQuery{}, fmt.Errorf("repo.QueryRepo.Create: %w", err)
	}

	row := r.db.QueryRow(ctx, stmt, args)
	result, err := scanQuery(row)
	if err != nil {
		return domain.WeatherQuery{}, fmt.Errorf("repo.QueryRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a weather query by primary key.
func (r *pgQueryRepo) GetByID(ctx context.Context, id int64) (domain.WeatherQuery, error) {
	const stmt = `
		SELECT id, location_name, lat, lon, start_date, end_date, units, payload, created_at
		FROM weather_queries
		WHERE id = @id`

	row := r.db.QueryRow(ctx, stmt, pgx.NamedArgs{"id": id})
	result, err := scanQuery(row)
	if err != nil {
		return domain.WeatherQuery{}, fmt.Errorf("repo.QueryRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all weather queries ordered by created_at descending (most recent first).
func (r *pgQueryRepo) List(ctx context.Context) ([]domain.WeatherQuery, error) {
	const stmt = `
		SELECT id, location_name, lat, lon, start_date, end_date, units, payload, created_at
		FROM weather_queries
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("repo.QueryRepo.List: %w", err)
	}
	defer rows.Close()

	var queries []domain.WeatherQuery
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.QueryRepo.List: scan: %w", err)
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.QueryRepo.List: rows: %w", err)
	}

	return queries, nil
}

// ReplaceSnapshot atomically overwrites the range, units, and payload of an
// existing record. Location fields and created_at are deliberately absent
// from the SET list — they are immutable after creation.
func (r *pgQueryRepo) ReplaceSnapshot(ctx context.Context, id int64, startDate, endDate string, units domain.Units, payload domain.Snapshot) (domain.WeatherQuery, error) {
	const stmt = `
		UPDATE weather_queries
		SET start_date = @start_date,
		    end_date   = @end_date,
		    units      = @units,
		    payload    = @payload
		WHERE id = @id
		RETURNING id, location_name, lat, lon, start_date, end_date, units, payload, created_at`

	start, end, err := parseDates(startDate, endDate)
	if err != nil {
		return domain.WeatherQuery{}, fmt.Errorf("repo.QueryRepo.ReplaceSnapshot: %w", err)
	}
	blob, err := json.Marshal(payload)
	if err != nil {
		return domain.WeatherQuery{}, fmt.Errorf("repo.QueryRepo.ReplaceSnapshot: marshal payload: %w", err)
	}

	args := pgx.NamedArgs{
		"id":         id,
		"start_date": start,
		"end_date":   end,
		"units":      string(units),
		"payload":    blob,
	}

	row := r.db.QueryRow(ctx, stmt, args)
	result, err := scanQuery(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The record existed when the service loaded it; a vanished row
			// here is a lost race, not a missing resource.
			return domain.WeatherQuery{}, fmt.Errorf("repo.QueryRepo.ReplaceSnapshot: nothing updated: %w", domain.ErrConflict)
		}
		return domain.WeatherQuery{}, fmt.Errorf("repo.QueryRepo.ReplaceSnapshot: %w", err)
	}
	return result, nil
}

// Delete removes a weather query by primary key.
func (r *pgQueryRepo) Delete(ctx context.Context, id int64) error {
	const stmt = `DELETE FROM weather_queries WHERE id = @id`

	tag, err := r.db.Exec(ctx, stmt, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.QueryRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.QueryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// queryArgs builds the NamedArgs shared by Create, converting the date
// strings and snapshot into their column types.
func queryArgs(name string, lat, lon float64, startDate, endDate string, units domain.Units, payload domain.Snapshot) (pgx.NamedArgs, error) {
	start, end, err := parseDates(startDate, endDate)
	if err != nil {
		return nil, err
	}
	blob, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return pgx.NamedArgs{
		"location_name": name,
		"lat":           lat,
		"lon":           lon,
		"start_date":    start,
		"end_date":      end,
		"units":         string(units),
		"payload":       blob,
	}, nil
}

// parseDates converts the API's date-only strings into time values for the
// DATE columns. The service validates format before reaching the repo, so a
// failure here indicates a programming error upstream.
func parseDates(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse start_date %q: %w", startDate, err)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse end_date %q: %w", endDate, err)
	}
	return start, end, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanQuery to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanQuery maps a single database row into a domain.WeatherQuery.
// It handles the DATE-to-string and JSONB-to-Snapshot conversions.
func scanQuery(s scanner) (domain.WeatherQuery, error) {
	var (
		q     domain.WeatherQuery
		start pgtype.Date
		end   pgtype.Date
		units string
		blob  []byte
	)

	err := s.Scan(&q.ID, &q.LocationName, &q.Latitude, &q.Longitude, &start, &end, &units, &blob, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.WeatherQuery{}, domain.ErrNotFound
		}
		return domain.WeatherQuery{}, err
	}

	q.StartDate = start.Time.Format(dateLayout)
	q.EndDate = end.Time.Format(dateLayout)
	q.Units = domain.Units(units)
	if err := json.Unmarshal(blob, &q.Payload); err != nil {
		return domain.WeatherQuery{}, fmt.Errorf("unmarshal payload: %w", err)
	}

	return q, nil
}
