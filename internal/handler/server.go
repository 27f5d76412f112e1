// Package handler implements the HTTP handlers for the Weathervane API.
// All handlers are methods on Server; routes are split into domain-specific
// files (query.go, location.go, weather.go, export.go) but share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/akeller/weathervane/backend/internal/domain"
	"github.com/akeller/weathervane/backend/internal/service"
)

// QueryServicer defines the business operations the query handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or upstream API.
type QueryServicer interface {
	Create(ctx context.Context, input service.CreateQueryInput) (domain.WeatherQuery, error)
	Update(ctx context.Context, id int64, input service.UpdateQueryInput) (domain.WeatherQuery, error)
	GetByID(ctx context.Context, id int64) (domain.WeatherQuery, error)
	List(ctx context.Context) ([]domain.WeatherQuery, error)
	Delete(ctx context.Context, id int64) error
}

// LocationServicer defines the business operations the location handlers
// depend on.
type LocationServicer interface {
	Create(ctx context.Context, loc domain.Location) (domain.Location, error)
	List(ctx context.Context) ([]domain.Location, error)
	Rename(ctx context.Context, id int64, name string) (domain.Location, error)
	Delete(ctx context.Context, id int64) error
}

// LookupServicer defines the live weather lookup operation.
type LookupServicer interface {
	Lookup(ctx context.Context, input service.LookupInput) (service.LookupResult, error)
}

// ExportServicer defines the export operation.
type ExportServicer interface {
	Export(ctx context.Context, format service.ExportFormat) (string, error)
}

// Server holds the service dependencies for all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	queries   QueryServicer
	locations LocationServicer
	lookup    LookupServicer
	export    ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(queries QueryServicer, locations LocationServicer, lookup LookupServicer, export ExportServicer) *Server {
	return &Server{queries: queries, locations: locations, lookup: lookup, export: export}
}

// Routes returns the router for the full API surface.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/locations", func(r chi.Router) {
			r.Get("/", s.handleListLocations)
			r.Post("/", s.handleCreateLocation)
			r.Put("/{id}", s.handleRenameLocation)
			r.Delete("/{id}", s.handleDeleteLocation)
		})

		r.Route("/queries", func(r chi.Router) {
			r.Get("/", s.handleListQueries)
			r.Post("/", s.handleCreateQuery)
			r.Get("/{id}", s.handleGetQuery)
			r.Put("/{id}", s.handleUpdateQuery)
			r.Delete("/{id}", s.handleDeleteQuery)
		})

		r.Post("/weather", s.handleWeatherLookup)
		r.Get("/export", s.handleExport)
	})

	return r
}

// handleHealth implements GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
