package handler

import (
	"encoding/json"
	"net/http"

	"github.com/akeller/weathervane/backend/internal/domain"
)

// createLocationRequest is the body of POST /api/locations.
// Lat and Lon are pointers so a missing field is distinguishable from zero.
type createLocationRequest struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
}

// renameLocationRequest is the body of PUT /api/locations/{id}.
type renameLocationRequest struct {
	Name string `json:"name"`
}

// handleCreateLocation implements POST /api/locations.
func (s *Server) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var req createLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestError(w, "invalid request body")
		return
	}
	if req.Name == "" || req.Lat == nil || req.Lon == nil {
		requestError(w, "name, lat, lon required")
		return
	}

	created, err := s.locations.Create(r.Context(), domain.Location{
		Name:      req.Name,
		Latitude:  *req.Lat,
		Longitude: *req.Lon,
	})
	if err != nil {
		writeError(w, err, "location not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleListLocations implements GET /api/locations.
func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.locations.List(r.Context())
	if err != nil {
		writeError(w, err, "location not found")
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

// handleRenameLocation implements PUT /api/locations/{id}.
// Only the name can change; coordinates are immutable.
func (s *Server) handleRenameLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req renameLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestError(w, "invalid request body")
		return
	}

	updated, err := s.locations.Rename(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, err, "location not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteLocation implements DELETE /api/locations/{id}.
func (s *Server) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.locations.Delete(r.Context(), id); err != nil {
		writeError(w, err, "location not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
