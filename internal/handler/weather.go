package handler

import (
	"encoding/json"
	"net/http"

	"github.com/akeller/weathervane/backend/internal/service"
)

// lookupRequest is the body of POST /api/weather. Either query is set, or
// lat and lon are both set.
type lookupRequest struct {
	Query string   `json:"query"`
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
	Units string   `json:"units"`
}

// handleWeatherLookup implements POST /api/weather: a live lookup of
// current conditions plus daily forecast summaries. Nothing is persisted.
func (s *Server) handleWeatherLookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestError(w, "invalid request body")
		return
	}

	result, err := s.lookup.Lookup(r.Context(), service.LookupInput{
		Query: req.Query,
		Lat:   req.Lat,
		Lon:   req.Lon,
		Units: req.Units,
	})
	if err != nil {
		writeError(w, err, "location not found (no geocoding result)")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
