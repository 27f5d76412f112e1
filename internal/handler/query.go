package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/akeller/weathervane/backend/internal/service"
)

// createQueryRequest is the body of POST /api/queries.
type createQueryRequest struct {
	Query     string `json:"query"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Units     string `json:"units"`
}

// updateQueryRequest is the body of PUT /api/queries/{id}.
type updateQueryRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Units     string `json:"units"`
}

// handleCreateQuery implements POST /api/queries.
func (s *Server) handleCreateQuery(w http.ResponseWriter, r *http.Request) {
	var req createQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestError(w, "invalid request body")
		return
	}

	created, err := s.queries.Create(r.Context(), service.CreateQueryInput{
		Query:     req.Query,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Units:     req.Units,
	})
	if err != nil {
		writeError(w, err, "location not found (no geocoding result)")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleListQueries implements GET /api/queries.
func (s *Server) handleListQueries(w http.ResponseWriter, r *http.Request) {
	queries, err := s.queries.List(r.Context())
	if err != nil {
		writeError(w, err, "query not found")
		return
	}
	writeJSON(w, http.StatusOK, queries)
}

// handleGetQuery implements GET /api/queries/{id}.
func (s *Server) handleGetQuery(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	query, err := s.queries.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "query not found")
		return
	}
	writeJSON(w, http.StatusOK, query)
}

// handleUpdateQuery implements PUT /api/queries/{id}.
func (s *Server) handleUpdateQuery(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestError(w, "invalid request body")
		return
	}

	updated, err := s.queries.Update(r.Context(), id, service.UpdateQueryInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Units:     req.Units,
	})
	if err != nil {
		writeError(w, err, "query not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteQuery implements DELETE /api/queries/{id}.
func (s *Server) handleDeleteQuery(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.queries.Delete(r.Context(), id); err != nil {
		writeError(w, err, "query not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// pathID parses the {id} path parameter. On failure it writes a validation
// error and reports false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		requestError(w, "invalid id")
		return 0, false
	}
	return id, true
}
