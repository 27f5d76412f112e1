package handler

import (
	"net/http"

	"github.com/akeller/weathervane/backend/internal/service"
)

// handleExport implements GET /api/export. It returns all stored weather
// queries in the format selected by ?format=: json (default), csv, or
// md/markdown. CSV downloads as an attachment; the others render inline.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := service.ParseExportFormat(r.URL.Query().Get("format"))

	body, err := s.export.Export(r.Context(), format)
	if err != nil {
		writeError(w, err, "query not found")
		return
	}

	switch format {
	case service.FormatCSV:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="weather_queries.csv"`)
	case service.FormatMarkdown:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body)) //nolint:errcheck — nothing useful to do on a failed response write
}
