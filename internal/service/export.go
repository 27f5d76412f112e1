package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akeller/weathervane/backend/internal/domain"
	"github.com/akeller/weathervane/backend/internal/repo"
)

// ExportFormat selects the textual representation of an export.
type ExportFormat string

const (
	FormatJSON     ExportFormat = "json"
	FormatCSV      ExportFormat = "csv"
	FormatMarkdown ExportFormat = "markdown"
)

// ParseExportFormat maps a format query parameter to an ExportFormat.
// "md" and "markdown" both select Markdown; anything unrecognized falls
// back to JSON, the default representation.
func ParseExportFormat(s string) ExportFormat {
	switch strings.ToLower(s) {
	case "csv":
		return FormatCSV
	case "md", "markdown":
		return FormatMarkdown
	default:
		return FormatJSON
	}
}

// exportColumns is the fixed, explicitly declared column schema for CSV and
// Markdown exports. Deriving columns from the first record would silently
// drop fields on heterogeneous input; a declared schema cannot.
var exportColumns = []string{
	"id", "locationName", "lat", "lon",
	"startDate", "endDate", "units", "payload", "createdAt",
}

// ExportService serializes the stored weather queries into JSON, CSV, or a
// Markdown table. Export reads what is stored — no resolving or fetching
// happens here.
type ExportService struct {
	queries repo.QueryRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(queries repo.QueryRepo) *ExportService {
	return &ExportService{queries: queries}
}

// Export loads all stored queries (most recent first) and renders them in
// the requested format. CSV and Markdown render zero records as an empty
// string; JSON renders them as an empty list.
func (s *ExportService) Export(ctx context.Context, format ExportFormat) (string, error) {
	records, err := s.queries.List(ctx)
	if err != nil {
		return "", fmt.Errorf("service.ExportService.Export: %w", err)
	}

	switch format {
	case FormatCSV:
		return toCSV(records), nil
	case FormatMarkdown:
		return toMarkdown(records), nil
	default:
		return toJSON(records)
	}
}

// toJSON is the identity representation: the verbatim record list with
// every stored field, including the full snapshot payload.
func toJSON(records []domain.WeatherQuery) (string, error) {
	if records == nil {
		records = []domain.WeatherQuery{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("service.ExportService.Export: marshal: %w", err)
	}
	return string(b), nil
}

// toCSV renders the records with every cell individually double-quoted and
// embedded quotes doubled, so downstream CSV parsers recover cell values
// byte-for-byte. Zero records yield an empty string, not a header-only file.
func toCSV(records []domain.WeatherQuery) string {
	if len(records) == 0 {
		return ""
	}

	var b strings.Builder
	writeCSVRow(&b, exportColumns)
	for _, q := range records {
		b.WriteByte('\n')
		writeCSVRow(&b, cellValues(q))
	}
	return b.String()
}

func writeCSVRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
}

// toMarkdown renders the records as a pipe table: header row, a "---"
// separator per column, one row per record. Zero records yield an empty
// string.
func toMarkdown(records []domain.WeatherQuery) string {
	if len(records) == 0 {
		return ""
	}

	lines := make([]string, 0, len(records)+2)
	lines = append(lines, "| "+strings.Join(exportColumns, " | ")+" |")

	seps := make([]string, len(exportColumns))
	for i := range seps {
		seps[i] = "---"
	}
	lines = append(lines, "| "+strings.Join(seps, " | ")+" |")

	for _, q := range records {
		lines = append(lines, "| "+strings.Join(cellValues(q), " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

// cellValues flattens a record into one string per export column, in
// exportColumns order. The payload cell is the snapshot's compact JSON.
func cellValues(q domain.WeatherQuery) []string {
	payload, err := json.Marshal(q.Payload)
	if err != nil {
		// Snapshot is plain data; marshaling it cannot realistically fail.
		payload = []byte("{}")
	}
	return []string{
		strconv.FormatInt(q.ID, 10),
		q.LocationName,
		formatCoord(q.Latitude),
		formatCoord(q.Longitude),
		q.StartDate,
		q.EndDate,
		string(q.Units),
		string(payload),
		q.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
