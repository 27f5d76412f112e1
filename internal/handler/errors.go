package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/akeller/weathervane/backend/internal/domain"
)

// ErrorResponse is the JSON error body for every failed request.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON serializes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps a service error onto the HTTP taxonomy:
// validation 422, not found 404, conflict 409, upstream 502, config 500.
// The caller supplies the not-found message (e.g. "query not found")
// because the handler is the layer that knows what was being looked up.
// Anything unrecognized is logged and reported as a generic 500 so internal
// detail never leaks to the caller.
func writeError(w http.ResponseWriter, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrNotFound):
		writeErrorBody(w, http.StatusNotFound, "not_found", notFoundMessage)
	case errors.Is(err, domain.ErrConflict):
		writeErrorBody(w, http.StatusConflict, "conflict", "nothing updated")
	case errors.Is(err, domain.ErrUpstream):
		writeErrorBody(w, http.StatusBadGateway, "upstream_error", unwrapMessage(err, domain.ErrUpstream))
	case errors.Is(err, domain.ErrConfig):
		writeErrorBody(w, http.StatusInternalServerError, "config_error", unwrapMessage(err, domain.ErrConfig))
	default:
		slog.Error("unhandled error", "error", err)
		writeErrorBody(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// requestError reports a bad request rejected before reaching the service
// layer (e.g. missing or malformed body, unparsable id).
func requestError(w http.ResponseWriter, message string) {
	writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", message)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.QueryService.Create: validation error: query (location) is
// required" → "query (location) is required". Falls back to the full message
// when the sentinel text is absent or carries no suffix.
func unwrapMessage(err error, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 && i+len(marker) < len(msg) {
		return msg[i+len(marker):]
	}
	return msg
}
