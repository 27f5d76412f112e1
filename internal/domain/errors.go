package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist — a missing database row, or a geocoding lookup
// that produced no match. Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. malformed date, reversed range, oversized range,
// blank location query). Handlers should map this to HTTP 422.
var ErrValidation = errors.New("validation error")

// ErrConfig is returned when required operator configuration is missing —
// in practice the OpenWeatherMap API key. It is an operator problem, not a
// caller problem; handlers should map it to HTTP 500.
var ErrConfig = errors.New("configuration error")

// ErrUpstream is returned when a call to the weather provider fails: the
// transport errored, the response status was non-2xx, or the body could not
// be decoded. Handlers should map this to HTTP 502.
var ErrUpstream = errors.New("upstream error")

// ErrConflict is returned when a write that should have matched a row
// affected zero rows — typically the record was deleted between load and
// write. Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")
