// Package domain contains the core data types for the Weathervane backend.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import "time"

// Location is a plain saved place: a name and coordinates, nothing more.
// No forecast data is attached; weather snapshots live on WeatherQuery.
type Location struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lon"`
	CreatedAt time.Time `json:"createdAt"`
}

// LocationRef is a resolved place as returned by geocoding (or supplied
// directly by the caller as raw coordinates). It is never persisted by
// itself; WeatherQuery copies its fields at creation time.
type LocationRef struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}
