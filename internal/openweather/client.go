// Package openweather is the HTTP client for the OpenWeatherMap API.
// It covers the three endpoints the backend consumes: geocoding, current
// conditions, and the 5-day 3-hourly forecast. No caching, no retries —
// every call is a fresh upstream request.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/akeller/weathervane/backend/internal/domain"
)

// DefaultBaseURL is the production OpenWeatherMap API host.
// Tests point the client at an httptest server instead.
const DefaultBaseURL = "https://api.openweathermap.org"

// StatusError reports a non-2xx upstream response. It unwraps to
// domain.ErrUpstream so callers can match the taxonomy with errors.Is while
// still being able to read the status code.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream error: status %d", e.Code)
}

func (e *StatusError) Unwrap() error { return domain.ErrUpstream }

// Client calls the OpenWeatherMap API. Construct with New; the zero value
// is not usable.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// New constructs a Client. baseURL may be empty to use DefaultBaseURL.
// httpClient may be nil to use a client with a 10s timeout; a hung upstream
// otherwise blocks the request indefinitely.
func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweathermap",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		breaker:    cb,
	}
}

// Configured reports whether an API key was provided. Services must check
// this before any upstream call so a missing credential surfaces as a
// configuration error, not a failed request.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Geocode resolves a free-text place query to a single LocationRef.
// The display name is "<name>[, <state>][, <country>]" with state and
// country appended only when the provider supplies them.
// Returns domain.ErrNotFound when the provider has no match.
func (c *Client) Geocode(ctx context.Context, query string) (domain.LocationRef, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", "1")

	var results []struct {
		Name    string  `json:"name"`
		State   string  `json:"state"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := c.getJSON(ctx, "/geo/1.0/direct", values, &results); err != nil {
		return domain.LocationRef{}, fmt.Errorf("openweather.Client.Geocode: %w", err)
	}
	if len(results) == 0 {
		return domain.LocationRef{}, fmt.Errorf("openweather.Client.Geocode: %w: no geocoding result", domain.ErrNotFound)
	}

	g := results[0]
	name := g.Name
	if g.State != "" {
		name += ", " + g.State
	}
	if g.Country != "" {
		name += ", " + g.Country
	}
	return domain.LocationRef{Name: name, Latitude: g.Lat, Longitude: g.Lon}, nil
}

// Current fetches the current conditions at the given coordinates.
func (c *Client) Current(ctx context.Context, lat, lon float64, units domain.Units) (domain.ForecastSample, error) {
	values := coordValues(lat, lon, units)

	var payload struct {
		Dt   int64      `json:"dt"`
		Main mainFields `json:"main"`
		Wind windFields `json:"wind"`
		Wx   []wxFields `json:"weather"`
	}
	if err := c.getJSON(ctx, "/data/2.5/weather", values, &payload); err != nil {
		return domain.ForecastSample{}, fmt.Errorf("openweather.Client.Current: %w", err)
	}
	return toSample(payload.Dt, payload.Main, payload.Wind, payload.Wx), nil
}

// Forecast fetches the full 3-hourly forecast series at the given
// coordinates — typically ~40 entries spanning 5 days. The series is
// returned unfiltered in upstream order.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, units domain.Units) ([]domain.ForecastSample, error) {
	values := coordValues(lat, lon, units)

	var payload struct {
		List []struct {
			Dt   int64      `json:"dt"`
			Main mainFields `json:"main"`
			Wind windFields `json:"wind"`
			Wx   []wxFields `json:"weather"`
		} `json:"list"`
	}
	if err := c.getJSON(ctx, "/data/2.5/forecast", values, &payload); err != nil {
		return nil, fmt.Errorf("openweather.Client.Forecast: %w", err)
	}

	samples := make([]domain.ForecastSample, 0, len(payload.List))
	for _, entry := range payload.List {
		samples = append(samples, toSample(entry.Dt, entry.Main, entry.Wind, entry.Wx))
	}
	return samples, nil
}

// --- wire types -------------------------------------------------------------

type mainFields struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
}

type windFields struct {
	Speed float64 `json:"speed"`
}

type wxFields struct {
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

func toSample(dt int64, main mainFields, wind windFields, wx []wxFields) domain.ForecastSample {
	s := domain.ForecastSample{
		TimestampUTC: dt,
		Temperature:  main.Temp,
		FeelsLike:    main.FeelsLike,
		Humidity:     main.Humidity,
		WindSpeed:    wind.Speed,
	}
	if len(wx) > 0 {
		s.ConditionIcon = wx[0].Icon
		s.ConditionDescription = wx[0].Description
	}
	return s
}

func coordValues(lat, lon float64, units domain.Units) url.Values {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%g", lat))
	values.Set("lon", fmt.Sprintf("%g", lon))
	values.Set("units", string(units))
	return values
}

// getJSON issues a GET through the circuit breaker and decodes the JSON
// body into out. The three failure modes are kept distinguishable:
// transport errors and an open breaker wrap domain.ErrUpstream directly,
// non-2xx statuses become *StatusError, and an undecodable body wraps
// domain.ErrUpstream with a decode message.
func (c *Client) getJSON(ctx context.Context, path string, values url.Values, out any) error {
	values.Set("appid", c.apiKey)
	u := c.baseURL + path + "?" + values.Encode()

	body, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w: %v", domain.ErrUpstream, err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			io.Copy(io.Discard, resp.Body) //nolint:errcheck — draining for connection reuse
			return nil, &StatusError{Code: resp.StatusCode}
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %v", domain.ErrUpstream, err)
		}
		return b, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: circuit open: %v", domain.ErrUpstream, err)
		}
		return err
	}

	if err := json.Unmarshal(body.([]byte), out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrUpstream, err)
	}
	return nil
}
