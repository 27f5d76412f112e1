// Package forecast holds the pure reductions applied to a 3-hourly forecast
// series: picking one representative sample per day for short summaries, and
// filtering the series down to an inclusive calendar-day window. Both are
// plain functions of their input with no external effects.
package forecast

import (
	"sort"
	"time"

	"github.com/akeller/weathervane/backend/internal/domain"
)

// MaxSummaryDays caps how many distinct days DailySummaries returns.
const MaxSummaryDays = 5

// DateLayout is the wire format for calendar dates throughout the API.
const DateLayout = "2006-01-02"

// DailySummaries reduces a 3-hourly series to one representative sample per
// distinct UTC calendar day: within each day, the entry whose hour is
// numerically closest to 12:00 UTC, with the earlier of two equidistant
// entries winning. Days are returned in ascending date order, at most
// MaxSummaryDays of them. A day with a single sample trivially picks that
// sample regardless of its hour.
func DailySummaries(series []domain.ForecastSample) []domain.ForecastSample {
	type candidate struct {
		sample domain.ForecastSample
		dist   int
	}

	byDay := make(map[string]candidate)
	for _, s := range series {
		t := s.Time()
		key := t.Format(DateLayout)
		dist := t.Hour() - 12
		if dist < 0 {
			dist = -dist
		}
		best, ok := byDay[key]
		// Strict < keeps the first-seen entry on ties, which is the
		// earlier one since the series is in chronological order.
		if !ok || dist < best.dist {
			byDay[key] = candidate{sample: s, dist: dist}
		}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	if len(days) > MaxSummaryDays {
		days = days[:MaxSummaryDays]
	}

	out := make([]domain.ForecastSample, 0, len(days))
	for _, day := range days {
		out = append(out, byDay[day].sample)
	}
	return out
}

// FilterRange returns the subsequence of series whose timestamps fall within
// the inclusive window from start-of-day start through end-of-day end, in
// the original order. Day boundaries are UTC: the window is
// [start 00:00:00Z, end+1 00:00:00Z). An empty result is valid — zero
// entries in range is not an error.
func FilterRange(series []domain.ForecastSample, start, end time.Time) []domain.ForecastSample {
	windowStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	out := make([]domain.ForecastSample, 0, len(series))
	for _, s := range series {
		t := s.Time()
		if !t.Before(windowStart) && t.Before(windowEnd) {
			out = append(out, s)
		}
	}
	return out
}
