package forecast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeller/weathervane/backend/internal/domain"
	"github.com/akeller/weathervane/backend/internal/forecast"
)

// sampleAt builds a ForecastSample at the given UTC instant. Temperature is
// set to the epoch second so tests can identify which entry was picked.
func sampleAt(t time.Time) domain.ForecastSample {
	return domain.ForecastSample{
		TimestampUTC: t.Unix(),
		Temperature:  float64(t.Unix()),
	}
}

// threeHourlySeries builds a series with one entry every 3 hours starting at
// from, for the given number of entries — the shape the upstream forecast
// endpoint returns.
func threeHourlySeries(from time.Time, entries int) []domain.ForecastSample {
	series := make([]domain.ForecastSample, 0, entries)
	for i := 0; i < entries; i++ {
		series = append(series, sampleAt(from.Add(time.Duration(i)*3*time.Hour)))
	}
	return series
}

// ---- DailySummaries --------------------------------------------------------

func TestDailySummaries_SixDays_ReturnsFiveNoonEntries(t *testing.T) {
	// 48 entries at 3h resolution starting at midnight cover exactly 6 UTC days.
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	series := threeHourlySeries(start, 48)

	got := forecast.DailySummaries(series)

	require.Len(t, got, 5)
	for i, s := range got {
		ts := s.Time()
		wantDay := start.AddDate(0, 0, i)
		assert.Equal(t, wantDay.Format("2006-01-02"), ts.Format("2006-01-02"), "day %d", i)
		assert.Equal(t, 12, ts.Hour(), "entry for day %d should be the 12:00 UTC sample", i)
	}
}

func TestDailySummaries_AscendingDateOrder(t *testing.T) {
	// Feed the series in reverse so ordering cannot come from the input.
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	series := threeHourlySeries(start, 24)
	for i, j := 0, len(series)-1; i < j; i, j = i+1, j-1 {
		series[i], series[j] = series[j], series[i]
	}

	got := forecast.DailySummaries(series)

	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].TimestampUTC, got[i].TimestampUTC)
	}
}

func TestDailySummaries_SingleSampleDay_PicksThatSample(t *testing.T) {
	// One lone entry at 21:00 — nowhere near noon, still chosen.
	lone := sampleAt(time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC))

	got := forecast.DailySummaries([]domain.ForecastSample{lone})

	require.Len(t, got, 1)
	assert.Equal(t, lone.TimestampUTC, got[0].TimestampUTC)
}

func TestDailySummaries_EquidistantEntries_EarlierWins(t *testing.T) {
	// 09:00 and 15:00 are both 3 hours from noon; the earlier entry wins.
	nine := sampleAt(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	fifteen := sampleAt(time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC))

	got := forecast.DailySummaries([]domain.ForecastSample{nine, fifteen})

	require.Len(t, got, 1)
	assert.Equal(t, nine.TimestampUTC, got[0].TimestampUTC)
}

func TestDailySummaries_Empty(t *testing.T) {
	assert.Empty(t, forecast.DailySummaries(nil))
}

// ---- FilterRange -----------------------------------------------------------

func TestFilterRange_InclusiveBoundaries(t *testing.T) {
	first := sampleAt(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	last := sampleAt(time.Date(2024, 6, 3, 21, 0, 0, 0, time.UTC))
	before := sampleAt(time.Date(2024, 5, 31, 21, 0, 0, 0, time.UTC))
	after := sampleAt(time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC))

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	got := forecast.FilterRange([]domain.ForecastSample{before, first, last, after}, start, end)

	require.Len(t, got, 2)
	assert.Equal(t, first.TimestampUTC, got[0].TimestampUTC)
	assert.Equal(t, last.TimestampUTC, got[1].TimestampUTC)
}

func TestFilterRange_ScenarioWindow(t *testing.T) {
	// Fixture spanning 2024-05-31T00:00Z through 2024-06-05T21:00Z; the
	// 2024-06-01..2024-06-03 window must keep exactly the three middle days.
	series := threeHourlySeries(time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), 48)

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	got := forecast.FilterRange(series, start, end)

	require.Len(t, got, 24, "3 full days at 8 entries per day")
	for _, s := range got {
		day := s.Time().Format("2006-01-02")
		assert.GreaterOrEqual(t, day, "2024-06-01")
		assert.LessOrEqual(t, day, "2024-06-03")
	}
}

func TestFilterRange_EmptyResultIsValid(t *testing.T) {
	series := threeHourlySeries(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 8)

	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)

	got := forecast.FilterRange(series, start, end)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterRange_Idempotent(t *testing.T) {
	series := threeHourlySeries(time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), 48)
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	once := forecast.FilterRange(series, start, end)
	twice := forecast.FilterRange(once, start, end)

	assert.Equal(t, once, twice)
}

func TestFilterRange_PreservesOrder(t *testing.T) {
	series := threeHourlySeries(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 16)
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	got := forecast.FilterRange(series, start, end)

	require.Len(t, got, 16)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].TimestampUTC, got[i].TimestampUTC)
	}
}
