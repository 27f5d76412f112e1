package domain

import "time"

// Units is the measurement system a forecast was requested in.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// Valid reports whether u is one of the two recognized unit systems.
func (u Units) Valid() bool {
	return u == UnitsMetric || u == UnitsImperial
}

// SnapshotSchemaVersion is written into every persisted snapshot so that a
// future payload format change can migrate or skip older rows instead of
// silently misreading them.
const SnapshotSchemaVersion = 1

// ForecastSample is one 3-hourly forecast entry from the upstream provider.
// Samples are read-only: they are sourced fresh on every create or update
// and never reconstructed from storage.
type ForecastSample struct {
	TimestampUTC         int64   `json:"dt"`
	Temperature          float64 `json:"temp"`
	FeelsLike            float64 `json:"feelsLike"`
	Humidity             int     `json:"humidity"`
	WindSpeed            float64 `json:"windSpeed"`
	ConditionIcon        string  `json:"icon"`
	ConditionDescription string  `json:"description"`
}

// Time returns the sample's timestamp as UTC wall-clock time.
func (s ForecastSample) Time() time.Time {
	return time.Unix(s.TimestampUTC, 0).UTC()
}

// Snapshot is the fully-materialized forecast payload stored alongside a
// WeatherQuery. It is rebuilt wholesale on every create and update — never
// partially patched — so it can never disagree with the record's own
// startDate/endDate/units fields.
type Snapshot struct {
	SchemaVersion int              `json:"schemaVersion"`
	LocationName  string           `json:"locationName"`
	Latitude      float64          `json:"lat"`
	Longitude     float64          `json:"lon"`
	Units         Units            `json:"units"`
	StartDate     string           `json:"startDate"`
	EndDate       string           `json:"endDate"`
	Items         []ForecastSample `json:"items"`
}

// WeatherQuery is a persisted weather lookup: a resolved location, an
// inclusive calendar-day range, a unit system, and the forecast snapshot
// that was current when the record was last written.
//
// Location fields are set at creation and immutable thereafter — updates
// change the range and units, not the place. StartDate and EndDate are
// date-only "2006-01-02" strings with StartDate <= EndDate.
type WeatherQuery struct {
	ID           int64     `json:"id"`
	LocationName string    `json:"locationName"`
	Latitude     float64   `json:"lat"`
	Longitude    float64   `json:"lon"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate"`
	Units        Units     `json:"units"`
	Payload      Snapshot  `json:"payload"`
	CreatedAt    time.Time `json:"createdAt"`
}
