package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeller/weathervane/backend/internal/domain"
	"github.com/akeller/weathervane/backend/internal/repo"
	"github.com/akeller/weathervane/backend/testutil"
)

// testTx opens a transaction against the test database and rolls it back
// when the test finishes, giving free per-test isolation.
func testTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// queryFixture returns a domain.WeatherQuery with sensible defaults and a
// unique location name, so assertions can find their own rows even if a
// parallel test shares the database.
func queryFixture() domain.WeatherQuery {
	name := "Paris, FR " + uuid.NewString()
	return domain.WeatherQuery{
		LocationName: name,
		Latitude:     48.8589,
		Longitude:    2.32,
		StartDate:    "2024-06-01",
		EndDate:      "2024-06-03",
		Units:        domain.UnitsMetric,
		Payload: domain.Snapshot{
			SchemaVersion: domain.SnapshotSchemaVersion,
			LocationName:  name,
			Latitude:      48.8589,
			Longitude:     2.32,
			Units:         domain.UnitsMetric,
			StartDate:     "2024-06-01",
			EndDate:       "2024-06-03",
			Items: []domain.ForecastSample{
				{
					TimestampUTC:         1717243200,
					Temperature:          21.5,
					FeelsLike:            20.1,
					Humidity:             55,
					WindSpeed:            3.4,
					ConditionIcon:        "01d",
					ConditionDescription: "clear sky",
				},
			},
		},
	}
}

func TestQueryRepo_Create(t *testing.T) {
	r := repo.NewQueryRepo(testTx(t))
	ctx := context.Background()

	input := queryFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotZero(t, got.ID, "ID should be DB-generated")
	assert.Equal(t, input.LocationName, got.LocationName)
	assert.Equal(t, input.Latitude, got.Latitude)
	assert.Equal(t, input.Longitude, got.Longitude)
	assert.Equal(t, "2024-06-01", got.StartDate)
	assert.Equal(t, "2024-06-03", got.EndDate)
	assert.Equal(t, domain.UnitsMetric, got.Units)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")

	// The snapshot must survive the JSONB round trip intact.
	assert.Equal(t, input.Payload, got.Payload)
}

func TestQueryRepo_GetByID(t *testing.T) {
	r := repo.NewQueryRepo(testTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, queryFixture())
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.LocationName, got.LocationName)
	assert.Equal(t, created.Payload, got.Payload)
}

func TestQueryRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewQueryRepo(testTx(t))

	_, err := r.GetByID(context.Background(), -1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueryRepo_List(t *testing.T) {
	r := repo.NewQueryRepo(testTx(t))
	ctx := context.Background()

	q1, err := r.Create(ctx, queryFixture())
	require.NoError(t, err)
	q2, err := r.Create(ctx, queryFixture())
	require.NoError(t, err)

	got, err := r.List(ctx)

	require.NoError(t, err)
	require.GreaterOrEqual(t, len(got), 2)

	byID := make(map[int64]domain.WeatherQuery, len(got))
	for _, q := range got {
		byID[q.ID] = q
	}
	assert.Contains(t, byID, q1.ID)
	assert.Contains(t, byID, q2.ID)

	// Most recent first. Rows inserted in the same transaction share a
	// created_at, so check times rather than positions.
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.After(got[i-1].CreatedAt),
			"list should be ordered by created_at descending")
	}
}

func TestQueryRepo_ReplaceSnapshot(t *testing.T) {
	r := repo.NewQueryRepo(testTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, queryFixture())
	require.NoError(t, err)

	payload := created.Payload
	payload.StartDate, payload.EndDate = "2024-06-02", "2024-06-04"
	payload.Units = domain.UnitsImperial
	payload.Items = []domain.ForecastSample{{TimestampUTC: 1717329600, Temperature: 72}}

	got, err := r.ReplaceSnapshot(ctx, created.ID, "2024-06-02", "2024-06-04", domain.UnitsImperial, payload)

	require.NoError(t, err)
	assert.Equal(t, "2024-06-02", got.StartDate)
	assert.Equal(t, "2024-06-04", got.EndDate)
	assert.Equal(t, domain.UnitsImperial, got.Units)
	assert.Equal(t, payload, got.Payload)

	// Identity fields never change on update.
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.LocationName, got.LocationName)
	assert.Equal(t, created.Latitude, got.Latitude)
	assert.Equal(t, created.Longitude, got.Longitude)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
}

func TestQueryRepo_ReplaceSnapshot_VanishedRow(t *testing.T) {
	r := repo.NewQueryRepo(testTx(t))

	_, err := r.ReplaceSnapshot(context.Background(), -1, "2024-06-01", "2024-06-03", domain.UnitsMetric, domain.Snapshot{})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestQueryRepo_Delete(t *testing.T) {
	r := repo.NewQueryRepo(testTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, queryFixture())
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, created.ID))

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueryRepo_Delete_NotFound(t *testing.T) {
	r := repo.NewQueryRepo(testTx(t))

	err := r.Delete(context.Background(), -1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
