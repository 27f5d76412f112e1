package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeller/weathervane/backend/migrations"
	"github.com/akeller/weathervane/backend/testutil"
)

// TestMigrations verifies the full migration round-trip against a real
// Postgres database: apply everything, check the tables exist, roll back to
// zero, check they are gone. Skipped when TEST_DATABASE_URL is not set.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)

	provider, err := goose.NewProvider(
		goose.DialectPostgres,
		db,
		migrations.FS,
	)
	require.NoError(t, err, "create goose provider")

	ctx := context.Background()

	// Another package's tests may have already applied migrations against
	// this shared test DB. Reset to version 0 first so this test is
	// self-contained and order-independent.
	if _, err := provider.DownTo(ctx, 0); err != nil {
		t.Fatalf("TestMigrations: initial reset: %v", err)
	}

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.NotEmpty(t, results, "expected at least one migration to be applied")

	for _, table := range []string{"locations", "weather_queries"} {
		assertTableExists(t, db, table)
	}

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")

	for _, table := range []string{"locations", "weather_queries"} {
		assertTableAbsent(t, db, table)
	}

	// Leave the schema applied for the rest of the suite.
	_, err = provider.Up(ctx)
	require.NoError(t, err, "goose re-up")
}

// tableExists reports whether a table is present in the public schema.
func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()

	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`

	var exists bool
	err := db.QueryRowContext(context.Background(), q, table).Scan(&exists)
	require.NoError(t, err, "query table existence for %s", table)
	return exists
}

func assertTableExists(t *testing.T, db *sql.DB, table string) {
	t.Helper()
	assert.True(t, tableExists(t, db, table), "table %s should exist", table)
}

func assertTableAbsent(t *testing.T, db *sql.DB, table string) {
	t.Helper()
	assert.False(t, tableExists(t, db, table), "table %s should not exist", table)
}
