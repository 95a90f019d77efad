package testdb

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/phrazzld/parcel-api/internal/config"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/platform/postgres"
	"github.com/phrazzld/parcel-api/internal/redact"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds fixture setup and teardown.
const TestTimeout = 10 * time.Second

// OpenPostgres connects to the test database and applies every migration.
// The connection is closed when the test ends.
func OpenPostgres(t *testing.T) *sql.DB {
	t.Helper()

	url := PostgresURL()
	if url == "" {
		skipOrFail(t, PostgresURLEnv)
	}

	log, _ := logger.NewTestLogger(t)
	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, config.DatabaseConfig{
		Driver:       config.DriverPostgres,
		URL:          url,
		MaxOpenConns: 20,
	}, log)
	require.NoError(t, err, "connect to %s", redact.String(url))
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, postgres.Migrate(ctx, db, postgres.MigrateUp, log), "apply migrations")
	return db
}

// skipOrFail skips the test when the backend is not configured, or fails it
// when PARCEL_TEST_REQUIRE_BACKENDS is set.
func skipOrFail(t *testing.T, envVar string) {
	t.Helper()
	if RequireBackends() {
		t.Fatalf("%s must be set when %s is enabled", envVar, RequireBackendsEnv)
	}
	t.Skipf("%s not set; skipping integration test", envVar)
}
