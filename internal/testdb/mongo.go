package testdb

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/parcel-api/internal/config"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/platform/mongodb"
	"github.com/phrazzld/parcel-api/internal/redact"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// OpenMongo connects to the test server and creates a fresh database with
// the store indexes. The database is dropped when the test ends.
func OpenMongo(t *testing.T) (*mongo.Client, *mongo.Database) {
	t.Helper()

	url := MongoURL()
	if url == "" {
		skipOrFail(t, MongoURLEnv)
	}

	log, _ := logger.NewTestLogger(t)
	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	name := "parcel_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	client, err := mongodb.Connect(ctx, config.DatabaseConfig{
		Driver:       config.DriverMongo,
		URL:          url,
		Name:         name,
		QueryTimeout: TestTimeout,
	}, log)
	require.NoError(t, err, "connect to %s", redact.String(url))

	db := client.Database(name)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("failed to drop test database %s: %v", name, err)
		}
		_ = client.Disconnect(ctx)
	})

	require.NoError(t, mongodb.EnsureIndexes(ctx, db), "create indexes")
	return client, db
}
