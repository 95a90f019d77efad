package testdb

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables naming the integration test backends.
const (
	PostgresURLEnv = "PARCEL_TEST_DATABASE_URL"
	MongoURLEnv    = "PARCEL_TEST_MONGO_URL"

	RequireBackendsEnv = "PARCEL_TEST_REQUIRE_BACKENDS"
)

// PostgresURL returns the PostgreSQL test URL, or "" when unset.
func PostgresURL() string {
	return strings.TrimSpace(os.Getenv(PostgresURLEnv))
}

// MongoURL returns the MongoDB test URL, or "" when unset.
func MongoURL() string {
	return strings.TrimSpace(os.Getenv(MongoURLEnv))
}

// RequireBackends reports whether missing backends should fail tests
// instead of skipping them. CI integration jobs set it.
func RequireBackends() bool {
	v, err := strconv.ParseBool(os.Getenv(RequireBackendsEnv))
	return err == nil && v
}
