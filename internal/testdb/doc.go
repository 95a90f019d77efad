// Package testdb provides database fixtures for integration tests.
//
// Tests that need a real backend call OpenPostgres or OpenMongo, which skip
// the test unless the matching environment variable is set:
//
//	PARCEL_TEST_DATABASE_URL  PostgreSQL URL; migrations are applied on open
//	PARCEL_TEST_MONGO_URL     MongoDB URL; must point at a replica set
//
// Each Mongo fixture gets its own database, dropped on cleanup. PostgreSQL
// fixtures share one schema, so tests should create their own rows and not
// assume an empty table.
package testdb
