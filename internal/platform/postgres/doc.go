// Package postgres implements the store interfaces on PostgreSQL through the
// pgx database/sql driver. Schema changes are shipped as embedded goose
// migrations.
package postgres
