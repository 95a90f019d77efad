package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/parcel-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"unique", &pgconn.PgError{Code: uniqueViolationCode}, store.ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: foreignKeyViolationCode}, store.ErrInvalidEntity},
		{"check", &pgconn.PgError{Code: checkViolationCode}, store.ErrInvalidEntity},
		{"not null", &pgconn.PgError{Code: notNullViolationCode}, store.ErrInvalidEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, MapError(tt.in), tt.want)
		})
	}

	assert.Nil(t, MapError(nil))
	other := errors.New("other")
	assert.Same(t, other, MapError(other))
}

func TestMapUniqueViolation(t *testing.T) {
	err := MapUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}, store.ErrEmailExists)
	assert.ErrorIs(t, err, store.ErrEmailExists)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	plain := errors.New("plain")
	assert.Same(t, plain, MapUniqueViolation(plain, store.ErrEmailExists))
}

func TestCheckRowsAffected(t *testing.T) {
	assert.NoError(t, CheckRowsAffected(sqlmock.NewResult(0, 1), "parcel"))
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), "parcel"), store.ErrNotFound)
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), ""), store.ErrNotFound)
	assert.Error(t, CheckRowsAffected(nil, "parcel"))
	assert.Error(t, CheckRowsAffected(sqlmock.NewErrorResult(errors.New("x")), "parcel"))
}
