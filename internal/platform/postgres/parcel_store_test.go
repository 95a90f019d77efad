package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var parcelRowColumns = []string{
	"id", "tracking_id", "title", "type", "weight", "sender_name", "sender_region",
	"receiver_name", "receiver_region", "cost", "created_by", "created_at",
	"payment_status", "delivery_status", "transaction_id", "paid_at",
}

func newMockParcelStore(t *testing.T) (*PostgresParcelStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresParcelStore(db, nil), mock
}

func TestCreateParcel(t *testing.T) {
	s, mock := newMockParcelStore(t)
	parcel, err := domain.NewParcel("owner@example.com", domain.ParcelDetails{Title: "Books", Cost: 50}, "PCL-1")
	require.NoError(t, err)

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+parcels`).
		WithArgs(parcel.ID.String(), "PCL-1", "Books", "", 0.0, "", "", "", "", 50.0,
			"owner@example.com", sqlmock.AnyArg(), "unpaid", "not_collected", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.CreateParcel(context.Background(), parcel))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateParcelDuplicateTrackingID(t *testing.T) {
	s, mock := newMockParcelStore(t)
	parcel, err := domain.NewParcel("owner@example.com", domain.ParcelDetails{Title: "Books"}, "PCL-1")
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO parcels`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err = s.CreateParcel(context.Background(), parcel)
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestCreateParcelInvalid(t *testing.T) {
	s, mock := newMockParcelStore(t)

	err := s.CreateParcel(context.Background(), &domain.Parcel{ID: uuid.New()})

	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetParcel(t *testing.T) {
	s, mock := newMockParcelStore(t)
	id := uuid.New()
	paidAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)SELECT .* FROM parcels WHERE id = \$1`).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(parcelRowColumns).AddRow(
			id.String(), "PCL-9", "Shoes", "box", 2.0, "Ann", "Dhaka", "Bob", "Sylhet", 120.0,
			"ann@example.com", paidAt.Add(-time.Hour), "paid", "in_transit", "pi_1", paidAt))

	parcel, err := s.GetParcel(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, parcel.ID)
	assert.Equal(t, "Shoes", parcel.Title)
	assert.Equal(t, domain.ParcelPaid, parcel.PaymentStatus)
	assert.Equal(t, domain.DeliveryInTransit, parcel.DeliveryStatus)
	assert.Equal(t, "pi_1", parcel.TransactionID)
	require.NotNil(t, parcel.PaidAt)
	assert.True(t, paidAt.Equal(*parcel.PaidAt))
}

func TestGetParcelNotFound(t *testing.T) {
	s, mock := newMockParcelStore(t)
	mock.ExpectQuery(`FROM parcels WHERE id`).WillReturnError(sql.ErrNoRows)

	_, err := s.GetParcel(context.Background(), uuid.New())

	assert.ErrorIs(t, err, store.ErrParcelNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func TestListParcelsByOwner(t *testing.T) {
	s, mock := newMockParcelStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM parcels WHERE created_by = \$1 ORDER BY created_at DESC`).
		WithArgs("ann@example.com").
		WillReturnRows(sqlmock.NewRows(parcelRowColumns).
			AddRow(uuid.NewString(), "PCL-2", "B", "", 0.0, "", "", "", "", 0.0,
				"ann@example.com", now, "unpaid", "not_collected", nil, nil).
			AddRow(uuid.NewString(), "PCL-1", "A", "", 0.0, "", "", "", "", 0.0,
				"ann@example.com", now.Add(-time.Minute), "unpaid", "not_collected", nil, nil))

	parcels, err := s.ListParcels(context.Background(), store.ParcelFilter{CreatedBy: "Ann@Example.com"})

	require.NoError(t, err)
	require.Len(t, parcels, 2)
	assert.Equal(t, "PCL-2", parcels[0].TrackingID)
	assert.Nil(t, parcels[1].PaidAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListParcelsAll(t *testing.T) {
	s, mock := newMockParcelStore(t)
	mock.ExpectQuery(`FROM parcels ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(parcelRowColumns))

	parcels, err := s.ListParcels(context.Background(), store.ParcelFilter{})

	require.NoError(t, err)
	assert.NotNil(t, parcels)
	assert.Empty(t, parcels)
}

func TestDeleteParcel(t *testing.T) {
	deletePattern := `DELETE FROM parcels WHERE id = \$1 AND payment_status = 'unpaid'`

	t.Run("deleted", func(t *testing.T) {
		s, mock := newMockParcelStore(t)
		mock.ExpectExec(deletePattern).WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, s.DeleteParcel(context.Background(), uuid.New()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		s, mock := newMockParcelStore(t)
		mock.ExpectExec(deletePattern).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(existsPattern).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		assert.ErrorIs(t, s.DeleteParcel(context.Background(), uuid.New()), store.ErrParcelNotFound)
	})

	t.Run("paid", func(t *testing.T) {
		s, mock := newMockParcelStore(t)
		mock.ExpectExec(deletePattern).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(existsPattern).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		assert.ErrorIs(t, s.DeleteParcel(context.Background(), uuid.New()), store.ErrParcelPaid)
	})

	t.Run("db error", func(t *testing.T) {
		s, mock := newMockParcelStore(t)
		mock.ExpectExec(deletePattern).WillReturnError(errors.New("timeout"))
		err := s.DeleteParcel(context.Background(), uuid.New())
		require.Error(t, err)
		assert.False(t, store.IsNotFoundError(err))
	})
}
