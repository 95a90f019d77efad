package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/store"
)

const parcelColumns = `id, tracking_id, title, type, weight, sender_name, sender_region,
	receiver_name, receiver_region, cost, created_by, created_at, payment_status,
	delivery_status, transaction_id, paid_at`

// PostgresParcelStore implements the store.ParcelStore interface.
type PostgresParcelStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresParcelStore creates a parcel store on db, which may be a
// connection pool or a transaction. A nil logger falls back to slog.Default().
func NewPostgresParcelStore(db store.DBTX, logger *slog.Logger) *PostgresParcelStore {
	if db == nil {
		panic("db cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresParcelStore{
		db:     db,
		logger: logger.With(slog.String("component", "parcel_store")),
	}
}

var _ store.ParcelStore = (*PostgresParcelStore)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParcel(row rowScanner) (*domain.Parcel, error) {
	var (
		p             domain.Parcel
		paymentStatus string
		delivery      string
		transactionID sql.NullString
		paidAt        sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.TrackingID, &p.Title, &p.Type, &p.Weight,
		&p.SenderName, &p.SenderRegion, &p.ReceiverName, &p.ReceiverRegion,
		&p.Cost, &p.CreatedBy, &p.CreatedAt, &paymentStatus, &delivery,
		&transactionID, &paidAt,
	)
	if err != nil {
		return nil, err
	}
	p.PaymentStatus = domain.ParcelPaymentStatus(paymentStatus)
	p.DeliveryStatus = domain.DeliveryStatus(delivery)
	p.TransactionID = transactionID.String
	if paidAt.Valid {
		t := paidAt.Time.UTC()
		p.PaidAt = &t
	}
	return &p, nil
}

// CreateParcel implements store.ParcelStore.
func (s *PostgresParcelStore) CreateParcel(ctx context.Context, parcel *domain.Parcel) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := parcel.Validate(); err != nil {
		log.Warn("parcel validation failed during create",
			slog.String("error", err.Error()),
			slog.String("parcel_id", parcel.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO parcels (` + parcelColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	var transactionID sql.NullString
	if parcel.TransactionID != "" {
		transactionID = sql.NullString{String: parcel.TransactionID, Valid: true}
	}
	var paidAt sql.NullTime
	if parcel.PaidAt != nil {
		paidAt = sql.NullTime{Time: *parcel.PaidAt, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		parcel.ID, parcel.TrackingID, parcel.Title, parcel.Type, parcel.Weight,
		parcel.SenderName, parcel.SenderRegion, parcel.ReceiverName, parcel.ReceiverRegion,
		parcel.Cost, parcel.CreatedBy, parcel.CreatedAt, string(parcel.PaymentStatus),
		string(parcel.DeliveryStatus), transactionID, paidAt,
	)
	if err != nil {
		log.Error("failed to create parcel",
			slog.String("error", err.Error()),
			slog.String("parcel_id", parcel.ID.String()))
		return MapError(err)
	}

	log.Info("parcel created",
		slog.String("parcel_id", parcel.ID.String()),
		slog.String("tracking_id", parcel.TrackingID))
	return nil
}

// GetParcel implements store.ParcelStore.
func (s *PostgresParcelStore) GetParcel(ctx context.Context, id uuid.UUID) (*domain.Parcel, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + parcelColumns + ` FROM parcels WHERE id = $1`
	parcel, err := scanParcel(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("parcel not found", slog.String("parcel_id", id.String()))
			return nil, store.ErrParcelNotFound
		}
		log.Error("failed to get parcel",
			slog.String("error", err.Error()),
			slog.String("parcel_id", id.String()))
		return nil, MapError(err)
	}
	return parcel, nil
}

// ListParcels implements store.ParcelStore.
func (s *PostgresParcelStore) ListParcels(ctx context.Context, filter store.ParcelFilter) ([]*domain.Parcel, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + parcelColumns + ` FROM parcels`
	var args []any
	if filter.CreatedBy != "" {
		query += ` WHERE created_by = $1`
		args = append(args, domain.NormalizeEmail(filter.CreatedBy))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list parcels", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	parcels := make([]*domain.Parcel, 0)
	for rows.Next() {
		p, err := scanParcel(rows)
		if err != nil {
			log.Error("failed to scan parcel row", slog.String("error", err.Error()))
			return nil, err
		}
		parcels = append(parcels, p)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating parcel rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("parcels listed", slog.Int("count", len(parcels)))
	return parcels, nil
}

// DeleteParcel implements store.ParcelStore. Paid parcels are kept so their
// payment stays attached to an existing parcel.
func (s *PostgresParcelStore) DeleteParcel(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM parcels WHERE id = $1 AND payment_status = 'unpaid'`, id)
	if err != nil {
		log.Error("failed to delete parcel",
			slog.String("error", err.Error()),
			slog.String("parcel_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "parcel"); err == nil {
		log.Info("parcel deleted", slog.String("parcel_id", id.String()))
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM parcels WHERE id = $1)`, id).Scan(&exists); err != nil {
		return MapError(err)
	}
	if exists {
		return store.ErrParcelPaid
	}
	return store.ErrParcelNotFound
}
