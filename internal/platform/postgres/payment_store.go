package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/store"
)

// errAlreadyPaid aborts the payment transaction when the parcel is already paid.
var errAlreadyPaid = errors.New("parcel already paid")

// PostgresPaymentStore implements the store.PaymentStore interface.
// It needs a connection pool rather than a DBTX because it owns its transactions.
type PostgresPaymentStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresPaymentStore creates a payment store on db.
func NewPostgresPaymentStore(db *sql.DB, logger *slog.Logger) *PostgresPaymentStore {
	if db == nil {
		panic("db cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPaymentStore{
		db:     db,
		logger: logger.With(slog.String("component", "payment_store")),
	}
}

var _ store.PaymentStore = (*PostgresPaymentStore)(nil)

// RecordPayment implements store.PaymentStore.
//
// The parcel row is flipped with a compare-and-swap on payment_status so that
// only one concurrent caller can match it; the others block on the row lock,
// re-evaluate the predicate and update nothing. The unique constraint on
// payments.parcel_id backs this up.
func (s *PostgresPaymentStore) RecordPayment(ctx context.Context, payment *domain.Payment) (store.TransitionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("parcel_id", payment.ParcelID.String()),
		slog.String("payment_id", payment.ID.String()))

	if err := payment.Validate(); err != nil {
		return store.TransitionResult{}, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	var missing bool
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE parcels
			SET payment_status = 'paid', transaction_id = $2, paid_at = $3
			WHERE id = $1 AND payment_status = 'unpaid'
		`, payment.ParcelID, payment.TransactionID, payment.PaidAt)
		if err != nil {
			return MapError(err)
		}

		if err := CheckRowsAffected(result, "parcel"); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			var exists bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM parcels WHERE id = $1)`,
				payment.ParcelID).Scan(&exists); err != nil {
				return MapError(err)
			}
			if !exists {
				missing = true
				return store.ErrParcelNotFound
			}
			return errAlreadyPaid
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO payments (id, parcel_id, email, amount, payment_method, transaction_id, status, paid_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, payment.ID, payment.ParcelID, payment.Email, payment.Amount,
			payment.PaymentMethod, payment.TransactionID, string(payment.Status), payment.PaidAt)
		if err != nil {
			if IsUniqueViolation(err) {
				return errAlreadyPaid
			}
			return MapError(err)
		}
		return nil
	})

	switch {
	case err == nil:
		log.Info("payment recorded")
		return store.Applied(payment.ID), nil
	case errors.Is(err, errAlreadyPaid):
		log.Info("payment already recorded for parcel")
		return store.AlreadyPaid(), nil
	case missing && errors.Is(err, store.ErrParcelNotFound):
		log.Debug("payment for unknown parcel")
		return store.ParcelMissing(), nil
	default:
		log.Error("failed to record payment", slog.String("error", err.Error()))
		return store.TransitionResult{}, store.NewStoreError("payment", "record", "transaction aborted", err)
	}
}

// ListPaymentsByEmail implements store.PaymentStore.
func (s *PostgresPaymentStore) ListPaymentsByEmail(ctx context.Context, email string) ([]*domain.Payment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parcel_id, email, amount, payment_method, transaction_id, status, paid_at
		FROM payments
		WHERE email = $1
		ORDER BY paid_at DESC
	`, domain.NormalizeEmail(email))
	if err != nil {
		log.Error("failed to list payments", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		var (
			p      domain.Payment
			status string
		)
		if err := rows.Scan(&p.ID, &p.ParcelID, &p.Email, &p.Amount,
			&p.PaymentMethod, &p.TransactionID, &status, &p.PaidAt); err != nil {
			log.Error("failed to scan payment row", slog.String("error", err.Error()))
			return nil, err
		}
		p.Status = domain.PaymentStatus(status)
		p.PaidAt = p.PaidAt.UTC()
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating payment rows", slog.String("error", err.Error()))
		return nil, err
	}

	return payments, nil
}
