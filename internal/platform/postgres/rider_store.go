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

const riderColumns = `id, name, email, region, district, phone, status, created_at`

// PostgresRiderStore implements the store.RiderStore interface.
type PostgresRiderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRiderStore creates a rider store on db.
func NewPostgresRiderStore(db store.DBTX, logger *slog.Logger) *PostgresRiderStore {
	if db == nil {
		panic("db cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRiderStore{
		db:     db,
		logger: logger.With(slog.String("component", "rider_store")),
	}
}

var _ store.RiderStore = (*PostgresRiderStore)(nil)

func scanRider(row rowScanner) (*domain.Rider, error) {
	var (
		r      domain.Rider
		status string
	)
	if err := row.Scan(&r.ID, &r.Name, &r.Email, &r.Region, &r.District,
		&r.Phone, &status, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.Status = domain.RiderStatus(status)
	return &r, nil
}

// CreateRider implements store.RiderStore.
func (s *PostgresRiderStore) CreateRider(ctx context.Context, rider *domain.Rider) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := rider.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO riders (`+riderColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rider.ID, rider.Name, rider.Email, rider.Region, rider.District,
		rider.Phone, string(rider.Status), rider.CreatedAt)
	if err != nil {
		log.Error("failed to create rider", slog.String("error", err.Error()))
		return MapError(err)
	}

	log.Info("rider application created", slog.String("rider_id", rider.ID.String()))
	return nil
}

// ListRidersByStatus implements store.RiderStore.
func (s *PostgresRiderStore) ListRidersByStatus(ctx context.Context, status domain.RiderStatus) ([]*domain.Rider, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+riderColumns+` FROM riders WHERE status = $1 ORDER BY created_at ASC`,
		string(status))
	if err != nil {
		log.Error("failed to list riders", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	riders := make([]*domain.Rider, 0)
	for rows.Next() {
		r, err := scanRider(rows)
		if err != nil {
			return nil, err
		}
		riders = append(riders, r)
	}
	return riders, rows.Err()
}

// UpdateRiderStatus implements store.RiderStore.
func (s *PostgresRiderStore) UpdateRiderStatus(ctx context.Context, id uuid.UUID, status domain.RiderStatus) (*domain.Rider, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !status.Valid() {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidStatus)
	}

	rider, err := scanRider(s.db.QueryRowContext(ctx,
		`UPDATE riders SET status = $1 WHERE id = $2 RETURNING `+riderColumns,
		string(status), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRiderNotFound
		}
		log.Error("failed to update rider status", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Info("rider status updated",
		slog.String("rider_id", id.String()),
		slog.String("status", string(status)))
	return rider, nil
}
