package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/store"
)

// PostgresTrackingStore implements the store.TrackingStore interface.
type PostgresTrackingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTrackingStore creates a tracking store on db.
func NewPostgresTrackingStore(db store.DBTX, logger *slog.Logger) *PostgresTrackingStore {
	if db == nil {
		panic("db cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTrackingStore{
		db:     db,
		logger: logger.With(slog.String("component", "tracking_store")),
	}
}

var _ store.TrackingStore = (*PostgresTrackingStore)(nil)

// AppendTrackingLog implements store.TrackingStore.
func (s *PostgresTrackingStore) AppendTrackingLog(ctx context.Context, entry *domain.TrackingLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tracking_logs (id, tracking_id, parcel_id, status, message, updated_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.TrackingID, entry.ParcelID, entry.Status, entry.Message, entry.UpdatedBy, entry.CreatedAt)
	if err != nil {
		log.Error("failed to append tracking log", slog.String("error", err.Error()))
		return MapError(err)
	}

	log.Debug("tracking log appended",
		slog.String("tracking_id", entry.TrackingID),
		slog.String("status", entry.Status))
	return nil
}

// ListTrackingLogs implements store.TrackingStore.
func (s *PostgresTrackingStore) ListTrackingLogs(ctx context.Context, trackingID string) ([]*domain.TrackingLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tracking_id, parcel_id, status, message, updated_by, created_at
		FROM tracking_logs
		WHERE tracking_id = $1
		ORDER BY created_at ASC
	`, trackingID)
	if err != nil {
		log.Error("failed to list tracking logs", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	logs := make([]*domain.TrackingLog, 0)
	for rows.Next() {
		var (
			l        domain.TrackingLog
			parcelID uuid.NullUUID
		)
		if err := rows.Scan(&l.ID, &l.TrackingID, &parcelID, &l.Status,
			&l.Message, &l.UpdatedBy, &l.CreatedAt); err != nil {
			return nil, err
		}
		if parcelID.Valid {
			id := parcelID.UUID
			l.ParcelID = &id
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
