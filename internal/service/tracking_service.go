package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/store"
)

// TrackingInput is a manual tracking update.
type TrackingInput struct {
	TrackingID string
	ParcelID   string // optional
	Status     string
	Message    string
}

// TrackingService records and reads the delivery history of parcels.
type TrackingService interface {
	// Append adds an entry written by updatedBy.
	Append(ctx context.Context, in TrackingInput, updatedBy string) (*domain.TrackingLog, error)

	// List returns the entries for trackingID, oldest first.
	List(ctx context.Context, trackingID string) ([]*domain.TrackingLog, error)
}

type trackingServiceImpl struct {
	tracking store.TrackingStore
	timeouts Timeouts
	logger   *slog.Logger
}

// NewTrackingService creates a TrackingService.
func NewTrackingService(tracking store.TrackingStore, timeouts Timeouts, logger *slog.Logger) (TrackingService, error) {
	if tracking == nil {
		return nil, domain.NewValidationError("tracking", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &trackingServiceImpl{
		tracking: tracking,
		timeouts: timeouts,
		logger:   logger.With("component", "tracking_service"),
	}, nil
}

func (s *trackingServiceImpl) Append(
	ctx context.Context,
	in TrackingInput,
	updatedBy string,
) (*domain.TrackingLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var parcelID *uuid.UUID
	if strings.TrimSpace(in.ParcelID) != "" {
		id, err := parseParcelID(in.ParcelID)
		if err != nil {
			return nil, err
		}
		parcelID = &id
	}

	entry, err := domain.NewTrackingLog(in.TrackingID, parcelID, in.Status, in.Message, updatedBy)
	if err != nil {
		log.Debug("rejected invalid tracking entry", "error", err)
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeouts.Query)
	defer cancel()

	if err := s.tracking.AppendTrackingLog(ctx, entry); err != nil {
		log.Error("failed to append tracking log", "error", err, "tracking_id", entry.TrackingID)
		return nil, NewServiceError("tracking", "append", "failed to save tracking log", err)
	}

	log.Debug("tracking log appended", "tracking_id", entry.TrackingID, "status", entry.Status)
	return entry, nil
}

func (s *trackingServiceImpl) List(ctx context.Context, trackingID string) ([]*domain.TrackingLog, error) {
	ctx, cancel := withTimeout(ctx, s.timeouts.Query)
	defer cancel()

	logs, err := s.tracking.ListTrackingLogs(ctx, strings.TrimSpace(trackingID))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tracking logs",
			"error", err,
			"tracking_id", trackingID)
		return nil, NewServiceError("tracking", "list", "failed to list tracking logs", err)
	}
	return logs, nil
}
