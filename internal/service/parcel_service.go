package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/events"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/store"
)

// TrackingIDGenerator produces tracking IDs for new parcels.
type TrackingIDGenerator interface {
	NewTrackingID() string
}

// ParcelService manages parcels.
type ParcelService interface {
	CreateParcel(ctx context.Context, createdBy string, details domain.ParcelDetails) (*domain.Parcel, error)

	// GetParcel returns ErrInvalidParcelID or store.ErrParcelNotFound.
	GetParcel(ctx context.Context, id string) (*domain.Parcel, error)

	// ListParcels lists every parcel, or those created by email when non-empty.
	ListParcels(ctx context.Context, email string) ([]*domain.Parcel, error)

	// DeleteParcel removes an unpaid parcel. Paid parcels yield store.ErrParcelPaid.
	DeleteParcel(ctx context.Context, id string) error
}

type parcelServiceImpl struct {
	parcels     store.ParcelStore
	trackingIDs TrackingIDGenerator
	emitter     events.EventEmitter
	timeouts    Timeouts
	logger      *slog.Logger
}

// NewParcelService creates a ParcelService.
func NewParcelService(
	parcels store.ParcelStore,
	trackingIDs TrackingIDGenerator,
	emitter events.EventEmitter,
	timeouts Timeouts,
	logger *slog.Logger,
) (ParcelService, error) {
	if parcels == nil {
		return nil, domain.NewValidationError("parcels", "cannot be nil", domain.ErrValidation)
	}
	if trackingIDs == nil {
		return nil, domain.NewValidationError("trackingIDs", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &parcelServiceImpl{
		parcels:     parcels,
		trackingIDs: trackingIDs,
		emitter:     emitter,
		timeouts:    timeouts,
		logger:      logger.With("component", "parcel_service"),
	}, nil
}

func (s *parcelServiceImpl) CreateParcel(
	ctx context.Context,
	createdBy string,
	details domain.ParcelDetails,
) (*domain.Parcel, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	parcel, err := domain.NewParcel(createdBy, details, s.trackingIDs.NewTrackingID())
	if err != nil {
		log.Debug("rejected invalid parcel", "error", err)
		return nil, err
	}

	storeCtx, cancel := withTimeout(ctx, s.timeouts.Query)
	defer cancel()

	if err := s.parcels.CreateParcel(storeCtx, parcel); err != nil {
		log.Error("failed to create parcel", "error", err, "tracking_id", parcel.TrackingID)
		return nil, NewServiceError("parcel", "create_parcel", "failed to save parcel", err)
	}

	log.Info("parcel created", "parcel_id", parcel.ID, "tracking_id", parcel.TrackingID)

	emit(ctx, s.emitter, log, events.TypeParcelCreated, events.ParcelCreatedPayload{
		ParcelID:   parcel.ID,
		TrackingID: parcel.TrackingID,
		CreatedBy:  parcel.CreatedBy,
	})

	return parcel, nil
}

func (s *parcelServiceImpl) GetParcel(ctx context.Context, id string) (*domain.Parcel, error) {
	parcelID, err := parseParcelID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeouts.Query)
	defer cancel()

	parcel, err := s.parcels.GetParcel(ctx, parcelID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrParcelNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get parcel",
			"error", err,
			"parcel_id", parcelID)
		return nil, NewServiceError("parcel", "get_parcel", "failed to load parcel", err)
	}
	return parcel, nil
}

func (s *parcelServiceImpl) ListParcels(ctx context.Context, email string) ([]*domain.Parcel, error) {
	ctx, cancel := withTimeout(ctx, s.timeouts.Query)
	defer cancel()

	parcels, err := s.parcels.ListParcels(ctx, store.ParcelFilter{CreatedBy: domain.NormalizeEmail(email)})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list parcels", "error", err)
		return nil, NewServiceError("parcel", "list_parcels", "failed to list parcels", err)
	}
	return parcels, nil
}

func (s *parcelServiceImpl) DeleteParcel(ctx context.Context, id string) error {
	parcelID, err := parseParcelID(id)
	if err != nil {
		return err
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	ctx, cancel := withTimeout(ctx, s.timeouts.Query)
	defer cancel()

	if err := s.parcels.DeleteParcel(ctx, parcelID); err != nil {
		switch {
		case store.IsNotFoundError(err):
			return store.ErrParcelNotFound
		case errors.Is(err, store.ErrParcelPaid):
			log.Debug("refused to delete paid parcel", "parcel_id", parcelID)
			return store.ErrParcelPaid
		}
		log.Error("failed to delete parcel", "error", err, "parcel_id", parcelID)
		return NewServiceError("parcel", "delete_parcel", "failed to delete parcel", err)
	}

	log.Info("parcel deleted", "parcel_id", parcelID)
	return nil
}

func parseParcelID(id string) (uuid.UUID, error) {
	parcelID, err := uuid.Parse(id)
	if err != nil || parcelID == uuid.Nil {
		return uuid.Nil, ErrInvalidParcelID
	}
	return parcelID, nil
}
