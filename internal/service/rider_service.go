package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/events"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/store"
)

// RiderService manages rider applications.
type RiderService interface {
	// Apply files a pending rider application.
	Apply(ctx context.Context, profile domain.RiderProfile) (*domain.Rider, error)

	ListByStatus(ctx context.Context, status domain.RiderStatus) ([]*domain.Rider, error)

	// UpdateStatus moves a rider to status and aligns the rider's user role:
	// active riders get RoleRider, every other status reverts to RoleUser.
	// Admin users keep their role.
	UpdateStatus(ctx context.Context, id string, status domain.RiderStatus) (*domain.Rider, error)
}

type riderServiceImpl struct {
	riders   store.RiderStore
	users    store.UserStore
	emitter  events.EventEmitter
	timeouts Timeouts
	logger   *slog.Logger
}

// NewRiderService creates a RiderService.
func NewRiderService(
	riders store.RiderStore,
	users store.UserStore,
	emitter events.EventEmitter,
	timeouts Timeouts,
	logger *slog.Logger,
) (RiderService, error) {
	if riders == nil {
		return nil, domain.NewValidationError("riders", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &riderServiceImpl{
		riders:   riders,
		users:    users,
		emitter:  emitter,
		timeouts: timeouts,
		logger:   logger.With("component", "rider_service"),
	}, nil
}

func (s *riderServiceImpl) Apply(ctx context.Context, profile domain.RiderProfile) (*domain.Rider, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rider, err := domain.NewRider(profile)
	if err != nil {
		log.Debug("rejected invalid rider application", "error", err)
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeouts.Query)
	defer cancel()

	if err := s.riders.CreateRider(ctx, rider); err != nil {
		log.Error("failed to create rider", "error", err)
		return nil, NewServiceError("rider", "apply", "failed to save rider", err)
	}

	log.Info("rider application received", "rider_id", rider.ID)
	return rider, nil
}

func (s *riderServiceImpl) ListByStatus(ctx context.Context, status domain.RiderStatus) ([]*domain.Rider, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "unknown rider status", domain.ErrInvalidStatus)
	}

	ctx, cancel := withTimeout(ctx, s.timeouts.Query)
	defer cancel()

	riders, err := s.riders.ListRidersByStatus(ctx, status)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list riders",
			"error", err,
			"status", status)
		return nil, NewServiceError("rider", "list_by_status", "failed to list riders", err)
	}
	return riders, nil
}

func (s *riderServiceImpl) UpdateStatus(
	ctx context.Context,
	id string,
	status domain.RiderStatus,
) (*domain.Rider, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	riderID, err := uuid.Parse(id)
	if err != nil || riderID == uuid.Nil {
		return nil, domain.NewValidationError("id", "must be a valid identifier", domain.ErrInvalidID)
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "unknown rider status", domain.ErrInvalidStatus)
	}

	storeCtx, cancel := withTimeout(ctx, s.timeouts.Query)
	defer cancel()

	rider, err := s.riders.UpdateRiderStatus(storeCtx, riderID, status)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrRiderNotFound
		}
		log.Error("failed to update rider status", "error", err, "rider_id", riderID)
		return nil, NewServiceError("rider", "update_status", "failed to update rider", err)
	}

	if err := s.alignRole(storeCtx, rider); err != nil {
		log.Error("failed to align user role with rider status",
			"error", err,
			"rider_id", riderID,
			"status", status)
		return nil, NewServiceError("rider", "update_status", "failed to update user role", err)
	}

	log.Info("rider status updated", "rider_id", riderID, "status", status)

	emit(ctx, s.emitter, log, events.TypeRiderStatusChanged, events.RiderStatusChangedPayload{
		RiderID: rider.ID,
		Email:   rider.Email,
		Status:  string(rider.Status),
	})

	return rider, nil
}

// alignRole sets the rider's user role from the rider status. Riders without
// a user record are left alone.
func (s *riderServiceImpl) alignRole(ctx context.Context, rider *domain.Rider) error {
	user, err := s.users.GetUserByEmail(ctx, rider.Email)
	if err != nil {
		if store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Warn("rider has no user record", "rider_id", rider.ID)
			return nil
		}
		return err
	}

	role := rider.Status.RoleFor()
	if user.Role == domain.RoleAdmin || user.Role == role {
		return nil
	}
	return s.users.UpdateUserRole(ctx, rider.Email, role)
}
