package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/events"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/store"
)

// TrackingEventHandler writes tracking log entries for parcel creation and
// payment, so every parcel's history starts without a manual update.
//
// Events describe changes that are already committed, so store calls run
// detached from the caller's cancellation and are bounded by queryTimeout.
type TrackingEventHandler struct {
	tracking     store.TrackingStore
	parcels      store.ParcelStore
	queryTimeout time.Duration
	logger       *slog.Logger
}

var _ events.EventHandler = (*TrackingEventHandler)(nil)

// NewTrackingEventHandler creates a TrackingEventHandler. A zero
// queryTimeout leaves store calls unbounded.
func NewTrackingEventHandler(
	tracking store.TrackingStore,
	parcels store.ParcelStore,
	queryTimeout time.Duration,
	logger *slog.Logger,
) (*TrackingEventHandler, error) {
	if tracking == nil {
		return nil, domain.NewValidationError("tracking", "cannot be nil", domain.ErrValidation)
	}
	if parcels == nil {
		return nil, domain.NewValidationError("parcels", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TrackingEventHandler{
		tracking:     tracking,
		parcels:      parcels,
		queryTimeout: queryTimeout,
		logger:       logger.With("component", "tracking_event_handler"),
	}, nil
}

// HandleEvent implements events.EventHandler. Unrelated events are ignored.
func (h *TrackingEventHandler) HandleEvent(ctx context.Context, event *events.DomainEvent) error {
	log := logger.FromContextOrDefault(ctx, h.logger)
	ctx = context.WithoutCancel(ctx)

	var entry *domain.TrackingLog
	var err error

	switch event.Type {
	case events.TypeParcelCreated:
		var p events.ParcelCreatedPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
		}
		entry, err = domain.NewTrackingLog(p.TrackingID, &p.ParcelID, domain.TrackingParcelCreated,
			"Parcel created", p.CreatedBy)

	case events.TypePaymentRecorded:
		var p events.PaymentRecordedPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
		}
		getCtx, cancel := withTimeout(ctx, h.queryTimeout)
		parcel, getErr := h.parcels.GetParcel(getCtx, p.ParcelID)
		cancel()
		if getErr != nil {
			return fmt.Errorf("failed to load paid parcel %s: %w", p.ParcelID, getErr)
		}
		entry, err = domain.NewTrackingLog(parcel.TrackingID, &p.ParcelID, domain.TrackingPaymentDone,
			"Paid with transaction "+p.TransactionID, p.Email)

	default:
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to build tracking log for %s: %w", event.Type, err)
	}
	appendCtx, cancel := withTimeout(ctx, h.queryTimeout)
	defer cancel()
	if err := h.tracking.AppendTrackingLog(appendCtx, entry); err != nil {
		return fmt.Errorf("failed to append tracking log: %w", err)
	}

	log.Debug("tracking log appended from event",
		"event_type", event.Type,
		"tracking_id", entry.TrackingID)
	return nil
}
