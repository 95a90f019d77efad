package store

import (
	"context"

	"github.com/phrazzld/parcel-api/internal/domain"
)

// TrackingStore persists the append-only tracking history.
type TrackingStore interface {
	AppendTrackingLog(ctx context.Context, log *domain.TrackingLog) error

	// ListTrackingLogs returns the entries for trackingID in chronological order.
	ListTrackingLogs(ctx context.Context, trackingID string) ([]*domain.TrackingLog, error)
}
