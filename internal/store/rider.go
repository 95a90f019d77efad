package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/parcel-api/internal/domain"
)

// RiderStore defines the interface for rider persistence.
type RiderStore interface {
	CreateRider(ctx context.Context, rider *domain.Rider) error

	// ListRidersByStatus returns riders in status, oldest application first.
	ListRidersByStatus(ctx context.Context, status domain.RiderStatus) ([]*domain.Rider, error)

	// UpdateRiderStatus sets the status and returns the updated rider.
	// Returns ErrRiderNotFound when absent.
	UpdateRiderStatus(ctx context.Context, id uuid.UUID, status domain.RiderStatus) (*domain.Rider, error)
}
