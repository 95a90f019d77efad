package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/parcel-api/internal/domain"
)

// ParcelFilter narrows ListParcels. A zero filter lists every parcel.
type ParcelFilter struct {
	CreatedBy string
}

// ParcelStore defines the interface for parcel data persistence.
type ParcelStore interface {
	// CreateParcel saves a new parcel.
	// Returns ErrInvalidEntity if validation fails.
	CreateParcel(ctx context.Context, parcel *domain.Parcel) error

	// GetParcel retrieves a parcel by ID. Returns ErrParcelNotFound when absent.
	GetParcel(ctx context.Context, id uuid.UUID) (*domain.Parcel, error)

	// ListParcels returns parcels newest first.
	ListParcels(ctx context.Context, filter ParcelFilter) ([]*domain.Parcel, error)

	// DeleteParcel removes a parcel. Returns ErrParcelNotFound when absent.
	DeleteParcel(ctx context.Context, id uuid.UUID) error
}
