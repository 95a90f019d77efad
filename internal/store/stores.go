package store

import "context"

// Stores bundles one backend's store implementations with its lifecycle hooks.
type Stores struct {
	Parcels  ParcelStore
	Payments PaymentStore
	Users    UserStore
	Riders   RiderStore
	Tracking TrackingStore

	// Ping checks backend connectivity.
	Ping func(ctx context.Context) error
	// Close releases the backend's connections.
	Close func(ctx context.Context) error
}
