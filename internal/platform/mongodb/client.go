package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/parcel-api/internal/config"
	"github.com/phrazzld/parcel-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	ParcelsCollection  = "parcels"
	PaymentsCollection = "payments"
	UsersCollection    = "users"
	RidersCollection   = "riders"
	TrackingCollection = "trackings"
)

// Connect opens a client for cfg and verifies it against the primary.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URL).
		SetServerSelectionTimeout(5 * time.Second).
		SetTimeout(cfg.QueryTimeout)
	if cfg.MaxOpenConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.MaxOpenConns))
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("database connection established",
		slog.String("driver", config.DriverMongo),
		slog.String("database", cfg.Name))
	return client, nil
}

// EnsureIndexes creates the indexes the stores rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		ParcelsCollection: {
			{Keys: bson.D{{Key: "tracking_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		PaymentsCollection: {
			{Keys: bson.D{{Key: "parcel_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}, {Key: "paid_at", Value: -1}}},
		},
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		RidersCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		TrackingCollection: {
			{Keys: bson.D{{Key: "tracking_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// NewStores wires every MongoDB store onto db.
func NewStores(client *mongo.Client, db *mongo.Database, logger *slog.Logger) *store.Stores {
	return &store.Stores{
		Parcels:  NewMongoParcelStore(db.Collection(ParcelsCollection), logger),
		Payments: NewMongoPaymentStore(client, db.Collection(ParcelsCollection), db.Collection(PaymentsCollection), logger),
		Users:    NewMongoUserStore(db.Collection(UsersCollection), logger),
		Riders:   NewMongoRiderStore(db.Collection(RidersCollection), logger),
		Tracking: NewMongoTrackingStore(db.Collection(TrackingCollection), logger),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		Close: client.Disconnect,
	}
}
