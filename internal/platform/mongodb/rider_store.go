package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRiderStore implements store.RiderStore.
type MongoRiderStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewMongoRiderStore creates a rider store on coll.
func NewMongoRiderStore(coll *mongo.Collection, logger *slog.Logger) *MongoRiderStore {
	if coll == nil {
		panic("collection cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoRiderStore{
		coll:   coll,
		logger: logger.With(slog.String("component", "rider_store")),
	}
}

var _ store.RiderStore = (*MongoRiderStore)(nil)

// CreateRider implements store.RiderStore.
func (s *MongoRiderStore) CreateRider(ctx context.Context, rider *domain.Rider) error {
	if err := rider.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if _, err := s.coll.InsertOne(ctx, toRiderDoc(rider)); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create rider", slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// ListRidersByStatus implements store.RiderStore.
func (s *MongoRiderStore) ListRidersByStatus(ctx context.Context, status domain.RiderStatus) ([]*domain.Rider, error) {
	cursor, err := s.coll.Find(ctx,
		bson.M{"status": string(status)},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, MapError(err)
	}

	var docs []riderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, MapError(err)
	}

	riders := make([]*domain.Rider, 0, len(docs))
	for _, d := range docs {
		r, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		riders = append(riders, r)
	}
	return riders, nil
}

// UpdateRiderStatus implements store.RiderStore.
func (s *MongoRiderStore) UpdateRiderStatus(ctx context.Context, id uuid.UUID, status domain.RiderStatus) (*domain.Rider, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidStatus)
	}

	var doc riderDoc
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"status": string(status)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrRiderNotFound
		}
		return nil, MapError(err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("rider status updated",
		slog.String("rider_id", id.String()),
		slog.String("status", string(status)))
	return doc.toDomain()
}
