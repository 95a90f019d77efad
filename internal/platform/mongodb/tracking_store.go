package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTrackingStore implements store.TrackingStore.
type MongoTrackingStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewMongoTrackingStore creates a tracking store on coll.
func NewMongoTrackingStore(coll *mongo.Collection, logger *slog.Logger) *MongoTrackingStore {
	if coll == nil {
		panic("collection cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoTrackingStore{
		coll:   coll,
		logger: logger.With(slog.String("component", "tracking_store")),
	}
}

var _ store.TrackingStore = (*MongoTrackingStore)(nil)

// AppendTrackingLog implements store.TrackingStore.
func (s *MongoTrackingStore) AppendTrackingLog(ctx context.Context, entry *domain.TrackingLog) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if _, err := s.coll.InsertOne(ctx, toTrackingDoc(entry)); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to append tracking log", slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// ListTrackingLogs implements store.TrackingStore.
func (s *MongoTrackingStore) ListTrackingLogs(ctx context.Context, trackingID string) ([]*domain.TrackingLog, error) {
	cursor, err := s.coll.Find(ctx,
		bson.M{"tracking_id": trackingID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, MapError(err)
	}

	var docs []trackingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, MapError(err)
	}

	logs := make([]*domain.TrackingLog, 0, len(docs))
	for _, d := range docs {
		l, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, nil
}
