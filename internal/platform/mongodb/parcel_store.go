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

// MongoParcelStore implements store.ParcelStore on a parcels collection.
type MongoParcelStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewMongoParcelStore creates a parcel store on coll.
func NewMongoParcelStore(coll *mongo.Collection, logger *slog.Logger) *MongoParcelStore {
	if coll == nil {
		panic("collection cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoParcelStore{
		coll:   coll,
		logger: logger.With(slog.String("component", "parcel_store")),
	}
}

var _ store.ParcelStore = (*MongoParcelStore)(nil)

// CreateParcel implements store.ParcelStore.
func (s *MongoParcelStore) CreateParcel(ctx context.Context, parcel *domain.Parcel) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := parcel.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if _, err := s.coll.InsertOne(ctx, toParcelDoc(parcel)); err != nil {
		log.Error("failed to create parcel", slog.String("error", err.Error()))
		return MapError(err)
	}

	log.Info("parcel created",
		slog.String("parcel_id", parcel.ID.String()),
		slog.String("tracking_id", parcel.TrackingID))
	return nil
}

// GetParcel implements store.ParcelStore.
func (s *MongoParcelStore) GetParcel(ctx context.Context, id uuid.UUID) (*domain.Parcel, error) {
	var doc parcelDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrParcelNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get parcel",
			slog.String("error", err.Error()),
			slog.String("parcel_id", id.String()))
		return nil, MapError(err)
	}
	return doc.toDomain()
}

// ListParcels implements store.ParcelStore.
func (s *MongoParcelStore) ListParcels(ctx context.Context, filter store.ParcelFilter) ([]*domain.Parcel, error) {
	query := bson.M{}
	if filter.CreatedBy != "" {
		query["created_by"] = domain.NormalizeEmail(filter.CreatedBy)
	}

	cursor, err := s.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list parcels", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	var docs []parcelDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, MapError(err)
	}

	parcels := make([]*domain.Parcel, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		parcels = append(parcels, p)
	}
	return parcels, nil
}

// DeleteParcel implements store.ParcelStore.
func (s *MongoParcelStore) DeleteParcel(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String(), "payment_status": string(domain.ParcelUnpaid)})
	if err != nil {
		log.Error("failed to delete parcel", slog.String("error", err.Error()))
		return MapError(err)
	}
	if res.DeletedCount == 1 {
		log.Info("parcel deleted", slog.String("parcel_id", id.String()))
		return nil
	}

	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return MapError(err)
	}
	if n > 0 {
		return store.ErrParcelPaid
	}
	return store.ErrParcelNotFound
}
