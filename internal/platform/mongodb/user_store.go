package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserStore implements store.UserStore.
type MongoUserStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewMongoUserStore creates a user store on coll.
func NewMongoUserStore(coll *mongo.Collection, logger *slog.Logger) *MongoUserStore {
	if coll == nil {
		panic("collection cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoUserStore{
		coll:   coll,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*MongoUserStore)(nil)

// UpsertUser implements store.UserStore. The stored _id equals the candidate
// ID only when the upsert inserted the document.
func (s *MongoUserStore) UpsertUser(ctx context.Context, user *domain.User) (*domain.User, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	update := bson.M{
		"$set": bson.M{"last_log_in": user.LastLogIn},
		"$setOnInsert": bson.M{
			"_id":        user.ID.String(),
			"role":       string(user.Role),
			"created_at": user.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc userDoc
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"email": user.Email}, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		// A concurrent upsert inserted the email first; update the winner.
		err = s.coll.FindOneAndUpdate(ctx, bson.M{"email": user.Email},
			bson.M{"$set": bson.M{"last_log_in": user.LastLogIn}},
			options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	}
	if err != nil {
		log.Error("failed to upsert user", slog.String("error", err.Error()))
		return nil, false, MapError(err)
	}

	stored, err := doc.toDomain()
	if err != nil {
		return nil, false, err
	}
	return stored, stored.ID == user.ID, nil
}

// GetUserByEmail implements store.UserStore.
func (s *MongoUserStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDoc
	err := s.coll.FindOne(ctx, bson.M{"email": domain.NormalizeEmail(email)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrUserNotFound
		}
		return nil, MapError(err)
	}
	return doc.toDomain()
}

// UpdateUserRole implements store.UserStore.
func (s *MongoUserStore) UpdateUserRole(ctx context.Context, email string, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidRole)
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"email": domain.NormalizeEmail(email)},
		bson.M{"$set": bson.M{"role": string(role)}})
	if err != nil {
		return MapError(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrUserNotFound
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user role updated", slog.String("role", string(role)))
	return nil
}
