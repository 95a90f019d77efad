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
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

var (
	errAlreadyPaid   = errors.New("parcel already paid")
	errParcelMissing = errors.New("parcel missing")
)

// MongoPaymentStore implements store.PaymentStore. Recording a payment spans
// the parcels and payments collections inside one session transaction.
type MongoPaymentStore struct {
	client   *mongo.Client
	parcels  *mongo.Collection
	payments *mongo.Collection
	logger   *slog.Logger
}

// NewMongoPaymentStore creates a payment store.
func NewMongoPaymentStore(client *mongo.Client, parcels, payments *mongo.Collection, logger *slog.Logger) *MongoPaymentStore {
	if client == nil || parcels == nil || payments == nil {
		panic("client and collections cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoPaymentStore{
		client:   client,
		parcels:  parcels,
		payments: payments,
		logger:   logger.With(slog.String("component", "payment_store")),
	}
}

var _ store.PaymentStore = (*MongoPaymentStore)(nil)

// RecordPayment implements store.PaymentStore.
func (s *MongoPaymentStore) RecordPayment(ctx context.Context, payment *domain.Payment) (store.TransitionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("parcel_id", payment.ParcelID.String()),
		slog.String("payment_id", payment.ID.String()))

	if err := payment.Validate(); err != nil {
		return store.TransitionResult{}, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return store.TransitionResult{}, fmt.Errorf("%w: start session: %w", store.ErrTransactionFailed, err)
	}
	defer session.EndSession(context.WithoutCancel(ctx))

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		parcelID := payment.ParcelID.String()

		res, err := s.parcels.UpdateOne(sc,
			bson.M{"_id": parcelID, "payment_status": string(domain.ParcelUnpaid)},
			bson.M{"$set": bson.M{
				"payment_status": string(domain.ParcelPaid),
				"transaction_id": payment.TransactionID,
				"paid_at":        payment.PaidAt,
			}})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			n, err := s.parcels.CountDocuments(sc, bson.M{"_id": parcelID})
			if err != nil {
				return nil, err
			}
			if n == 0 {
				return nil, errParcelMissing
			}
			return nil, errAlreadyPaid
		}

		if _, err := s.payments.InsertOne(sc, toPaymentDoc(payment)); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, errAlreadyPaid
			}
			return nil, err
		}
		return nil, nil
	}, txnOpts)

	switch {
	case err == nil:
		log.Info("payment recorded")
		return store.Applied(payment.ID), nil
	case errors.Is(err, errAlreadyPaid):
		log.Info("payment already recorded for parcel")
		return store.AlreadyPaid(), nil
	case errors.Is(err, errParcelMissing):
		log.Debug("payment for unknown parcel")
		return store.ParcelMissing(), nil
	default:
		log.Error("failed to record payment", slog.String("error", err.Error()))
		return store.TransitionResult{}, store.NewStoreError("payment", "record", "transaction aborted", MapError(err))
	}
}

// ListPaymentsByEmail implements store.PaymentStore.
func (s *MongoPaymentStore) ListPaymentsByEmail(ctx context.Context, email string) ([]*domain.Payment, error) {
	cursor, err := s.payments.Find(ctx,
		bson.M{"email": domain.NormalizeEmail(email)},
		options.Find().SetSort(bson.D{{Key: "paid_at", Value: -1}}))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list payments", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	var docs []paymentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, MapError(err)
	}

	payments := make([]*domain.Payment, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}
