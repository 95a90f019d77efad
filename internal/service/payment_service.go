package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/events"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/store"
)

// PaymentGateway creates payment intents with an external card processor.
type PaymentGateway interface {
	// CreatePaymentIntent returns the client secret of a new intent for
	// amountInCents. Failures reported by the processor are *GatewayError.
	CreatePaymentIntent(ctx context.Context, amountInCents int64) (string, error)
}

// RecordPaymentInput carries the client-supplied fields of a payment.
type RecordPaymentInput struct {
	ParcelID      string
	Email         string
	Amount        float64
	PaymentMethod string
	TransactionID string
}

// PaymentService handles payment intents and payment recording.
type PaymentService interface {
	// CreatePaymentIntent rejects non-positive amounts with ErrInvalidAmount.
	CreatePaymentIntent(ctx context.Context, amountInCents int64) (string, error)

	// RecordPayment marks the parcel paid and stores the payment atomically.
	// It returns ErrInvalidParcelID, a domain validation error,
	// store.ErrParcelNotFound or ErrPaymentExists for expected failures.
	RecordPayment(ctx context.Context, in RecordPaymentInput) (*domain.Payment, error)

	// ListPayments returns the payer's payments, most recent first.
	ListPayments(ctx context.Context, email string) ([]*domain.Payment, error)
}

// Timeouts bounds the external calls made by a service. Zero disables a bound.
type Timeouts struct {
	Query   time.Duration
	Gateway time.Duration
}

type paymentServiceImpl struct {
	payments store.PaymentStore
	gateway  PaymentGateway
	emitter  events.EventEmitter
	timeouts Timeouts
	now      func() time.Time
	logger   *slog.Logger
}

// NewPaymentService creates a PaymentService.
// It returns an error if a required dependency is nil.
func NewPaymentService(
	payments store.PaymentStore,
	gateway PaymentGateway,
	emitter events.EventEmitter,
	timeouts Timeouts,
	logger *slog.Logger,
) (PaymentService, error) {
	if payments == nil {
		return nil, domain.NewValidationError("payments", "cannot be nil", domain.ErrValidation)
	}
	if gateway == nil {
		return nil, domain.NewValidationError("gateway", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &paymentServiceImpl{
		payments: payments,
		gateway:  gateway,
		emitter:  emitter,
		timeouts: timeouts,
		now:      time.Now,
		logger:   logger.With("component", "payment_service"),
	}, nil
}

func (s *paymentServiceImpl) CreatePaymentIntent(ctx context.Context, amountInCents int64) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if amountInCents <= 0 {
		log.Debug("rejected payment intent amount", "amount_in_cents", amountInCents)
		return "", ErrInvalidAmount
	}

	ctx, cancel := withTimeout(ctx, s.timeouts.Gateway)
	defer cancel()

	secret, err := s.gateway.CreatePaymentIntent(ctx, amountInCents)
	if err != nil {
		log.Error("failed to create payment intent",
			"error", err,
			"amount_in_cents", amountInCents)
		var gwErr *GatewayError
		if errors.As(err, &gwErr) {
			return "", err
		}
		return "", NewServiceError("payment", "create_payment_intent", "gateway call failed", err)
	}

	log.Info("payment intent created", "amount_in_cents", amountInCents)
	return secret, nil
}

func (s *paymentServiceImpl) RecordPayment(ctx context.Context, in RecordPaymentInput) (*domain.Payment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	parcelID, err := parseParcelID(in.ParcelID)
	if err != nil {
		log.Debug("rejected malformed parcel id")
		return nil, err
	}

	payment, err := domain.NewPayment(parcelID, in.Email, in.Amount, in.PaymentMethod, in.TransactionID, s.now())
	if err != nil {
		log.Debug("rejected invalid payment", "error", err, "parcel_id", parcelID)
		return nil, err
	}

	storeCtx, cancel := withTimeout(ctx, s.timeouts.Query)
	defer cancel()

	result, err := s.payments.RecordPayment(storeCtx, payment)
	if err != nil {
		log.Error("failed to record payment",
			"error", err,
			"parcel_id", parcelID)
		return nil, NewServiceError("payment", "record_payment", "store transition failed", err)
	}

	switch result.Outcome {
	case store.TransitionApplied:
		payment.ID = result.PaymentID
	case store.TransitionAlreadyPaid:
		log.Info("payment already recorded for parcel", "parcel_id", parcelID)
		return nil, ErrPaymentExists
	case store.TransitionParcelMissing:
		log.Debug("payment for unknown parcel", "parcel_id", parcelID)
		return nil, store.ErrParcelNotFound
	default:
		return nil, NewServiceError("payment", "record_payment",
			fmt.Sprintf("unexpected transition outcome %s", result.Outcome), nil)
	}

	log.Info("payment recorded and parcel marked as paid",
		"payment_id", payment.ID,
		"parcel_id", parcelID)

	emit(ctx, s.emitter, log, events.TypePaymentRecorded, events.PaymentRecordedPayload{
		PaymentID:     payment.ID,
		ParcelID:      payment.ParcelID,
		Email:         payment.Email,
		TransactionID: payment.TransactionID,
	})

	return payment, nil
}

func (s *paymentServiceImpl) ListPayments(ctx context.Context, email string) ([]*domain.Payment, error) {
	ctx, cancel := withTimeout(ctx, s.timeouts.Query)
	defer cancel()

	payments, err := s.payments.ListPaymentsByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list payments", "error", err)
		return nil, NewServiceError("payment", "list_payments", "failed to list payments", err)
	}
	return payments, nil
}

// emit publishes an event after a committed state change. Handler failures
// are logged; the change they describe has already happened.
func emit(ctx context.Context, emitter events.EventEmitter, log *slog.Logger, eventType string, payload any) {
	if emitter == nil {
		return
	}
	event, err := events.NewDomainEvent(eventType, payload)
	if err != nil {
		log.Error("failed to build event", "error", err, "event_type", eventType)
		return
	}
	if err := emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("event handler failed", "error", err, "event_type", eventType)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
