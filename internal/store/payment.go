package store

import (
	"context"

	"github.com/phrazzld/parcel-api/internal/domain"
)

// PaymentStore defines the interface for payment persistence.
type PaymentStore interface {
	// RecordPayment marks payment.ParcelID paid and inserts payment as one
	// atomic unit. Concurrent calls for the same parcel yield exactly one
	// TransitionApplied; the others observe TransitionAlreadyPaid.
	// A non-nil error means nothing was written.
	RecordPayment(ctx context.Context, payment *domain.Payment) (TransitionResult, error)

	// ListPaymentsByEmail returns the payer's payments, most recent first.
	ListPaymentsByEmail(ctx context.Context, email string) ([]*domain.Payment, error)
}
