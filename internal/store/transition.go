package store

import "github.com/google/uuid"

// TransitionOutcome is the result of an attempt to record a payment.
type TransitionOutcome int

const (
	// TransitionApplied means the parcel moved from unpaid to paid and the
	// payment was inserted in the same atomic unit.
	TransitionApplied TransitionOutcome = iota + 1
	// TransitionAlreadyPaid means the parcel was already paid; nothing was written.
	TransitionAlreadyPaid
	// TransitionParcelMissing means no parcel exists with the given ID.
	TransitionParcelMissing
)

func (o TransitionOutcome) String() string {
	switch o {
	case TransitionApplied:
		return "applied"
	case TransitionAlreadyPaid:
		return "already_paid"
	case TransitionParcelMissing:
		return "parcel_missing"
	default:
		return "unknown"
	}
}

// TransitionResult reports the outcome of RecordPayment. PaymentID is only set
// for TransitionApplied. Failures are reported through the error return.
type TransitionResult struct {
	Outcome   TransitionOutcome
	PaymentID uuid.UUID
}

// Applied builds the result for a successful transition.
func Applied(paymentID uuid.UUID) TransitionResult {
	return TransitionResult{Outcome: TransitionApplied, PaymentID: paymentID}
}

// AlreadyPaid builds the result for an already paid parcel.
func AlreadyPaid() TransitionResult {
	return TransitionResult{Outcome: TransitionAlreadyPaid}
}

// ParcelMissing builds the result for an unknown parcel.
func ParcelMissing() TransitionResult {
	return TransitionResult{Outcome: TransitionParcelMissing}
}
