package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the settlement state of a recorded payment.
type PaymentStatus string

// PaymentSucceeded is the only status a recorded payment can have; failed
// attempts are never persisted.
const PaymentSucceeded PaymentStatus = "succeeded"

// Payment is the immutable record of a parcel's settlement.
// At most one Payment exists per parcel.
type Payment struct {
	ID            uuid.UUID     `json:"id"`
	ParcelID      uuid.UUID     `json:"parcel_id"`
	Email         string        `json:"email"`
	Amount        float64       `json:"amount"`
	PaymentMethod string        `json:"payment_method"`
	TransactionID string        `json:"transaction_id"`
	Status        PaymentStatus `json:"status"`
	PaidAt        time.Time     `json:"paid_at"`
}

// NewPayment builds a succeeded payment for parcelID paid by email at now.
func NewPayment(parcelID uuid.UUID, email string, amount float64, method, transactionID string, now time.Time) (*Payment, error) {
	p := &Payment{
		ID:            uuid.New(),
		ParcelID:      parcelID,
		Email:         NormalizeEmail(email),
		Amount:        amount,
		PaymentMethod: strings.TrimSpace(method),
		TransactionID: strings.TrimSpace(transactionID),
		Status:        PaymentSucceeded,
		PaidAt:        now.UTC(),
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the payment's invariants.
func (p *Payment) Validate() error {
	if p.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if p.ParcelID == uuid.Nil {
		return NewValidationError("parcel_id", "cannot be empty", ErrInvalidID)
	}
	if err := ValidateEmail(p.Email); err != nil {
		return NewValidationError("email", err.Error(), err)
	}
	if p.Amount <= 0 {
		return NewValidationError("amount", "must be greater than zero", ErrInvalidAmount)
	}
	if p.PaymentMethod == "" {
		return NewValidationError("payment_method", "cannot be empty", ErrEmptyContent)
	}
	if p.TransactionID == "" {
		return NewValidationError("transaction_id", "cannot be empty", ErrEmptyContent)
	}
	if p.Status != PaymentSucceeded {
		return NewValidationError("status", "must be succeeded", ErrInvalidStatus)
	}
	if p.PaidAt.IsZero() {
		return NewValidationError("paid_at", "cannot be empty", ErrValidation)
	}
	return nil
}
