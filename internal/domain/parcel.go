package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParcelPaymentStatus tracks whether a parcel's delivery charge has been paid.
type ParcelPaymentStatus string

const (
	ParcelUnpaid ParcelPaymentStatus = "unpaid"
	ParcelPaid   ParcelPaymentStatus = "paid"
)

// DeliveryStatus is the physical progress of a parcel.
type DeliveryStatus string

const (
	DeliveryNotCollected DeliveryStatus = "not_collected"
	DeliveryAssigned     DeliveryStatus = "rider_assigned"
	DeliveryInTransit    DeliveryStatus = "in_transit"
	DeliveryDelivered    DeliveryStatus = "delivered"
)

// ParcelDetails holds the descriptive fields supplied by the sender.
type ParcelDetails struct {
	Title          string  `json:"title"`
	Type           string  `json:"type"`
	Weight         float64 `json:"weight"`
	SenderName     string  `json:"sender_name"`
	SenderRegion   string  `json:"sender_region"`
	ReceiverName   string  `json:"receiver_name"`
	ReceiverRegion string  `json:"receiver_region"`
	Cost           float64 `json:"cost"`
}

// Parcel is a shipment created by a user. Its payment status only moves from
// unpaid to paid, and only together with the Payment that pays it.
type Parcel struct {
	ID         uuid.UUID `json:"id"`
	TrackingID string    `json:"tracking_id"`
	ParcelDetails
	CreatedBy      string              `json:"created_by"`
	CreatedAt      time.Time           `json:"created_at"`
	PaymentStatus  ParcelPaymentStatus `json:"payment_status"`
	DeliveryStatus DeliveryStatus      `json:"delivery_status"`
	TransactionID  string              `json:"transaction_id,omitempty"`
	PaidAt         *time.Time          `json:"paid_at,omitempty"`
}

// NewParcel creates an unpaid, not yet collected parcel owned by createdBy.
func NewParcel(createdBy string, details ParcelDetails, trackingID string) (*Parcel, error) {
	p := &Parcel{
		ID:             uuid.New(),
		TrackingID:     trackingID,
		ParcelDetails:  details,
		CreatedBy:      NormalizeEmail(createdBy),
		CreatedAt:      time.Now().UTC(),
		PaymentStatus:  ParcelUnpaid,
		DeliveryStatus: DeliveryNotCollected,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the parcel's invariants.
func (p *Parcel) Validate() error {
	if p.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if err := ValidateEmail(p.CreatedBy); err != nil {
		return NewValidationError("created_by", err.Error(), err)
	}
	if strings.TrimSpace(p.Title) == "" {
		return NewValidationError("title", "cannot be empty", ErrEmptyContent)
	}
	if strings.TrimSpace(p.TrackingID) == "" {
		return NewValidationError("tracking_id", "cannot be empty", ErrEmptyContent)
	}
	if p.Weight < 0 {
		return NewValidationError("weight", "cannot be negative", ErrValidation)
	}
	if p.Cost < 0 {
		return NewValidationError("cost", "cannot be negative", ErrInvalidAmount)
	}
	switch p.PaymentStatus {
	case ParcelUnpaid:
		if p.PaidAt != nil || p.TransactionID != "" {
			return NewValidationError("payment_status", "unpaid parcel carries payment data", ErrInvalidStatus)
		}
	case ParcelPaid:
		if p.PaidAt == nil || p.TransactionID == "" {
			return NewValidationError("payment_status", "paid parcel lacks payment data", ErrInvalidStatus)
		}
	default:
		return NewValidationError("payment_status", "must be unpaid or paid", ErrInvalidStatus)
	}
	return nil
}

// IsPaid reports whether the parcel has been paid.
func (p *Parcel) IsPaid() bool {
	return p.PaymentStatus == ParcelPaid
}
