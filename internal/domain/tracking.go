package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tracking statuses written by the application itself.
const (
	TrackingParcelCreated = "parcel_created"
	TrackingPaymentDone   = "payment_done"
)

// TrackingLog is one append-only entry in a parcel's delivery history.
type TrackingLog struct {
	ID         uuid.UUID  `json:"id"`
	TrackingID string     `json:"tracking_id"`
	ParcelID   *uuid.UUID `json:"parcel_id,omitempty"`
	Status     string     `json:"status"`
	Message    string     `json:"message,omitempty"`
	UpdatedBy  string     `json:"updated_by"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewTrackingLog creates a log entry for trackingID.
func NewTrackingLog(trackingID string, parcelID *uuid.UUID, status, message, updatedBy string) (*TrackingLog, error) {
	l := &TrackingLog{
		ID:         uuid.New(),
		TrackingID: strings.TrimSpace(trackingID),
		ParcelID:   parcelID,
		Status:     strings.TrimSpace(status),
		Message:    strings.TrimSpace(message),
		UpdatedBy:  strings.TrimSpace(updatedBy),
		CreatedAt:  time.Now().UTC(),
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks if the TrackingLog has valid data.
func (l *TrackingLog) Validate() error {
	if l.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if l.TrackingID == "" {
		return NewValidationError("tracking_id", "cannot be empty", ErrEmptyContent)
	}
	if l.Status == "" {
		return NewValidationError("status", "cannot be empty", ErrEmptyContent)
	}
	if l.UpdatedBy == "" {
		return NewValidationError("updated_by", "cannot be empty", ErrEmptyContent)
	}
	return nil
}
