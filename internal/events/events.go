package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the services.
const (
	TypeParcelCreated      = "parcel.created"
	TypePaymentRecorded    = "payment.recorded"
	TypeRiderStatusChanged = "rider.status_changed"
)

// DomainEvent describes something that already happened in the domain.
// Handlers react to it; they cannot veto it.
type DomainEvent struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ParcelCreatedPayload is the payload of TypeParcelCreated.
type ParcelCreatedPayload struct {
	ParcelID   uuid.UUID `json:"parcel_id"`
	TrackingID string    `json:"tracking_id"`
	CreatedBy  string    `json:"created_by"`
}

// PaymentRecordedPayload is the payload of TypePaymentRecorded.
type PaymentRecordedPayload struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	ParcelID      uuid.UUID `json:"parcel_id"`
	Email         string    `json:"email"`
	TransactionID string    `json:"transaction_id"`
}

// RiderStatusChangedPayload is the payload of TypeRiderStatusChanged.
type RiderStatusChangedPayload struct {
	RiderID uuid.UUID `json:"rider_id"`
	Email   string    `json:"email"`
	Status  string    `json:"status"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *DomainEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewDomainEvent creates a DomainEvent of eventType carrying payload as JSON.
func NewDomainEvent(eventType string, payload interface{}) (*DomainEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &DomainEvent{
		ID:         uuid.New(),
		Type:       eventType,
		Payload:    payloadBytes,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// EventHandler processes events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *DomainEvent) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *DomainEvent) error

// HandleEvent calls f.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *DomainEvent) error {
	return f(ctx, event)
}

// EventEmitter publishes events to registered handlers.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *DomainEvent) error
}
