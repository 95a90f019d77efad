package api

import (
	"time"

	"github.com/phrazzld/parcel-api/internal/domain"
)

// CreatePaymentIntentRequest is the body of POST /create-payment-intent.
type CreatePaymentIntentRequest struct {
	AmountInCents *int64 `json:"amountInCents"`
}

// CreatePaymentIntentResponse carries the client secret used by the card form.
type CreatePaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// RecordPaymentRequest is the body of POST /payments. Fields are validated by
// the payment service so that a bad parcel ID is reported first.
type RecordPaymentRequest struct {
	ParcelID      string  `json:"parcelId"`
	Email         string  `json:"email"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	TransactionID string  `json:"transactionId"`
}

// InsertedResponse reports the identifier of a created resource.
type InsertedResponse struct {
	InsertedID string `json:"insertedId"`
	Message    string `json:"message,omitempty"`
}

// MessageResponse is a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// PaymentResponse is the client view of a payment.
type PaymentResponse struct {
	ID            string    `json:"id"`
	ParcelID      string    `json:"parcelId"`
	Email         string    `json:"email"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
	TransactionID string    `json:"transactionId"`
	Status        string    `json:"status"`
	PaidAt        time.Time `json:"paid_at"`
}

// CreateParcelRequest is the body of POST /parcels.
type CreateParcelRequest struct {
	Title          string  `json:"title"          validate:"required,max=200"`
	Type           string  `json:"type"           validate:"omitempty,oneof=document non-document"`
	Weight         float64 `json:"weight"         validate:"gte=0"`
	SenderName     string  `json:"senderName"     validate:"max=200"`
	SenderRegion   string  `json:"senderRegion"   validate:"max=200"`
	ReceiverName   string  `json:"receiverName"   validate:"max=200"`
	ReceiverRegion string  `json:"receiverRegion" validate:"max=200"`
	Cost           float64 `json:"cost"           validate:"gte=0"`
	CreatedBy      string  `json:"created_by"     validate:"required,email"`
}

// CreateParcelResponse reports a new parcel.
type CreateParcelResponse struct {
	InsertedID string `json:"insertedId"`
	TrackingID string `json:"trackingId"`
}

// ParcelResponse is the client view of a parcel.
type ParcelResponse struct {
	ID             string     `json:"id"`
	TrackingID     string     `json:"trackingId"`
	Title          string     `json:"title"`
	Type           string     `json:"type,omitempty"`
	Weight         float64    `json:"weight"`
	SenderName     string     `json:"senderName,omitempty"`
	SenderRegion   string     `json:"senderRegion,omitempty"`
	ReceiverName   string     `json:"receiverName,omitempty"`
	ReceiverRegion string     `json:"receiverRegion,omitempty"`
	Cost           float64    `json:"cost"`
	CreatedBy      string     `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	PaymentStatus  string     `json:"payment_status"`
	DeliveryStatus string     `json:"delivery_status"`
	TransactionID  string     `json:"transactionId,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
}

// RegisterUserRequest is the body of POST /users.
type RegisterUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"omitempty,oneof=user rider admin"`
}

// RoleResponse reports a user's role.
type RoleResponse struct {
	Role string `json:"role"`
}

// RiderApplicationRequest is the body of POST /riders.
type RiderApplicationRequest struct {
	Name     string `json:"name"     validate:"required,max=200"`
	Email    string `json:"email"    validate:"required,email"`
	Region   string `json:"region"   validate:"required,max=100"`
	District string `json:"district" validate:"max=100"`
	Phone    string `json:"phone"    validate:"max=40"`
}

// RiderStatusRequest is the body of PATCH /riders/{id}/status.
type RiderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active rejected deactivated"`
}

// RiderResponse is the client view of a rider.
type RiderResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Region    string    `json:"region"`
	District  string    `json:"district,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TrackingRequest is the body of POST /tracking.
type TrackingRequest struct {
	TrackingID string `json:"trackingId" validate:"required,max=64"`
	ParcelID   string `json:"parcelId"   validate:"omitempty,uuid"`
	Status     string `json:"status"     validate:"required,max=64"`
	Message    string `json:"message"    validate:"max=500"`
}

// TrackingLogResponse is the client view of a tracking entry.
type TrackingLogResponse struct {
	ID         string    `json:"id"`
	TrackingID string    `json:"trackingId"`
	ParcelID   string    `json:"parcelId,omitempty"`
	Status     string    `json:"status"`
	Message    string    `json:"message,omitempty"`
	UpdatedBy  string    `json:"updated_by"`
	CreatedAt  time.Time `json:"timestamp"`
}

func paymentToResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID.String(),
		ParcelID:      p.ParcelID.String(),
		Email:         p.Email,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		Status:        string(p.Status),
		PaidAt:        p.PaidAt,
	}
}

func parcelToResponse(p *domain.Parcel) ParcelResponse {
	return ParcelResponse{
		ID:             p.ID.String(),
		TrackingID:     p.TrackingID,
		Title:          p.Title,
		Type:           p.Type,
		Weight:         p.Weight,
		SenderName:     p.SenderName,
		SenderRegion:   p.SenderRegion,
		ReceiverName:   p.ReceiverName,
		ReceiverRegion: p.ReceiverRegion,
		Cost:           p.Cost,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
		PaymentStatus:  string(p.PaymentStatus),
		DeliveryStatus: string(p.DeliveryStatus),
		TransactionID:  p.TransactionID,
		PaidAt:         p.PaidAt,
	}
}

func riderToResponse(r *domain.Rider) RiderResponse {
	return RiderResponse{
		ID:        r.ID.String(),
		Name:      r.Name,
		Email:     r.Email,
		Region:    r.Region,
		District:  r.District,
		Phone:     r.Phone,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

func trackingToResponse(l *domain.TrackingLog) TrackingLogResponse {
	resp := TrackingLogResponse{
		ID:         l.ID.String(),
		TrackingID: l.TrackingID,
		Status:     l.Status,
		Message:    l.Message,
		UpdatedBy:  l.UpdatedBy,
		CreatedAt:  l.CreatedAt,
	}
	if l.ParcelID != nil {
		resp.ParcelID = l.ParcelID.String()
	}
	return resp
}

func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
