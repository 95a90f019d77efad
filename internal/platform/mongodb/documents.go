package mongodb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/parcel-api/internal/domain"
)

// Identifiers are stored as canonical UUID strings in _id.

type parcelDoc struct {
	ID             string     `bson:"_id"`
	TrackingID     string     `bson:"tracking_id"`
	Title          string     `bson:"title"`
	Type           string     `bson:"type"`
	Weight         float64    `bson:"weight"`
	SenderName     string     `bson:"sender_name"`
	SenderRegion   string     `bson:"sender_region"`
	ReceiverName   string     `bson:"receiver_name"`
	ReceiverRegion string     `bson:"receiver_region"`
	Cost           float64    `bson:"cost"`
	CreatedBy      string     `bson:"created_by"`
	CreatedAt      time.Time  `bson:"created_at"`
	PaymentStatus  string     `bson:"payment_status"`
	DeliveryStatus string     `bson:"delivery_status"`
	TransactionID  string     `bson:"transaction_id,omitempty"`
	PaidAt         *time.Time `bson:"paid_at,omitempty"`
}

func toParcelDoc(p *domain.Parcel) parcelDoc {
	return parcelDoc{
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

func (d parcelDoc) toDomain() (*domain.Parcel, error) {
	id, err := parseID(d.ID)
	if err != nil {
		return nil, err
	}
	p := &domain.Parcel{
		ID:         id,
		TrackingID: d.TrackingID,
		ParcelDetails: domain.ParcelDetails{
			Title:          d.Title,
			Type:           d.Type,
			Weight:         d.Weight,
			SenderName:     d.SenderName,
			SenderRegion:   d.SenderRegion,
			ReceiverName:   d.ReceiverName,
			ReceiverRegion: d.ReceiverRegion,
			Cost:           d.Cost,
		},
		CreatedBy:      d.CreatedBy,
		CreatedAt:      d.CreatedAt.UTC(),
		PaymentStatus:  domain.ParcelPaymentStatus(d.PaymentStatus),
		DeliveryStatus: domain.DeliveryStatus(d.DeliveryStatus),
		TransactionID:  d.TransactionID,
	}
	if d.PaidAt != nil {
		t := d.PaidAt.UTC()
		p.PaidAt = &t
	}
	return p, nil
}

type paymentDoc struct {
	ID            string    `bson:"_id"`
	ParcelID      string    `bson:"parcel_id"`
	Email         string    `bson:"email"`
	Amount        float64   `bson:"amount"`
	PaymentMethod string    `bson:"payment_method"`
	TransactionID string    `bson:"transaction_id"`
	Status        string    `bson:"status"`
	PaidAt        time.Time `bson:"paid_at"`
}

func toPaymentDoc(p *domain.Payment) paymentDoc {
	return paymentDoc{
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

func (d paymentDoc) toDomain() (*domain.Payment, error) {
	id, err := parseID(d.ID)
	if err != nil {
		return nil, err
	}
	parcelID, err := parseID(d.ParcelID)
	if err != nil {
		return nil, err
	}
	return &domain.Payment{
		ID:            id,
		ParcelID:      parcelID,
		Email:         d.Email,
		Amount:        d.Amount,
		PaymentMethod: d.PaymentMethod,
		TransactionID: d.TransactionID,
		Status:        domain.PaymentStatus(d.Status),
		PaidAt:        d.PaidAt.UTC(),
	}, nil
}

type userDoc struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	Role      string    `bson:"role"`
	CreatedAt time.Time `bson:"created_at"`
	LastLogIn time.Time `bson:"last_log_in"`
}

func (d userDoc) toDomain() (*domain.User, error) {
	id, err := parseID(d.ID)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:        id,
		Email:     d.Email,
		Role:      domain.Role(d.Role),
		CreatedAt: d.CreatedAt.UTC(),
		LastLogIn: d.LastLogIn.UTC(),
	}, nil
}

type riderDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Region    string    `bson:"region"`
	District  string    `bson:"district"`
	Phone     string    `bson:"phone"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
}

func toRiderDoc(r *domain.Rider) riderDoc {
	return riderDoc{
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

func (d riderDoc) toDomain() (*domain.Rider, error) {
	id, err := parseID(d.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Rider{
		ID: id,
		RiderProfile: domain.RiderProfile{
			Name:     d.Name,
			Email:    d.Email,
			Region:   d.Region,
			District: d.District,
			Phone:    d.Phone,
		},
		Status:    domain.RiderStatus(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

type trackingDoc struct {
	ID         string    `bson:"_id"`
	TrackingID string    `bson:"tracking_id"`
	ParcelID   string    `bson:"parcel_id,omitempty"`
	Status     string    `bson:"status"`
	Message    string    `bson:"message,omitempty"`
	UpdatedBy  string    `bson:"updated_by"`
	CreatedAt  time.Time `bson:"created_at"`
}

func toTrackingDoc(l *domain.TrackingLog) trackingDoc {
	d := trackingDoc{
		ID:         l.ID.String(),
		TrackingID: l.TrackingID,
		Status:     l.Status,
		Message:    l.Message,
		UpdatedBy:  l.UpdatedBy,
		CreatedAt:  l.CreatedAt,
	}
	if l.ParcelID != nil {
		d.ParcelID = l.ParcelID.String()
	}
	return d
}

func (d trackingDoc) toDomain() (*domain.TrackingLog, error) {
	id, err := parseID(d.ID)
	if err != nil {
		return nil, err
	}
	l := &domain.TrackingLog{
		ID:         id,
		TrackingID: d.TrackingID,
		Status:     d.Status,
		Message:    d.Message,
		UpdatedBy:  d.UpdatedBy,
		CreatedAt:  d.CreatedAt.UTC(),
	}
	if d.ParcelID != "" {
		parcelID, err := parseID(d.ParcelID)
		if err != nil {
			return nil, err
		}
		l.ParcelID = &parcelID
	}
	return l, nil
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("stored id %q is not a UUID: %w", s, err)
	}
	return id, nil
}
