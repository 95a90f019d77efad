package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RiderStatus is the lifecycle state of a rider application.
type RiderStatus string

const (
	RiderPending     RiderStatus = "pending"
	RiderActive      RiderStatus = "active"
	RiderRejected    RiderStatus = "rejected"
	RiderDeactivated RiderStatus = "deactivated"
)

// Valid reports whether s is a known rider status.
func (s RiderStatus) Valid() bool {
	switch s {
	case RiderPending, RiderActive, RiderRejected, RiderDeactivated:
		return true
	}
	return false
}

// RiderProfile holds the fields a rider applicant submits.
type RiderProfile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Region   string `json:"region"`
	District string `json:"district"`
	Phone    string `json:"phone"`
}

// Rider is a delivery rider. Applications start pending and are approved or
// rejected by an admin.
type Rider struct {
	ID uuid.UUID `json:"id"`
	RiderProfile
	Status    RiderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewRider creates a pending rider application.
func NewRider(profile RiderProfile) (*Rider, error) {
	profile.Email = NormalizeEmail(profile.Email)
	profile.Name = strings.TrimSpace(profile.Name)

	r := &Rider{
		ID:           uuid.New(),
		RiderProfile: profile,
		Status:       RiderPending,
		CreatedAt:    time.Now().UTC(),
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks if the Rider has valid data.
func (r *Rider) Validate() error {
	if r.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if r.Name == "" {
		return NewValidationError("name", "cannot be empty", ErrEmptyContent)
	}
	if err := ValidateEmail(r.Email); err != nil {
		return NewValidationError("email", err.Error(), err)
	}
	if strings.TrimSpace(r.Region) == "" {
		return NewValidationError("region", "cannot be empty", ErrEmptyContent)
	}
	if !r.Status.Valid() {
		return NewValidationError("status", "must be pending, active, rejected or deactivated", ErrInvalidStatus)
	}
	return nil
}

// RoleFor returns the user role implied by a rider status.
func (s RiderStatus) RoleFor() Role {
	if s == RiderActive {
		return RoleRider
	}
	return RoleUser
}
