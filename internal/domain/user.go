package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role grants access to role-guarded operations.
type Role string

const (
	RoleUser  Role = "user"
	RoleRider Role = "rider"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleRider, RoleAdmin:
		return true
	}
	return false
}

// User is an account keyed by email. Identity itself is owned by the token
// provider; this record only carries the role and login bookkeeping.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	LastLogIn time.Time `json:"last_log_in"`
}

// NewUser creates a User. An empty role defaults to RoleUser.
func NewUser(email string, role Role) (*User, error) {
	if role == "" {
		role = RoleUser
	}
	now := time.Now().UTC()
	u := &User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		Role:      role,
		CreatedAt: now,
		LastLogIn: now,
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if err := ValidateEmail(u.Email); err != nil {
		return NewValidationError("email", err.Error(), err)
	}
	if !u.Role.Valid() {
		return NewValidationError("role", "must be one of user, rider, admin", ErrInvalidRole)
	}
	return nil
}
