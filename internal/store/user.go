package store

import (
	"context"

	"github.com/phrazzld/parcel-api/internal/domain"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	// UpsertUser inserts user, or refreshes last_log_in when the email exists.
	// The returned user is the stored record; created reports whether it was new.
	UpsertUser(ctx context.Context, user *domain.User) (stored *domain.User, created bool, err error)

	// GetUserByEmail returns ErrUserNotFound when absent.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateUserRole sets the role of the user with email.
	// Returns ErrUserNotFound when absent.
	UpdateUserRole(ctx context.Context, email string, role domain.Role) error
}
