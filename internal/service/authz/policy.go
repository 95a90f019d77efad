// Package authz decides whether a verified principal may act on a resource.
package authz

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/store"
)

// ErrForbidden is returned when an authenticated principal lacks access.
var ErrForbidden = errors.New("forbidden access")

// RequireSelf allows access only when the principal's email equals the
// requested email. Comparison is case-insensitive after trimming.
func RequireSelf(principal *domain.Principal, email string) error {
	if principal == nil || email == "" || !principal.Owns(email) {
		return ErrForbidden
	}
	return nil
}

// RoleLookup resolves the stored role of a user.
type RoleLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Policy evaluates role-based rules against stored user records.
type Policy struct {
	users   RoleLookup
	timeout time.Duration
}

// NewPolicy creates a Policy backed by users. Each role lookup is bounded by
// timeout; zero leaves it unbounded.
func NewPolicy(users RoleLookup, timeout time.Duration) (*Policy, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	return &Policy{users: users, timeout: timeout}, nil
}

// RequireRole allows access when the principal's stored role is one of roles.
// Principals without a user record are forbidden.
func (p *Policy) RequireRole(ctx context.Context, principal *domain.Principal, roles ...domain.Role) error {
	if principal == nil {
		return ErrForbidden
	}

	lookupCtx, cancel := ctx, context.CancelFunc(func() {})
	if p.timeout > 0 {
		lookupCtx, cancel = context.WithTimeout(ctx, p.timeout)
	}
	defer cancel()

	user, err := p.users.GetUserByEmail(lookupCtx, principal.Email)
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrForbidden
		}
		return fmt.Errorf("failed to look up role: %w", err)
	}

	if !slices.Contains(roles, user.Role) {
		logger.FromContext(ctx).Debug("role check failed",
			"role", user.Role,
			"required", roles)
		return ErrForbidden
	}
	return nil
}
