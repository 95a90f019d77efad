// Package auth verifies bearer tokens and turns them into principals.
package auth

import (
	"context"

	"github.com/phrazzld/parcel-api/internal/domain"
)

// TokenVerifier checks a bearer token with the identity provider.
// Implementations make exactly one verification attempt per call.
type TokenVerifier interface {
	// Verify returns the principal for token, or an error matching one of the
	// package's sentinels. Rejected tokens satisfy IsRejection.
	Verify(ctx context.Context, token string) (*domain.Principal, error)
}

// TokenIssuer mints tokens that a TokenVerifier accepts. It exists for local
// development and tests; production tokens come from the identity provider.
type TokenIssuer interface {
	IssueToken(ctx context.Context, subject, email string) (string, error)
}
