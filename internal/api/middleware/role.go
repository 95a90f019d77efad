package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/phrazzld/parcel-api/internal/api/shared"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/service/authz"
)

const (
	// MsgForbidden is returned when an authenticated principal lacks access.
	MsgForbidden = "forbidden access"

	// MsgRoleLookupUnavailable is returned when the role lookup times out.
	MsgRoleLookupUnavailable = "Service temporarily unavailable"
)

// RequireRole allows the request through only when the authenticated
// principal holds one of roles. It must run after Authenticate.
func RequireRole(policy *authz.Policy, roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r)
			if !ok {
				shared.RespondWithError(w, r, http.StatusUnauthorized, MsgUnauthorized)
				return
			}

			if err := policy.RequireRole(r.Context(), principal, roles...); err != nil {
				if errors.Is(err, authz.ErrForbidden) {
					shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, MsgForbidden, err,
						shared.WithElevatedLogLevel())
					return
				}
				if errors.Is(err, context.DeadlineExceeded) {
					shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
						MsgRoleLookupUnavailable, err)
					return
				}
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"An unexpected error occurred", err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
