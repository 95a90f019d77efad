package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/parcel-api/internal/api/shared"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/service/auth"
)

// Messages returned by the authentication middleware.
const (
	MsgUnauthorized        = "unauthorized access"
	MsgVerifierUnavailable = "identity verification unavailable"
)

// AuthMiddleware verifies bearer tokens for protected routes.
type AuthMiddleware struct {
	verifier auth.TokenVerifier
	timeout  time.Duration
	logger   *slog.Logger
}

// NewAuthMiddleware creates an AuthMiddleware. A positive timeout bounds each
// verification call.
func NewAuthMiddleware(verifier auth.TokenVerifier, timeout time.Duration, logger *slog.Logger) *AuthMiddleware {
	if verifier == nil {
		panic("verifier cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		verifier: verifier,
		timeout:  timeout,
		logger:   logger.With("component", "auth_middleware"),
	}
}

// Authenticate verifies the bearer token exactly once and stores the
// principal on the request context. Any rejection yields 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgUnauthorized, auth.ErrMissingToken)
			return
		}

		ctx := r.Context()
		if m.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, m.timeout)
			defer cancel()
		}

		principal, err := m.verifier.Verify(ctx, token)
		if err != nil {
			if auth.IsRejection(err) {
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgUnauthorized, err,
					shared.WithElevatedLogLevel())
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, MsgVerifierUnavailable, err)
			return
		}
		if principal == nil || principal.Email == "" {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgUnauthorized, auth.ErrMissingEmail)
			return
		}

		logger.FromContextOrDefault(r.Context(), m.logger).Debug("request authenticated",
			"subject", principal.Subject)

		next.ServeHTTP(w, r.WithContext(shared.WithPrincipal(r.Context(), principal)))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetPrincipal extracts the verified principal from the request context.
func GetPrincipal(r *http.Request) (*domain.Principal, bool) {
	return shared.GetPrincipal(r.Context())
}
