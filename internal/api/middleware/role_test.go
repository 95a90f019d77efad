package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/parcel-api/internal/api/shared"
	"github.com/phrazzld/parcel-api/internal/config"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/mocks"
	"github.com/phrazzld/parcel-api/internal/service/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "middleware-test-secret-of-32-characters",
		TokenLifetimeMinutes: 60,
	}
}

func TestRequireRole(t *testing.T) {
	mem := mocks.NewMemoryStore()
	for email, role := range map[string]domain.Role{
		"admin@example.com": domain.RoleAdmin,
		"user@example.com":  domain.RoleUser,
	} {
		u, err := domain.NewUser(email, role)
		require.NoError(t, err)
		_, _, err = mem.UpsertUser(context.Background(), u)
		require.NoError(t, err)
	}
	policy, err := authz.NewPolicy(mem, time.Second)
	require.NoError(t, err)
	mw := RequireRole(policy, domain.RoleAdmin)
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	serve := func(p *domain.Principal) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/riders/pending", nil)
		if p != nil {
			req = req.WithContext(shared.WithPrincipal(req.Context(), p))
		}
		w := httptest.NewRecorder()
		mw(ok).ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusNoContent, serve(&domain.Principal{Email: "admin@example.com"}).Code)
	assert.Equal(t, http.StatusForbidden, serve(&domain.Principal{Email: "user@example.com"}).Code)
	assert.Equal(t, http.StatusForbidden, serve(&domain.Principal{Email: "ghost@example.com"}).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(nil).Code)

	mem.Err = assert.AnError
	assert.Equal(t, http.StatusInternalServerError, serve(&domain.Principal{Email: "admin@example.com"}).Code)
}

type stalledLookup struct{}

func (stalledLookup) GetUserByEmail(ctx context.Context, _ string) (*domain.User, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRequireRole_LookupTimeout(t *testing.T) {
	policy, err := authz.NewPolicy(stalledLookup{}, 20*time.Millisecond)
	require.NoError(t, err)
	mw := RequireRole(policy, domain.RoleAdmin)
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("handler must not run when the role lookup times out")
	})

	req := httptest.NewRequest(http.MethodGet, "/riders/pending", nil)
	req = req.WithContext(shared.WithPrincipal(req.Context(), &domain.Principal{Email: "admin@example.com"}))
	w := httptest.NewRecorder()

	start := time.Now()
	mw(next).ServeHTTP(w, req)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), MsgRoleLookupUnavailable)
}
