package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/parcel-api/internal/api/middleware"
	"github.com/phrazzld/parcel-api/internal/api/shared"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/events"
	"github.com/phrazzld/parcel-api/internal/mocks"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/service"
	"github.com/phrazzld/parcel-api/internal/service/authz"
	"github.com/phrazzld/parcel-api/internal/trackingid"
	"github.com/stretchr/testify/require"
)

const (
	aliceEmail = "alice@example.com"
	bobEmail   = "bob@example.com"
	adminEmail = "admin@example.com"

	aliceToken = "alice-token"
	bobToken   = "bob-token"
	adminToken = "admin-token"
)

// testServer wires the real services onto an in-memory store.
type testServer struct {
	t        *testing.T
	mem      *mocks.MemoryStore
	gateway  *mocks.MockPaymentGateway
	verifier *mocks.MockTokenVerifier
	handler  http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log, _ := logger.NewTestLogger(t)
	mem := mocks.NewMemoryStore()
	gateway := &mocks.MockPaymentGateway{ClientSecret: "pi_123_secret_456"}
	verifier := mocks.AcceptTokens(map[string]string{
		aliceToken: aliceEmail,
		bobToken:   bobEmail,
		adminToken: adminEmail,
	})

	admin, err := domain.NewUser(adminEmail, domain.RoleAdmin)
	require.NoError(t, err)
	_, _, err = mem.UpsertUser(context.Background(), admin)
	require.NoError(t, err)

	ids, err := trackingid.NewGenerator(1)
	require.NoError(t, err)

	timeouts := service.Timeouts{Query: time.Second, Gateway: time.Second}
	emitter := events.NewInMemoryEventEmitter(log)
	trackingEvents, err := service.NewTrackingEventHandler(mem, mem, timeouts.Query, log)
	require.NoError(t, err)
	emitter.RegisterHandler(trackingEvents)

	payments, err := service.NewPaymentService(mem, gateway, emitter, timeouts, log)
	require.NoError(t, err)
	parcels, err := service.NewParcelService(mem, ids, emitter, timeouts, log)
	require.NoError(t, err)
	users, err := service.NewUserService(mem, timeouts, log)
	require.NoError(t, err)
	riders, err := service.NewRiderService(mem, mem, emitter, timeouts, log)
	require.NoError(t, err)
	tracking, err := service.NewTrackingService(mem, timeouts, log)
	require.NoError(t, err)
	policy, err := authz.NewPolicy(mem, timeouts.Query)
	require.NoError(t, err)

	handlers := Handlers{
		Payments: NewPaymentHandler(payments, log),
		Parcels:  NewParcelHandler(parcels, log),
		Users:    NewUserHandler(users, log),
		Riders:   NewRiderHandler(riders, log),
		Tracking: NewTrackingHandler(tracking, log),
	}

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(log))
	RegisterRoutes(r, handlers,
		middleware.NewAuthMiddleware(verifier, time.Second, log).Authenticate,
		middleware.RequireRole(policy, domain.RoleAdmin),
	)

	return &testServer{t: t, mem: mem, gateway: gateway, verifier: verifier, handler: r}
}

// do sends a request with an optional JSON body and bearer token.
func (s *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(s.t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

// createParcel creates a parcel through the API and returns its response.
func (s *testServer) createParcel(createdBy string) CreateParcelResponse {
	s.t.Helper()
	w := s.do(http.MethodPost, "/parcels", CreateParcelRequest{
		Title:          "Books",
		Type:           "non-document",
		Weight:         2.5,
		SenderRegion:   "Dhaka",
		ReceiverRegion: "Khulna",
		Cost:           150,
		CreatedBy:      createdBy,
	}, "")
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[CreateParcelResponse](s.t, w)
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[shared.ErrorResponse](t, w).Message
}
