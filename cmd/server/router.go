package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/parcel-api/internal/api"
	apiMiddleware "github.com/phrazzld/parcel-api/internal/api/middleware"
	"github.com/phrazzld/parcel-api/internal/api/shared"
	"github.com/phrazzld/parcel-api/internal/domain"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const healthCheckTimeout = 2 * time.Second

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.verifier, app.config.Auth.VerifyTimeout, app.logger)
	api.RegisterRoutes(r, app.handlers(),
		authMiddleware.Authenticate,
		apiMiddleware.RequireRole(app.policy, domain.RoleAdmin),
	)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := w.Write([]byte("Parcel server is running")); err != nil {
			app.logger.Error("failed to write root response", "error", err)
		}
	})

	r.Get("/health", app.healthCheck)

	return r
}

// healthCheck reports whether the database answers.
func (app *application) healthCheck(w http.ResponseWriter, r *http.Request) {
	if app.stores.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := app.stores.Ping(ctx); err != nil {
			app.logger.Error("health check failed", "error", err)
			shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, HealthResponse{
				Success: false,
				Message: "Database unavailable",
			})
			return
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Success: true, Message: "Server is healthy"})
}
