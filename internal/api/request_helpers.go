package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/parcel-api/internal/api/middleware"
	"github.com/phrazzld/parcel-api/internal/api/shared"
	"github.com/phrazzld/parcel-api/internal/domain"
)

// decodeAndValidate reads the JSON body into v and checks its struct tags.
// It writes a 400 response and returns false when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}, log *slog.Logger) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		log.Debug("invalid request body", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequest, err)
		return false
	}

	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}

	return true
}

// requirePrincipal returns the authenticated principal, or writes a 401
// response and returns false when the auth middleware did not run.
func requirePrincipal(w http.ResponseWriter, r *http.Request, log *slog.Logger) (*domain.Principal, bool) {
	principal, ok := middleware.GetPrincipal(r)
	if !ok {
		log.Warn("principal not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, middleware.MsgUnauthorized)
		return nil, false
	}
	return principal, true
}
