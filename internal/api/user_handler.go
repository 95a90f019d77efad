package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/parcel-api/internal/api/shared"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/service"
)

// MsgUserExists is returned when POST /users finds an existing account.
const MsgUserExists = "User already exists"

// UserHandler handles user registration and role lookups.
type UserHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, logger *slog.Logger) *UserHandler {
	if users == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("users cannot be nil for UserHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		users:  users,
		logger: logger.With(slog.String("component", "user_handler")),
	}
}

// RegisterUser handles POST /users. A new account answers 201, a returning
// one 200 with its last login refreshed.
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterUserRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	user, created, err := h.users.RegisterUser(r.Context(), req.Email, domain.Role(req.Role))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register user")
		return
	}

	if !created {
		shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: MsgUserExists})
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, InsertedResponse{InsertedID: user.ID.String()})
}

// GetRole handles GET /users/{email}/role.
func (h *UserHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.users.GetRole(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user role")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, RoleResponse{Role: string(role)})
}
