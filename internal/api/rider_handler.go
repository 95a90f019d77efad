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

// MsgRiderStatusUpdated confirms a rider status change.
const MsgRiderStatusUpdated = "Rider status updated"

// RiderHandler handles rider applications and their review.
type RiderHandler struct {
	riders service.RiderService
	logger *slog.Logger
}

// NewRiderHandler creates a new RiderHandler.
func NewRiderHandler(riders service.RiderService, logger *slog.Logger) *RiderHandler {
	if riders == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("riders cannot be nil for RiderHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RiderHandler{
		riders: riders,
		logger: logger.With(slog.String("component", "rider_handler")),
	}
}

// Apply handles POST /riders.
func (h *RiderHandler) Apply(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if _, ok := requirePrincipal(w, r, log); !ok {
		return
	}

	var req RiderApplicationRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	rider, err := h.riders.Apply(r.Context(), domain.RiderProfile{
		Name:     req.Name,
		Email:    req.Email,
		Region:   req.Region,
		District: req.District,
		Phone:    req.Phone,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit rider application")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, InsertedResponse{InsertedID: rider.ID.String()})
}

// ListPending handles GET /riders/pending.
func (h *RiderHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, domain.RiderPending)
}

// ListActive handles GET /riders/active.
func (h *RiderHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, domain.RiderActive)
}

func (h *RiderHandler) listByStatus(w http.ResponseWriter, r *http.Request, status domain.RiderStatus) {
	riders, err := h.riders.ListByStatus(r.Context(), status)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list riders")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, mapSlice(riders, riderToResponse))
}

// UpdateStatus handles PATCH /riders/{id}/status.
func (h *RiderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RiderStatusRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	rider, err := h.riders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.RiderStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update rider status")
		return
	}

	log.Info("rider status updated",
		slog.String("rider_id", rider.ID.String()),
		slog.String("status", string(rider.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: MsgRiderStatusUpdated})
}
