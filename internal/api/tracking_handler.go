package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/parcel-api/internal/api/shared"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/service"
)

// TrackingHandler handles the delivery history of parcels.
type TrackingHandler struct {
	tracking service.TrackingService
	logger   *slog.Logger
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(tracking service.TrackingService, logger *slog.Logger) *TrackingHandler {
	if tracking == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("tracking cannot be nil for TrackingHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TrackingHandler{
		tracking: tracking,
		logger:   logger.With(slog.String("component", "tracking_handler")),
	}
}

// AppendLog handles POST /tracking. The entry is attributed to the caller.
func (h *TrackingHandler) AppendLog(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principal, ok := requirePrincipal(w, r, log)
	if !ok {
		return
	}

	var req TrackingRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	entry, err := h.tracking.Append(r.Context(), service.TrackingInput{
		TrackingID: req.TrackingID,
		ParcelID:   req.ParcelID,
		Status:     req.Status,
		Message:    req.Message,
	}, principal.Email)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add tracking update")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, InsertedResponse{InsertedID: entry.ID.String()})
}

// ListLogs handles GET /tracking/{trackingId}.
func (h *TrackingHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.tracking.List(r.Context(), chi.URLParam(r, "trackingId"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tracking updates")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, mapSlice(logs, trackingToResponse))
}
