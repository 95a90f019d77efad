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

// MsgParcelDeleted confirms a deleted parcel.
const MsgParcelDeleted = "Parcel deleted successfully"

// ParcelHandler handles parcel CRUD requests.
type ParcelHandler struct {
	parcels service.ParcelService
	logger  *slog.Logger
}

// NewParcelHandler creates a new ParcelHandler.
func NewParcelHandler(parcels service.ParcelService, logger *slog.Logger) *ParcelHandler {
	if parcels == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("parcels cannot be nil for ParcelHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ParcelHandler{
		parcels: parcels,
		logger:  logger.With(slog.String("component", "parcel_handler")),
	}
}

// ListParcels handles GET /parcels with an optional email filter.
func (h *ParcelHandler) ListParcels(w http.ResponseWriter, r *http.Request) {
	parcels, err := h.parcels.ListParcels(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list parcels")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, mapSlice(parcels, parcelToResponse))
}

// GetParcel handles GET /parcels/{id}.
func (h *ParcelHandler) GetParcel(w http.ResponseWriter, r *http.Request) {
	parcel, err := h.parcels.GetParcel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get parcel")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, parcelToResponse(parcel))
}

// CreateParcel handles POST /parcels.
func (h *ParcelHandler) CreateParcel(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateParcelRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	parcel, err := h.parcels.CreateParcel(r.Context(), req.CreatedBy, domain.ParcelDetails{
		Title:          req.Title,
		Type:           req.Type,
		Weight:         req.Weight,
		SenderName:     req.SenderName,
		SenderRegion:   req.SenderRegion,
		ReceiverName:   req.ReceiverName,
		ReceiverRegion: req.ReceiverRegion,
		Cost:           req.Cost,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create parcel")
		return
	}

	log.Debug("parcel created",
		slog.String("parcel_id", parcel.ID.String()),
		slog.String("tracking_id", parcel.TrackingID))
	shared.RespondWithJSON(w, r, http.StatusCreated, CreateParcelResponse{
		InsertedID: parcel.ID.String(),
		TrackingID: parcel.TrackingID,
	})
}

// DeleteParcel handles DELETE /parcels/{id}.
func (h *ParcelHandler) DeleteParcel(w http.ResponseWriter, r *http.Request) {
	if err := h.parcels.DeleteParcel(r.Context(), chi.URLParam(r, "id")); err != nil {
		HandleAPIError(w, r, err, "Failed to delete parcel")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: MsgParcelDeleted})
}
