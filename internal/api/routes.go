package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes.
type Handlers struct {
	Payments *PaymentHandler
	Parcels  *ParcelHandler
	Users    *UserHandler
	Riders   *RiderHandler
	Tracking *TrackingHandler
}

// RegisterRoutes mounts the parcel API on r. authenticate guards routes that
// need a verified principal; adminOnly is applied on top of it for rider
// review routes.
func RegisterRoutes(
	r chi.Router,
	h Handlers,
	authenticate func(http.Handler) http.Handler,
	adminOnly func(http.Handler) http.Handler,
) {
	// Public routes
	r.Post("/create-payment-intent", h.Payments.CreatePaymentIntent)
	r.Post("/payments", h.Payments.RecordPayment)

	r.Get("/parcels", h.Parcels.ListParcels)
	r.Post("/parcels", h.Parcels.CreateParcel)
	r.Get("/parcels/{id}", h.Parcels.GetParcel)
	r.Delete("/parcels/{id}", h.Parcels.DeleteParcel)

	r.Post("/users", h.Users.RegisterUser)
	r.Get("/tracking/{trackingId}", h.Tracking.ListLogs)

	// Routes that need a verified principal
	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/payments", h.Payments.ListPayments)
		r.Get("/users/{email}/role", h.Users.GetRole)
		r.Post("/riders", h.Riders.Apply)
		r.Post("/tracking", h.Tracking.AppendLog)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Get("/riders/pending", h.Riders.ListPending)
			r.Get("/riders/active", h.Riders.ListActive)
			r.Patch("/riders/{id}/status", h.Riders.UpdateStatus)
		})
	})
}
