package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/parcel-api/internal/api/shared"
	"github.com/phrazzld/parcel-api/internal/platform/logger"
	"github.com/phrazzld/parcel-api/internal/service"
	"github.com/phrazzld/parcel-api/internal/service/authz"
)

// MsgPaymentRecorded confirms a recorded payment.
const MsgPaymentRecorded = "Payment recorded and parcel marked as paid"

// PaymentHandler handles payment intents and payment records.
type PaymentHandler struct {
	payments service.PaymentService
	logger   *slog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(payments service.PaymentService, logger *slog.Logger) *PaymentHandler {
	if payments == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("payments cannot be nil for PaymentHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentHandler{
		payments: payments,
		logger:   logger.With(slog.String("component", "payment_handler")),
	}
}

// CreatePaymentIntent handles POST /create-payment-intent.
func (h *PaymentHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreatePaymentIntentRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequest, err)
		return
	}

	// A missing amount is reported like a zero amount.
	var amount int64
	if req.AmountInCents != nil {
		amount = *req.AmountInCents
	}

	secret, err := h.payments.CreatePaymentIntent(r.Context(), amount)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create payment intent")
		return
	}

	log.Debug("payment intent created", slog.Int64("amount_in_cents", amount))
	shared.RespondWithJSON(w, r, http.StatusOK, CreatePaymentIntentResponse{ClientSecret: secret})
}

// RecordPayment handles POST /payments. The parcel transition and the payment
// insert either both happen or neither does.
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RecordPaymentRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequest, err)
		return
	}

	payment, err := h.payments.RecordPayment(r.Context(), service.RecordPaymentInput{
		ParcelID:      req.ParcelID,
		Email:         req.Email,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record payment")
		return
	}

	log.Debug("payment recorded",
		slog.String("payment_id", payment.ID.String()),
		slog.String("parcel_id", payment.ParcelID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, InsertedResponse{
		InsertedID: payment.ID.String(),
		Message:    MsgPaymentRecorded,
	})
}

// ListPayments handles GET /payments?email=. Only the holder of email may
// read its history; the check runs before any store access.
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principal, ok := requirePrincipal(w, r, log)
	if !ok {
		return
	}

	email := r.URL.Query().Get("email")
	if err := authz.RequireSelf(principal, email); err != nil {
		log.Warn("payment history requested for another user")
		HandleAPIError(w, r, err, "")
		return
	}

	payments, err := h.payments.ListPayments(r.Context(), email)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list payments")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, mapSlice(payments, paymentToResponse))
}
