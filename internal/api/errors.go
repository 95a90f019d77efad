package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/parcel-api/internal/api/middleware"
	"github.com/phrazzld/parcel-api/internal/api/shared"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/service"
	"github.com/phrazzld/parcel-api/internal/service/auth"
	"github.com/phrazzld/parcel-api/internal/service/authz"
	"github.com/phrazzld/parcel-api/internal/store"
)

// Client-facing messages with fixed wording.
const (
	MsgInvalidParcelID = "Invalid parcel ID"
	MsgInvalidAmount   = "Invalid amount"
	MsgPaymentExists   = "Payment already exists"
	MsgParcelNotFound  = "Parcel not found"
	MsgInvalidRequest  = "Invalid request format"
	MsgUnexpected      = "An unexpected error occurred"
)

// ErrorKind classifies err into the closed set of domain error kinds.
func ErrorKind(err error) domain.ErrorKind {
	var gwErr *service.GatewayError
	switch {
	case err == nil:
		return domain.KindInternal

	case auth.IsRejection(err):
		return domain.KindUnauthenticated

	case errors.Is(err, authz.ErrForbidden):
		return domain.KindForbidden

	case errors.Is(err, service.ErrInvalidParcelID),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody):
		return domain.KindInvalidArgument

	case store.IsNotFoundError(err):
		return domain.KindNotFound

	case errors.Is(err, service.ErrPaymentExists),
		errors.Is(err, store.ErrParcelPaid),
		store.IsDuplicateError(err):
		return domain.KindAlreadyExists

	case errors.As(err, &gwErr):
		return domain.KindInternal

	case errors.Is(err, auth.ErrVerifierUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return domain.KindUnavailable

	default:
		return domain.KindInternal
	}
}

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch ErrorKind(err) {
	case domain.KindInvalidArgument:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindAlreadyExists:
		return http.StatusConflict
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpected
	}

	var (
		gwErr *service.GatewayError
		vErr  *domain.ValidationError
	)
	switch {
	case auth.IsRejection(err):
		return middleware.MsgUnauthorized
	case errors.Is(err, authz.ErrForbidden):
		return middleware.MsgForbidden

	case errors.Is(err, service.ErrInvalidParcelID):
		return MsgInvalidParcelID
	case errors.Is(err, service.ErrInvalidAmount):
		return MsgInvalidAmount
	case errors.As(err, &vErr):
		return fmt.Sprintf("Invalid %s: %s", vErr.Field, vErr.Message)
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, store.ErrParcelNotFound):
		return MsgParcelNotFound
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrRiderNotFound):
		return "Rider not found"

	case errors.Is(err, service.ErrPaymentExists),
		errors.Is(err, store.ErrPaymentExists):
		return MsgPaymentExists
	case errors.Is(err, store.ErrParcelPaid):
		return "Paid parcels cannot be deleted"
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.As(err, &gwErr):
		return gwErr.Message

	case errors.Is(err, auth.ErrVerifierUnavailable):
		return middleware.MsgVerifierUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return "Service temporarily unavailable"

	default:
		return MsgUnexpected
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted details. fallback, when non-empty, replaces the generic message
// of a 500 response.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	if status == http.StatusInternalServerError && message == MsgUnexpected && fallback != "" {
		message = fallback
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError turns validator output into a short message that
// names the first failing field.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Validation error"
	}

	fe := fieldErrs[0]
	field := fe.Field()
	if field != "" {
		field = strings.ToLower(field[:1]) + field[1:]
	}
	return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "gt", "gte", "min":
		return "too small"
	case "max", "lt", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
