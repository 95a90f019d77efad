package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services. The API layer maps them to HTTP
// status codes with errors.Is.
var (
	// ErrInvalidParcelID indicates a parcel identifier that does not parse.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidParcelID = errors.New("invalid parcel ID")

	// ErrPaymentExists indicates the parcel already has a recorded payment.
	// API layer should map this to HTTP 409 Conflict.
	ErrPaymentExists = errors.New("payment already exists")

	// ErrInvalidAmount indicates a non-positive payment intent amount.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidAmount = errors.New("invalid amount")
)

// ServiceError adds the failing operation to an unexpected error.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// GatewayError is a failure reported by the payment gateway. Message is the
// gateway's own description and is safe to return to the client.
type GatewayError struct {
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment gateway error: %s: %v", e.Message, e.Err)
	}
	return "payment gateway error: " + e.Message
}

// Unwrap returns the underlying error.
func (e *GatewayError) Unwrap() error {
	return e.Err
}
