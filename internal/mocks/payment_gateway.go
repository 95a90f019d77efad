package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/parcel-api/internal/service"
)

// MockPaymentGateway implements service.PaymentGateway for testing.
type MockPaymentGateway struct {
	// CreatePaymentIntentFn allows test cases to mock the CreatePaymentIntent behavior
	CreatePaymentIntentFn func(ctx context.Context, amountInCents int64) (string, error)

	// Default values used when CreatePaymentIntentFn isn't set
	ClientSecret string
	Err          error

	mu      sync.Mutex
	amounts []int64
}

var _ service.PaymentGateway = (*MockPaymentGateway)(nil)

// CreatePaymentIntent implements the service.PaymentGateway interface
func (m *MockPaymentGateway) CreatePaymentIntent(ctx context.Context, amountInCents int64) (string, error) {
	m.mu.Lock()
	m.amounts = append(m.amounts, amountInCents)
	m.mu.Unlock()

	if m.CreatePaymentIntentFn != nil {
		return m.CreatePaymentIntentFn(ctx, amountInCents)
	}
	return m.ClientSecret, m.Err
}

// Amounts returns the amounts of every call so far.
func (m *MockPaymentGateway) Amounts() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.amounts...)
}
