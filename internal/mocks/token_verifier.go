package mocks

import (
	"context"

	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/service/auth"
)

// MockTokenVerifier implements auth.TokenVerifier for testing.
type MockTokenVerifier struct {
	// VerifyFn allows test cases to mock the Verify behavior
	VerifyFn func(ctx context.Context, token string) (*domain.Principal, error)

	// Default values used when VerifyFn isn't set
	Principal *domain.Principal
	Err       error

	// Calls counts Verify invocations.
	Calls int
}

var _ auth.TokenVerifier = (*MockTokenVerifier)(nil)

// Verify implements the auth.TokenVerifier interface
func (m *MockTokenVerifier) Verify(ctx context.Context, token string) (*domain.Principal, error) {
	m.Calls++
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, token)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Principal, nil
}

// AcceptTokens returns a verifier that maps each known token to a principal
// with that email and rejects everything else.
func AcceptTokens(tokens map[string]string) *MockTokenVerifier {
	return &MockTokenVerifier{
		VerifyFn: func(_ context.Context, token string) (*domain.Principal, error) {
			email, ok := tokens[token]
			if !ok {
				return nil, auth.ErrInvalidToken
			}
			return &domain.Principal{Subject: "uid-" + email, Email: email}, nil
		},
	}
}
