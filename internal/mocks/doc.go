// Package mocks provides shared test doubles for the parcel backend.
//
// Function-field mocks (MockTokenVerifier, MockPaymentGateway) let a test
// script a single call. TestifyMockUserStore works with testify/mock
// expectations. MemoryStore is a mutex-guarded fake of every store interface
// for tests that exercise services or handlers end to end:
//
//	mem := mocks.NewMemoryStore()
//	verifier := &mocks.MockTokenVerifier{
//	    VerifyFn: func(ctx context.Context, token string) (*domain.Principal, error) {
//	        return &domain.Principal{Email: "alice@example.com"}, nil
//	    },
//	}
package mocks
