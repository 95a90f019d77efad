package mocks

import (
	"context"

	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockUserStore is a mock of store.UserStore for use with testify/mock.
type TestifyMockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*TestifyMockUserStore)(nil)

// UpsertUser is a mock implementation of store.UserStore.UpsertUser
func (m *TestifyMockUserStore) UpsertUser(ctx context.Context, user *domain.User) (*domain.User, bool, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

// GetUserByEmail is a mock implementation of store.UserStore.GetUserByEmail
func (m *TestifyMockUserStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateUserRole is a mock implementation of store.UserStore.UpdateUserRole
func (m *TestifyMockUserStore) UpdateUserRole(ctx context.Context, email string, role domain.Role) error {
	args := m.Called(ctx, email, role)
	return args.Error(0)
}
