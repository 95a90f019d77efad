package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/events"
	"github.com/phrazzld/parcel-api/internal/mocks"
	"github.com/phrazzld/parcel-api/internal/service"
	"github.com/phrazzld/parcel-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func riderProfile(email string) domain.RiderProfile {
	return domain.RiderProfile{
		Name:     "Dana Rider",
		Email:    email,
		Region:   "Dhaka",
		District: "Gazipur",
		Phone:    "+8801700000000",
	}
}

func TestRiderService_ApplyApproveAndRevoke(t *testing.T) {
	ctx := context.Background()
	mem := mocks.NewMemoryStore()
	emitter := &recordingEmitter{}

	users := newUserService(t, mem, service.Timeouts{})
	_, _, err := users.RegisterUser(ctx, "dana@example.com", "")
	require.NoError(t, err)

	svc := newRiderService(t, mem, mem, emitter, service.Timeouts{})

	rider, err := svc.Apply(ctx, riderProfile("Dana@example.com"))
	require.NoError(t, err)
	assert.Equal(t, domain.RiderPending, rider.Status)

	pending, err := svc.ListByStatus(ctx, domain.RiderPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	updated, err := svc.UpdateStatus(ctx, rider.ID.String(), domain.RiderActive)
	require.NoError(t, err)
	assert.Equal(t, domain.RiderActive, updated.Status)

	role, err := users.GetRole(ctx, "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleRider, role)

	require.Len(t, emitter.events, 1)
	assert.Equal(t, events.TypeRiderStatusChanged, emitter.events[0].Type)

	_, err = svc.UpdateStatus(ctx, rider.ID.String(), domain.RiderDeactivated)
	require.NoError(t, err)
	role, err = users.GetRole(ctx, "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, role)
}

func TestRiderService_UpdateStatusValidation(t *testing.T) {
	ctx := context.Background()
	mem := mocks.NewMemoryStore()
	svc := newRiderService(t, mem, mem, nil, service.Timeouts{})

	_, err := svc.UpdateStatus(ctx, "not-a-uuid", domain.RiderActive)
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.UpdateStatus(ctx, uuid.NewString(), "promoted")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, uuid.NewString(), domain.RiderActive)
	assert.ErrorIs(t, err, store.ErrRiderNotFound)

	_, err = svc.ListByStatus(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestRiderService_AdminKeepsRole(t *testing.T) {
	ctx := context.Background()
	mem := mocks.NewMemoryStore()
	users := &mocks.TestifyMockUserStore{}
	users.On("GetUserByEmail", mock.Anything, "dana@example.com").
		Return(&domain.User{Email: "dana@example.com", Role: domain.RoleAdmin}, nil)

	svc := newRiderService(t, mem, users, nil, service.Timeouts{})
	rider, err := svc.Apply(ctx, riderProfile("dana@example.com"))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, rider.ID.String(), domain.RiderRejected)
	require.NoError(t, err)

	users.AssertNotCalled(t, "UpdateUserRole", mock.Anything, mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}

func TestRiderService_RoleUpdateFailure(t *testing.T) {
	ctx := context.Background()
	mem := mocks.NewMemoryStore()
	cause := errors.New("timeout")
	users := &mocks.TestifyMockUserStore{}
	users.On("GetUserByEmail", mock.Anything, "dana@example.com").
		Return(&domain.User{Email: "dana@example.com", Role: domain.RoleUser}, nil)
	users.On("UpdateUserRole", mock.Anything, "dana@example.com", domain.RoleRider).Return(cause)

	svc := newRiderService(t, mem, users, nil, service.Timeouts{})
	rider, err := svc.Apply(ctx, riderProfile("dana@example.com"))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, rider.ID.String(), domain.RiderActive)
	assert.ErrorIs(t, err, cause)
}
