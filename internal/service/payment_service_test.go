package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/events"
	"github.com/phrazzld/parcel-api/internal/mocks"
	"github.com/phrazzld/parcel-api/internal/service"
	"github.com/phrazzld/parcel-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPaymentStore scripts RecordPayment and counts calls.
type stubPaymentStore struct {
	mu     sync.Mutex
	calls  int
	result store.TransitionResult
	err    error
}

func (s *stubPaymentStore) RecordPayment(_ context.Context, p *domain.Payment) (store.TransitionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.result.Outcome == store.TransitionApplied {
		return store.Applied(p.ID), s.err
	}
	return s.result, s.err
}

func (s *stubPaymentStore) ListPaymentsByEmail(context.Context, string) ([]*domain.Payment, error) {
	return nil, s.err
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.DomainEvent
	err    error
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.DomainEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return e.err
}

func validInput(parcelID string) service.RecordPaymentInput {
	return service.RecordPaymentInput{
		ParcelID:      parcelID,
		Email:         "alice@example.com",
		Amount:        150,
		PaymentMethod: "card",
		TransactionID: "pi_123",
	}
}

func seedParcel(t *testing.T, mem *mocks.MemoryStore) *domain.Parcel {
	t.Helper()
	parcel, err := domain.NewParcel("alice@example.com", domain.ParcelDetails{Title: "Documents", Cost: 150}, "PCL-42")
	require.NoError(t, err)
	require.NoError(t, mem.CreateParcel(context.Background(), parcel))
	return parcel
}

func TestCreatePaymentIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("non-positive amounts are rejected before the gateway", func(t *testing.T) {
		gw := &mocks.MockPaymentGateway{ClientSecret: "secret"}
		svc := newPaymentService(t, &stubPaymentStore{}, gw, nil, service.Timeouts{})

		for _, amount := range []int64{0, -1, -5000} {
			_, err := svc.CreatePaymentIntent(ctx, amount)
			assert.ErrorIs(t, err, service.ErrInvalidAmount)
		}
		assert.Empty(t, gw.Amounts())
	})

	t.Run("success returns the client secret", func(t *testing.T) {
		gw := &mocks.MockPaymentGateway{ClientSecret: "pi_1_secret_abc"}
		svc := newPaymentService(t, &stubPaymentStore{}, gw, nil, service.Timeouts{})

		secret, err := svc.CreatePaymentIntent(ctx, 1500)
		require.NoError(t, err)
		assert.Equal(t, "pi_1_secret_abc", secret)
		assert.Equal(t, []int64{1500}, gw.Amounts())
	})

	t.Run("gateway error keeps the gateway message", func(t *testing.T) {
		gw := &mocks.MockPaymentGateway{Err: &service.GatewayError{Message: "Your card was declined."}}
		svc := newPaymentService(t, &stubPaymentStore{}, gw, nil, service.Timeouts{})

		_, err := svc.CreatePaymentIntent(ctx, 1500)
		var gwErr *service.GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.Equal(t, "Your card was declined.", gwErr.Message)
	})

	t.Run("transport error is wrapped", func(t *testing.T) {
		cause := errors.New("dial tcp: timeout")
		gw := &mocks.MockPaymentGateway{Err: cause}
		svc := newPaymentService(t, &stubPaymentStore{}, gw, nil, service.Timeouts{})

		_, err := svc.CreatePaymentIntent(ctx, 1500)
		assert.ErrorIs(t, err, cause)
		var svcErr *service.ServiceError
		assert.ErrorAs(t, err, &svcErr)
	})
}

func TestRecordPayment_InvalidInputNeverReachesStore(t *testing.T) {
	ctx := context.Background()
	payments := &stubPaymentStore{}
	svc := newPaymentService(t, payments, &mocks.MockPaymentGateway{}, nil, service.Timeouts{})

	for _, id := range []string{"", "abc", "12345", "00000000-0000-0000-0000-000000000000"} {
		_, err := svc.RecordPayment(ctx, validInput(id))
		assert.ErrorIs(t, err, service.ErrInvalidParcelID, id)
	}

	in := validInput(uuid.NewString())
	in.Amount = 0
	_, err := svc.RecordPayment(ctx, in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = validInput(uuid.NewString())
	in.Email = "not-an-email"
	_, err = svc.RecordPayment(ctx, in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Zero(t, payments.calls)
}

func TestRecordPayment_Outcomes(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("connection refused")

	tests := []struct {
		name    string
		result  store.TransitionResult
		err     error
		wantErr error
		emitted int
	}{
		{name: "applied", result: store.TransitionResult{Outcome: store.TransitionApplied}, emitted: 1},
		{name: "already paid", result: store.AlreadyPaid(), wantErr: service.ErrPaymentExists},
		{name: "parcel missing", result: store.ParcelMissing(), wantErr: store.ErrParcelNotFound},
		{name: "store failure", err: storeErr, wantErr: storeErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emitter := &recordingEmitter{}
			svc := newPaymentService(t, &stubPaymentStore{result: tt.result, err: tt.err}, &mocks.MockPaymentGateway{}, emitter, service.Timeouts{})

			payment, err := svc.RecordPayment(ctx, validInput(uuid.NewString()))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, payment)
			} else {
				require.NoError(t, err)
				assert.Equal(t, domain.PaymentSucceeded, payment.Status)
				assert.NotEqual(t, uuid.Nil, payment.ID)
			}
			assert.Len(t, emitter.events, tt.emitted)
		})
	}
}

func TestRecordPayment_EndToEndWithMemoryStore(t *testing.T) {
	ctx := context.Background()
	mem := mocks.NewMemoryStore()
	parcel := seedParcel(t, mem)

	emitter := &recordingEmitter{err: errors.New("handler down")}
	svc := newPaymentService(t, mem, &mocks.MockPaymentGateway{}, emitter, service.Timeouts{})

	payment, err := svc.RecordPayment(ctx, validInput(parcel.ID.String()))
	require.NoError(t, err, "handler failures must not fail a committed payment")
	require.Len(t, emitter.events, 1)
	assert.Equal(t, events.TypePaymentRecorded, emitter.events[0].Type)

	stored, err := mem.GetParcel(ctx, parcel.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ParcelPaid, stored.PaymentStatus)
	assert.Equal(t, "pi_123", stored.TransactionID)

	_, err = svc.RecordPayment(ctx, validInput(parcel.ID.String()))
	assert.ErrorIs(t, err, service.ErrPaymentExists)
	assert.Equal(t, 1, mem.PaymentCount(parcel.ID))

	history, err := svc.ListPayments(ctx, " ALICE@example.com")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, payment.ID, history[0].ID)
}

func TestRecordPayment_ConcurrentSameParcel(t *testing.T) {
	ctx := context.Background()
	mem := mocks.NewMemoryStore()
	parcel := seedParcel(t, mem)
	svc := newPaymentService(t, mem, &mocks.MockPaymentGateway{}, nil, service.Timeouts{})

	const attempts = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.RecordPayment(ctx, validInput(parcel.ID.String()))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, service.ErrPaymentExists):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
	assert.Equal(t, 1, mem.PaymentCount(parcel.ID))
}

func TestRecordPayment_CancelledContextWritesNothing(t *testing.T) {
	mem := mocks.NewMemoryStore()
	parcel := seedParcel(t, mem)
	svc := newPaymentService(t, mem, &mocks.MockPaymentGateway{}, nil, service.Timeouts{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.RecordPayment(ctx, validInput(parcel.ID.String()))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, mem.PaymentCount(parcel.ID))
}
