package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	seen []*DomainEvent
	err  error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *DomainEvent) error {
	h.seen = append(h.seen, event)
	return h.err
}

func TestInMemoryEventEmitter(t *testing.T) {
	event, err := NewDomainEvent(TypeParcelCreated, ParcelCreatedPayload{TrackingID: "PCL-1"})
	require.NoError(t, err)

	t.Run("no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(nil)
		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("all handlers run and first error wins", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(nil)
		firstErr := errors.New("first")
		h1 := &recordingHandler{err: firstErr}
		h2 := &recordingHandler{err: errors.New("second")}
		h3 := &recordingHandler{}
		emitter.RegisterHandler(h1)
		emitter.RegisterHandler(h2)
		emitter.RegisterHandler(h3)

		err := emitter.EmitEvent(context.Background(), event)

		assert.ErrorIs(t, err, firstErr)
		assert.Len(t, h1.seen, 1)
		assert.Len(t, h2.seen, 1)
		assert.Len(t, h3.seen, 1)
		assert.Same(t, event, h3.seen[0])
	})

	t.Run("handler func", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(nil)
		var got string
		emitter.RegisterHandler(EventHandlerFunc(func(_ context.Context, e *DomainEvent) error {
			got = e.Type
			return nil
		}))

		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, TypeParcelCreated, got)
	})
}

func TestNewDomainEvent(t *testing.T) {
	event, err := NewDomainEvent(TypePaymentRecorded, PaymentRecordedPayload{Email: "a@b.com", TransactionID: "pi_1"})
	require.NoError(t, err)
	assert.Equal(t, TypePaymentRecorded, event.Type)
	assert.False(t, event.OccurredAt.IsZero())

	var payload PaymentRecordedPayload
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, "pi_1", payload.TransactionID)

	_, err = NewDomainEvent("bad", make(chan int))
	assert.Error(t, err)
}
