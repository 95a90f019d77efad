package api

import (
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/parcel-api/internal/api/middleware"
	"github.com/phrazzld/parcel-api/internal/domain"
	"github.com/phrazzld/parcel-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paymentRequest(parcelID string) RecordPaymentRequest {
	return RecordPaymentRequest{
		ParcelID:      parcelID,
		Email:         aliceEmail,
		Amount:        150,
		PaymentMethod: "card",
		TransactionID: "pi_3PabcXYZ",
	}
}

func TestCreatePaymentIntent(t *testing.T) {
	t.Run("returns the client secret", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(http.MethodPost, "/create-payment-intent", map[string]int64{"amountInCents": 1500}, "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pi_123_secret_456", decodeBody[CreatePaymentIntentResponse](t, w).ClientSecret)
		assert.Equal(t, []int64{1500}, s.gateway.Amounts())
	})

	for name, body := range map[string]interface{}{
		"zero amount":     map[string]int64{"amountInCents": 0},
		"negative amount": map[string]int64{"amountInCents": -100},
		"missing amount":  map[string]string{},
	} {
		t.Run(name, func(t *testing.T) {
			s := newTestServer(t)
			w := s.do(http.MethodPost, "/create-payment-intent", body, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, MsgInvalidAmount, errorMessage(t, w))
			assert.Empty(t, s.gateway.Amounts(), "gateway must not be called")
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(http.MethodPost, "/create-payment-intent", "{not json", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, MsgInvalidRequest, errorMessage(t, w))
	})

	t.Run("gateway message is surfaced", func(t *testing.T) {
		s := newTestServer(t)
		s.gateway.Err = &service.GatewayError{Message: "Your card was declined.", Err: assert.AnError}

		w := s.do(http.MethodPost, "/create-payment-intent", map[string]int64{"amountInCents": 1500}, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Your card was declined.", errorMessage(t, w))
	})

	t.Run("transport failure is generic", func(t *testing.T) {
		s := newTestServer(t)
		s.gateway.Err = assert.AnError

		w := s.do(http.MethodPost, "/create-payment-intent", map[string]int64{"amountInCents": 1500}, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to create payment intent", errorMessage(t, w))
	})
}

func TestRecordPayment(t *testing.T) {
	t.Run("first payment is recorded then duplicates conflict", func(t *testing.T) {
		s := newTestServer(t)
		parcel := s.createParcel(aliceEmail)

		w := s.do(http.MethodPost, "/payments", paymentRequest(parcel.InsertedID), "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := decodeBody[InsertedResponse](t, w)
		assert.NotEmpty(t, resp.InsertedID)
		assert.Equal(t, MsgPaymentRecorded, resp.Message)

		w = s.do(http.MethodGet, "/parcels/"+parcel.InsertedID, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		got := decodeBody[ParcelResponse](t, w)
		assert.Equal(t, string(domain.ParcelPaid), got.PaymentStatus)
		assert.Equal(t, "pi_3PabcXYZ", got.TransactionID)
		assert.NotNil(t, got.PaidAt)

		w = s.do(http.MethodPost, "/payments", paymentRequest(parcel.InsertedID), "")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, MsgPaymentExists, errorMessage(t, w))
		assert.Equal(t, 1, s.mem.PaymentCount(uuid.MustParse(parcel.InsertedID)))
	})

	t.Run("payment is appended to the tracking history", func(t *testing.T) {
		s := newTestServer(t)
		parcel := s.createParcel(aliceEmail)

		w := s.do(http.MethodPost, "/payments", paymentRequest(parcel.InsertedID), "")
		require.Equal(t, http.StatusCreated, w.Code)

		w = s.do(http.MethodGet, "/tracking/"+parcel.TrackingID, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		logs := decodeBody[[]TrackingLogResponse](t, w)
		require.Len(t, logs, 2)
		assert.Equal(t, domain.TrackingParcelCreated, logs[0].Status)
		assert.Equal(t, domain.TrackingPaymentDone, logs[1].Status)
		assert.Contains(t, logs[1].Message, "pi_3PabcXYZ")
	})

	t.Run("malformed parcel id never reaches the store", func(t *testing.T) {
		s := newTestServer(t)
		s.mem.Err = assert.AnError

		for _, id := range []string{"", "not-a-uuid", "12345", uuid.Nil.String()} {
			w := s.do(http.MethodPost, "/payments", paymentRequest(id), "")
			assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", id)
			assert.Equal(t, MsgInvalidParcelID, errorMessage(t, w), "id %q", id)
		}
	})

	t.Run("unknown parcel", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(http.MethodPost, "/payments", paymentRequest(uuid.NewString()), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, MsgParcelNotFound, errorMessage(t, w))
	})

	t.Run("invalid fields", func(t *testing.T) {
		s := newTestServer(t)
		parcel := s.createParcel(aliceEmail)

		req := paymentRequest(parcel.InsertedID)
		req.Amount = 0
		w := s.do(http.MethodPost, "/payments", req, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.True(t, strings.HasPrefix(errorMessage(t, w), "Invalid amount"))

		req = paymentRequest(parcel.InsertedID)
		req.TransactionID = ""
		w = s.do(http.MethodPost, "/payments", req, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		assert.Equal(t, 0, s.mem.PaymentCount(uuid.MustParse(parcel.InsertedID)))
	})

	t.Run("store failure", func(t *testing.T) {
		s := newTestServer(t)
		parcel := s.createParcel(aliceEmail)
		s.mem.Err = assert.AnError

		w := s.do(http.MethodPost, "/payments", paymentRequest(parcel.InsertedID), "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to record payment", errorMessage(t, w))
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})

	t.Run("concurrent payments for one parcel", func(t *testing.T) {
		s := newTestServer(t)
		parcel := s.createParcel(aliceEmail)

		const attempts = 16
		codes := make([]int, attempts)
		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				codes[i] = s.do(http.MethodPost, "/payments", paymentRequest(parcel.InsertedID), "").Code
			}(i)
		}
		wg.Wait()

		created, conflicts := 0, 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicts++
			}
		}
		assert.Equal(t, 1, created)
		assert.Equal(t, attempts-1, conflicts)
		assert.Equal(t, 1, s.mem.PaymentCount(uuid.MustParse(parcel.InsertedID)))
	})
}

func TestListPayments(t *testing.T) {
	s := newTestServer(t)
	parcel := s.createParcel(aliceEmail)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/payments", paymentRequest(parcel.InsertedID), "").Code)

	t.Run("requires a bearer token", func(t *testing.T) {
		w := s.do(http.MethodGet, "/payments?email="+aliceEmail, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, middleware.MsgUnauthorized, errorMessage(t, w))
	})

	t.Run("rejects unknown tokens", func(t *testing.T) {
		w := s.do(http.MethodGet, "/payments?email="+aliceEmail, nil, "forged")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, middleware.MsgUnauthorized, errorMessage(t, w))
	})

	t.Run("returns own history", func(t *testing.T) {
		w := s.do(http.MethodGet, "/payments?email="+aliceEmail, nil, aliceToken)
		require.Equal(t, http.StatusOK, w.Code)
		payments := decodeBody[[]PaymentResponse](t, w)
		require.Len(t, payments, 1)
		assert.Equal(t, parcel.InsertedID, payments[0].ParcelID)
		assert.Equal(t, string(domain.PaymentSucceeded), payments[0].Status)
	})

	t.Run("email match ignores case", func(t *testing.T) {
		w := s.do(http.MethodGet, "/payments?email=Alice@Example.com", nil, aliceToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeBody[[]PaymentResponse](t, w), 1)
	})

	t.Run("forbids other users", func(t *testing.T) {
		w := s.do(http.MethodGet, "/payments?email="+aliceEmail, nil, bobToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, middleware.MsgForbidden, errorMessage(t, w))
		assert.NotContains(t, w.Body.String(), parcel.InsertedID)
	})

	t.Run("forbids a missing email", func(t *testing.T) {
		w := s.do(http.MethodGet, "/payments", nil, aliceToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestListPaymentsForbiddenBeforeStoreAccess(t *testing.T) {
	s := newTestServer(t)
	s.mem.Err = assert.AnError

	w := s.do(http.MethodGet, "/payments?email="+aliceEmail, nil, bobToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/payments?email="+aliceEmail, nil, aliceToken)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
