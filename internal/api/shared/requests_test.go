package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentBody struct {
	ParcelID string  `json:"parcelId" validate:"required"`
	Email    string  `json:"email"    validate:"required,email"`
	Amount   float64 `json:"amount"   validate:"gt=0"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		fail    bool
	}{
		{name: "valid", body: `{"parcelId":"p1","email":"a@b.co","amount":5}`},
		{name: "empty body", body: ``, wantErr: ErrEmptyBody},
		{name: "malformed", body: `{"parcelId":`, fail: true},
		{name: "wrong type", body: `{"amount":"five"}`, fail: true},
		{name: "too large", body: `{"parcelId":"` + strings.Repeat("x", MaxBodyBytes) + `"}`, fail: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(tc.body))
			var v paymentBody
			err := DecodeJSON(httptest.NewRecorder(), req, &v)
			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.fail:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, "p1", v.ParcelID)
			}
		})
	}
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return assert.AnError
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&paymentBody{ParcelID: "p1", Email: "a@b.co", Amount: 1}))
	assert.Error(t, ValidateRequest(&paymentBody{ParcelID: "p1", Email: "nope", Amount: 1}))
	assert.Error(t, ValidateRequest(&paymentBody{ParcelID: "p1", Email: "a@b.co"}))

	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.ErrorIs(t, ValidateRequest(selfValidating{}), assert.AnError)
}
