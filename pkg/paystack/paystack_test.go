package paystack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pentshop/pentshop/pkg/paystack"
)

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(10000), paystack.ToMinorUnits(100))
	assert.Equal(t, int64(4050), paystack.ToMinorUnits(40.50))
	assert.Equal(t, int64(1), paystack.ToMinorUnits(0.005))
	assert.Equal(t, int64(0), paystack.ToMinorUnits(0))
	// float noise must not lose a pesewa
	assert.Equal(t, int64(1999), paystack.ToMinorUnits(19.99))
}

func TestInitialize(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		require.Equal(t, "Bearer sk_test_abc", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]string{
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code":       "abc123",
				"reference":         "ps_ref_42",
			},
		})
	}))
	defer srv.Close()

	client := paystack.New(srv.URL, "sk_test_abc")
	session, err := client.Initialize(context.Background(), paystack.InitializeInput{
		Email:     "grace@church.org",
		AmountGHS: 40.50,
		FullName:  "Grace Mensah",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.paystack.com/abc123", session.AuthorizationURL)
	assert.Equal(t, "ps_ref_42", session.Reference)

	assert.Equal(t, "grace@church.org", got["email"])
	assert.Equal(t, float64(4050), got["amount"], "amount is sent in pesewas")
	assert.Equal(t, "GHS", got["currency"])
	meta, ok := got["metadata"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Grace Mensah", meta["fullName"])
}

func TestInitializeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "Invalid email address",
		})
	}))
	defer srv.Close()

	client := paystack.New(srv.URL, "sk_test_abc")
	_, err := client.Initialize(context.Background(), paystack.InitializeInput{
		Email:     "nope",
		AmountGHS: 10,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email address")
}

func TestInitializeNotConfigured(t *testing.T) {
	client := paystack.New("https://api.paystack.co", "")
	_, err := client.Initialize(context.Background(), paystack.InitializeInput{
		Email:     "grace@church.org",
		AmountGHS: 10,
	})
	assert.ErrorIs(t, err, paystack.ErrNotConfigured)
}
