package whatsapp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pentshop/pentshop/pkg/whatsapp"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct{ in, want string }{
		{"0241234567", "+233241234567"},
		{"024 123 4567", "+233241234567"},
		{"024-123-4567", "+233241234567"},
		{"+233241234567", "+233241234567"},
		{"+447700900123", "+447700900123"},
		{" 0551234567 ", "+233551234567"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, whatsapp.NormalizePhone(c.in), c.in)
	}
}

func TestConfigured(t *testing.T) {
	assert.False(t, whatsapp.New("", "", "", "", "").Configured())
	assert.True(t, whatsapp.New("tok", "12345", "", "", "").Configured())
	assert.True(t, whatsapp.New("", "", "acct", "tok", "PentShop").Configured())
}

func TestSendPrefersCloudAPI(t *testing.T) {
	var got map[string]interface{}
	cloud := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/12345/messages", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer cloud.Close()

	s := whatsapp.New("tok", "12345", "", "", "").WithBaseURLs(cloud.URL, "")
	err := s.Send(context.Background(), "0241234567", "Your order is on its way")
	require.NoError(t, err)

	assert.Equal(t, "whatsapp", got["messaging_product"])
	assert.Equal(t, "+233241234567", got["to"])
	assert.Equal(t, "text", got["type"])
	text, ok := got["text"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Your order is on its way", text["body"])
}

func TestSendFallsBackToSMS(t *testing.T) {
	cloud := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer cloud.Close()

	var smsGot map[string]interface{}
	sms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts/acct/messages", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "acct", user)
		assert.Equal(t, "smstok", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&smsGot))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM1"}`))
	}))
	defer sms.Close()

	s := whatsapp.New("tok", "12345", "acct", "smstok", "PentShop").
		WithBaseURLs(cloud.URL, sms.URL)
	err := s.Send(context.Background(), "0241234567", "Order confirmed")
	require.NoError(t, err)

	assert.Equal(t, "PentShop", smsGot["from"])
	assert.Equal(t, "+233241234567", smsGot["to"])
	assert.Equal(t, "Order confirmed", smsGot["body"])
}

func TestSendNotConfigured(t *testing.T) {
	s := whatsapp.New("", "", "", "", "")
	err := s.Send(context.Background(), "0241234567", "hello")
	assert.ErrorIs(t, err, whatsapp.ErrNotConfigured)
}
