// Package paystack is a minimal client for the Paystack transaction API.
// Amounts are converted to minor units (pesewas) before they leave the
// process; everything else in the application works in cedis.
package paystack

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/pentshop/pentshop/pkg/httpclient"
)

// ErrNotConfigured is returned when PAYSTACK_SECRET_KEY is missing.
var ErrNotConfigured = errors.New("paystack: secret key not configured")

// Client calls the Paystack REST API.
type Client struct {
	baseURL   string
	secretKey string
	timeout   time.Duration
}

// New returns a client for the given base URL and secret key.
func New(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		timeout:   15 * time.Second,
	}
}

// InitializeInput is the payload for transaction/initialize.
type InitializeInput struct {
	Email     string
	AmountGHS float64
	FullName  string
}

// Session is the usable part of a successful initialize response.
type Session struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type initializeRequest struct {
	Email    string            `json:"email"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type initializeResponse struct {
	Status  bool    `json:"status"`
	Message string  `json:"message"`
	Data    Session `json:"data"`
}

// ToMinorUnits converts a cedi amount to pesewas, rounding to the
// nearest whole unit.
func ToMinorUnits(amountGHS float64) int64 {
	return int64(math.Round(amountGHS * 100))
}

// Initialize creates a payment session for the given customer and amount.
func (c *Client) Initialize(ctx context.Context, in InitializeInput) (*Session, error) {
	if c.secretKey == "" {
		return nil, ErrNotConfigured
	}

	payload := initializeRequest{
		Email:    in.Email,
		Amount:   ToMinorUnits(in.AmountGHS),
		Currency: "GHS",
	}
	if in.FullName != "" {
		payload.Metadata = map[string]string{"fullName": in.FullName}
	}

	resp, err := httpclient.Post(c.baseURL+"/transaction/initialize").
		Bearer(c.secretKey).
		Body(payload).
		Timeout(c.timeout).
		Retry(2, time.Second).
		WithContext(ctx).
		Send()
	if err != nil {
		return nil, fmt.Errorf("paystack: initialize: %w", err)
	}

	var out initializeResponse
	if err := resp.JSON(&out); err != nil {
		return nil, fmt.Errorf("paystack: initialize: %w", err)
	}

	if !resp.OK() || !out.Status {
		msg := out.Message
		if msg == "" {
			msg = resp.Text()
		}
		return nil, fmt.Errorf("paystack: initialize rejected (status %d): %s", resp.StatusCode, msg)
	}

	return &out.Data, nil
}
