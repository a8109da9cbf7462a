// Package whatsapp sends customer messages through the WhatsApp Cloud API,
// falling back to a plain SMS gateway when Cloud API credentials are absent
// or the send fails. Local Ghanaian numbers written with a leading 0 are
// rewritten to the +233 international form before sending.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pentshop/pentshop/pkg/httpclient"
	"github.com/pentshop/pentshop/pkg/logger"
)

const cloudAPIBase = "https://graph.facebook.com/v17.0"

// ErrNotConfigured is returned when neither channel has credentials.
var ErrNotConfigured = errors.New("whatsapp: no messaging credentials configured")

// Sender delivers text messages to a phone number.
type Sender struct {
	token         string
	phoneNumberID string

	smsAccount string
	smsToken   string
	smsFrom    string

	// base URLs are fields so tests can point at a local server
	cloudBase string
	smsBase   string
}

// New builds a Sender from Cloud API and SMS gateway credentials.
// Either set may be empty; Send picks whichever is available.
func New(token, phoneNumberID, smsAccount, smsToken, smsFrom string) *Sender {
	return &Sender{
		token:         token,
		phoneNumberID: phoneNumberID,
		smsAccount:    smsAccount,
		smsToken:      smsToken,
		smsFrom:       smsFrom,
		cloudBase:     cloudAPIBase,
		smsBase:       "https://api.smsgateway.example.com",
	}
}

// WithBaseURLs overrides the gateway endpoints. Used in tests.
func (s *Sender) WithBaseURLs(cloud, sms string) *Sender {
	s.cloudBase = cloud
	s.smsBase = sms
	return s
}

// NormalizePhone rewrites a local 0XXXXXXXXX number to +233XXXXXXXXX.
// Numbers already in international form pass through unchanged.
func NormalizePhone(phone string) string {
	p := strings.TrimSpace(phone)
	p = strings.ReplaceAll(p, " ", "")
	p = strings.ReplaceAll(p, "-", "")
	if strings.HasPrefix(p, "0") && len(p) > 1 {
		return "+233" + p[1:]
	}
	return p
}

// Configured reports whether at least one channel can send.
func (s *Sender) Configured() bool {
	return (s.token != "" && s.phoneNumberID != "") || (s.smsAccount != "" && s.smsToken != "")
}

// Send delivers message to phone, preferring the Cloud API.
func (s *Sender) Send(ctx context.Context, phone, message string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	to := NormalizePhone(phone)

	if s.token != "" && s.phoneNumberID != "" {
		err := s.sendCloud(ctx, to, message)
		if err == nil {
			return nil
		}
		logger.Warn("whatsapp: cloud api send failed", "error", err)
		if s.smsAccount == "" || s.smsToken == "" {
			return err
		}
	}

	return s.sendSMS(ctx, to, message)
}

type cloudMessage struct {
	MessagingProduct string    `json:"messaging_product"`
	To               string    `json:"to"`
	Type             string    `json:"type"`
	Text             cloudText `json:"text"`
}

type cloudText struct {
	Body string `json:"body"`
}

func (s *Sender) sendCloud(ctx context.Context, to, message string) error {
	url := fmt.Sprintf("%s/%s/messages", s.cloudBase, s.phoneNumberID)

	resp, err := httpclient.Post(url).
		Bearer(s.token).
		Body(cloudMessage{
			MessagingProduct: "whatsapp",
			To:               to,
			Type:             "text",
			Text:             cloudText{Body: message},
		}).
		Timeout(10 * time.Second).
		WithContext(ctx).
		Send()
	if err != nil {
		return fmt.Errorf("whatsapp: cloud api: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("whatsapp: cloud api: %w", err)
	}
	return nil
}

type smsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}

func (s *Sender) sendSMS(ctx context.Context, to, message string) error {
	url := fmt.Sprintf("%s/accounts/%s/messages", s.smsBase, s.smsAccount)

	resp, err := httpclient.Post(url).
		BasicAuth(s.smsAccount, s.smsToken).
		Body(smsRequest{From: s.smsFrom, To: to, Body: message}).
		Timeout(10 * time.Second).
		WithContext(ctx).
		Send()
	if err != nil {
		return fmt.Errorf("whatsapp: sms fallback: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("whatsapp: sms fallback: %w", err)
	}
	return nil
}
