// Package notification routes a notification through its channels.
//
// Define a Notification:
//
//	type OrderPlaced struct { Order models.Order }
//	func (n *OrderPlaced) Via() []string { return []string{"mail", "whatsapp"} }
//	func (n *OrderPlaced) ToMail() notification.MailData {
//	    return notification.MailData{
//	        Subject: "Order Confirmation - " + n.Order.Reference,
//	        Body:    renderOrderEmail(n.Order),
//	    }
//	}
//	func (n *OrderPlaced) ToWhatsApp() notification.WhatsAppData {
//	    return notification.WhatsAppData{Phone: n.Order.CustomerPhone, Message: summary}
//	}
//
// Send (normally wrapped in a queue job so HTTP handlers never wait):
//
//	notification.Send(order.UserEmail, &OrderPlaced{Order: order})
package notification

import (
	"context"
	"fmt"

	"github.com/pentshop/pentshop/pkg/logger"
	"github.com/pentshop/pentshop/pkg/mail"
	"github.com/pentshop/pentshop/pkg/metrics"
	"github.com/pentshop/pentshop/pkg/whatsapp"
)

// ------------------- Channel data structs -------------------

// MailData carries the data needed to send an email notification.
type MailData struct {
	To      string // overrides the notifiable address if set
	Subject string
	Body    string // HTML
	Text    string // plain-text fallback
}

// WhatsAppData carries a WhatsApp (or SMS fallback) message.
type WhatsAppData struct {
	Phone   string
	Message string
}

// ------------------- Notification interface -------------------

// Notification is the interface every notification must satisfy.
type Notification interface {
	// Via returns the list of channel names: "mail", "whatsapp".
	Via() []string
}

// Mailable can be implemented to support the mail channel.
type Mailable interface {
	ToMail() MailData
}

// WhatsAppable can be implemented to support the WhatsApp channel.
type WhatsAppable interface {
	ToWhatsApp() WhatsAppData
}

// ------------------- Global config -------------------

var whatsappSender *whatsapp.Sender

// UseWhatsApp wires the sender used by the whatsapp channel.
// Called once at boot; when left nil the channel warns and no-ops.
func UseWhatsApp(s *whatsapp.Sender) { whatsappSender = s }

// ------------------- Send -------------------

// Send dispatches the notification through all channels returned by Via().
// address is the email address used for the mail channel.
func Send(address string, n Notification) []error {
	var errs []error
	for _, channel := range n.Via() {
		if err := dispatch(address, channel, n); err != nil {
			metrics.NotificationsSent.WithLabelValues(channel, "error").Inc()
			logger.Error("notification: channel failed",
				"channel", channel, "error", err)
			errs = append(errs, err)
		} else {
			metrics.NotificationsSent.WithLabelValues(channel, "ok").Inc()
		}
	}
	return errs
}

func dispatch(address, channel string, n Notification) error {
	switch channel {
	case "mail":
		m, ok := n.(Mailable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Mailable", n)
		}
		return sendMail(address, m.ToMail())

	case "whatsapp":
		w, ok := n.(WhatsAppable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement WhatsAppable", n)
		}
		return sendWhatsApp(w.ToWhatsApp())

	default:
		return fmt.Errorf("notification: unknown channel %q", channel)
	}
}

// ------------------- Mail channel -------------------

func sendMail(address string, d MailData) error {
	if !mail.Configured() {
		logger.Warn("notification: mail not configured, skipping",
			"to", address)
		return nil
	}

	to := d.To
	if to == "" {
		to = address
	}

	body := d.Body
	if body == "" {
		body = d.Text
	}

	return mail.To(to).Subject(d.Subject).Body(body).Send()
}

// ------------------- WhatsApp channel -------------------

func sendWhatsApp(d WhatsAppData) error {
	if whatsappSender == nil || !whatsappSender.Configured() {
		logger.Warn("notification: whatsapp not configured, skipping",
			"phone", d.Phone)
		return nil
	}
	if d.Phone == "" {
		return nil
	}
	return whatsappSender.Send(context.Background(), d.Phone, d.Message)
}
