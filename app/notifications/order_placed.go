// Package notifications defines the concrete notifications the shop
// sends: order confirmations, status updates, welcome mails and
// password resets. Each one picks its channels via Via() and renders
// its own content; delivery is handled by pkg/notification.
package notifications

import (
	"fmt"
	"strings"

	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/pkg/notification"
)

// OrderPlaced confirms a new order to the customer by mail and,
// when a phone number is present, WhatsApp.
type OrderPlaced struct {
	Order models.Order `json:"order"`
}

func (n *OrderPlaced) Via() []string {
	if n.Order.CustomerPhone != "" {
		return []string{"mail", "whatsapp"}
	}
	return []string{"mail"}
}

func (n *OrderPlaced) ToMail() notification.MailData {
	name := n.Order.CustomerName
	if name == "" {
		name = "there"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", name)
	b.WriteString("<p>Thank you for your order!</p>")
	fmt.Fprintf(&b, "<p>Order Reference: <strong>%s</strong></p>", n.Order.Reference)
	if len(n.Order.Products) > 0 {
		b.WriteString("<ul>")
		for _, item := range n.Order.Products {
			fmt.Fprintf(&b, "<li>%s x %d</li>", item.Name, item.Quantity)
		}
		b.WriteString("</ul>")
	}
	fmt.Fprintf(&b, "<p>Total: <strong>GHS %.2f</strong></p>", n.Order.Amount)
	if n.Order.DeliveryAddress != "" {
		fmt.Fprintf(&b, "<p>Delivery Address: %s</p>", n.Order.DeliveryAddress)
	}
	b.WriteString("<p>We appreciate your business!</p>")
	b.WriteString("<p>Best regards,<br>Pent-Shop</p>")

	return notification.MailData{
		Subject: "Order Confirmation - " + n.Order.Reference,
		Body:    b.String(),
		Text:    n.summary(),
	}
}

func (n *OrderPlaced) ToWhatsApp() notification.WhatsAppData {
	return notification.WhatsAppData{
		Phone:   n.Order.CustomerPhone,
		Message: n.summary(),
	}
}

func (n *OrderPlaced) summary() string {
	items := make([]string, 0, len(n.Order.Products))
	for _, item := range n.Order.Products {
		items = append(items, fmt.Sprintf("%s x %d", item.Name, item.Quantity))
	}

	msg := fmt.Sprintf("Thank you for your order! Reference: %s. Total: GHS %.2f.",
		n.Order.Reference, n.Order.Amount)
	if len(items) > 0 {
		msg = fmt.Sprintf("Thank you for your order! Reference: %s. Items: %s. Total: GHS %.2f.",
			n.Order.Reference, strings.Join(items, ", "), n.Order.Amount)
	}
	return msg
}
