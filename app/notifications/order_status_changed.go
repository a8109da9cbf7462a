package notifications

import (
	"fmt"
	"strings"

	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/pkg/notification"
)

// OrderStatusChanged tells the customer their order moved to a new
// status, e.g. Processing or Delivered.
type OrderStatusChanged struct {
	Order models.Order `json:"order"`
}

func (n *OrderStatusChanged) Via() []string {
	if n.Order.CustomerPhone != "" {
		return []string{"mail", "whatsapp"}
	}
	return []string{"mail"}
}

// shortRef mirrors the dashboard's display id: the last 8 characters
// of the order id, uppercased.
func (n *OrderStatusChanged) shortRef() string {
	id := n.Order.ID.Hex()
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return strings.ToUpper(id)
}

func (n *OrderStatusChanged) ToMail() notification.MailData {
	var b strings.Builder
	b.WriteString("<p>Hello,</p>")
	fmt.Fprintf(&b,
		"<p>Your order <strong>#%s</strong> status has been updated to: <strong>%s</strong></p>",
		n.shortRef(), n.Order.Status)
	fmt.Fprintf(&b, "<p>Order Reference: %s</p>", n.Order.Reference)
	b.WriteString("<p>Thank you for shopping with Pent-Shop.</p>")

	return notification.MailData{
		Subject: "Order Status Update - " + n.Order.Status,
		Body:    b.String(),
	}
}

func (n *OrderStatusChanged) ToWhatsApp() notification.WhatsAppData {
	return notification.WhatsAppData{
		Phone: n.Order.CustomerPhone,
		Message: fmt.Sprintf("Your order #%s (%s) is now %s.",
			n.shortRef(), n.Order.Reference, n.Order.Status),
	}
}
