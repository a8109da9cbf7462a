package notifications

import (
	"fmt"

	"github.com/pentshop/pentshop/pkg/notification"
)

// Welcome greets a newly registered user by mail.
type Welcome struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (n *Welcome) Via() []string { return []string{"mail"} }

func (n *Welcome) ToMail() notification.MailData {
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Welcome to Pent-Shop! Your account has been created.</p>"+
			"<p>You can now place orders and track them with your email address.</p>"+
			"<p>Best regards,<br>Pent-Shop</p>", n.Name)

	return notification.MailData{
		To:      n.Email,
		Subject: "Welcome to Pent-Shop",
		Body:    body,
	}
}
