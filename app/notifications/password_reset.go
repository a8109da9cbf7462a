package notifications

import (
	"fmt"

	"github.com/pentshop/pentshop/pkg/notification"
)

// PasswordReset tells a user their password was reset.
type PasswordReset struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (n *PasswordReset) Via() []string { return []string{"mail"} }

func (n *PasswordReset) ToMail() notification.MailData {
	name := n.Name
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your Pent-Shop password has been reset.</p>"+
			"<p>If you did not request this change, please contact us immediately.</p>"+
			"<p>Best regards,<br>Pent-Shop</p>", name)

	return notification.MailData{
		To:      n.Email,
		Subject: "Your password has been reset",
		Body:    body,
	}
}
