package notification_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pentshop/pentshop/pkg/notification"
)

type mailGreeting struct{ name string }

func (g mailGreeting) Via() []string { return []string{"mail"} }
func (g mailGreeting) ToMail() notification.MailData {
	return notification.MailData{Subject: "Hello", Text: "Hello " + g.name}
}

type pigeonOnly struct{}

func (pigeonOnly) Via() []string { return []string{"pigeon"} }

func TestSendSkipsMailWhenUnconfigured(t *testing.T) {
	// Without MAIL_USERNAME the mail channel warns and no-ops instead
	// of returning an error; queued notifications must not retry and
	// dead-letter on a box that simply has no mail account.
	errs := notification.Send("grace@church.org", mailGreeting{name: "Grace"})
	assert.Empty(t, errs)
}

func TestSendUnknownChannel(t *testing.T) {
	errs := notification.Send("grace@church.org", pigeonOnly{})
	assert.Len(t, errs, 1)
}
