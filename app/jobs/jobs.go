// Package jobs defines the queued work the shop performs off the
// request path: customer notifications for new orders and status
// changes, account mails, and ad-hoc admin mail.
//
// Every job type must be registered by its %T name so workers can
// rebuild it from the queue payload. Call RegisterAll once at boot.
package jobs

import (
	"errors"
	"fmt"

	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/app/notifications"
	"github.com/pentshop/pentshop/pkg/mail"
	"github.com/pentshop/pentshop/pkg/notification"
	"github.com/pentshop/pentshop/pkg/queue"
)

// RegisterAll makes every job type known to the queue manager.
func RegisterAll() {
	queue.Register("*jobs.SendOrderPlacedJob", func() queue.Job { return &SendOrderPlacedJob{} })
	queue.Register("*jobs.SendOrderStatusJob", func() queue.Job { return &SendOrderStatusJob{} })
	queue.Register("*jobs.SendWelcomeJob", func() queue.Job { return &SendWelcomeJob{} })
	queue.Register("*jobs.SendPasswordResetJob", func() queue.Job { return &SendPasswordResetJob{} })
	queue.Register("*jobs.SendMailJob", func() queue.Job { return &SendMailJob{} })
}

// join flattens the per-channel errors from notification.Send into a
// single error for the queue's retry logic.
func join(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

// SendOrderPlacedJob sends the order confirmation to the customer.
type SendOrderPlacedJob struct {
	Order models.Order `json:"order"`
}

func (j *SendOrderPlacedJob) Handle() error {
	errs := notification.Send(j.Order.UserEmail, &notifications.OrderPlaced{Order: j.Order})
	if err := join(errs); err != nil {
		return fmt.Errorf("order placed %s: %w", j.Order.Reference, err)
	}
	return nil
}

// SendOrderStatusJob tells the customer their order changed status.
type SendOrderStatusJob struct {
	Order models.Order `json:"order"`
}

func (j *SendOrderStatusJob) Handle() error {
	errs := notification.Send(j.Order.UserEmail, &notifications.OrderStatusChanged{Order: j.Order})
	if err := join(errs); err != nil {
		return fmt.Errorf("order status %s: %w", j.Order.Reference, err)
	}
	return nil
}

// SendWelcomeJob greets a freshly registered user.
type SendWelcomeJob struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (j *SendWelcomeJob) Handle() error {
	return join(notification.Send(j.Email, &notifications.Welcome{Name: j.Name, Email: j.Email}))
}

// SendPasswordResetJob confirms a password reset by mail.
type SendPasswordResetJob struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (j *SendPasswordResetJob) Handle() error {
	return join(notification.Send(j.Email, &notifications.PasswordReset{Name: j.Name, Email: j.Email}))
}

// SendMailJob delivers a raw admin-composed email.
type SendMailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Text    string `json:"text"`
}

func (j *SendMailJob) Handle() error {
	m := mail.To(j.To).Subject(j.Subject)
	if j.Body != "" {
		m.Body(j.Body)
	} else {
		m.Text(j.Text)
	}
	return m.Send()
}
