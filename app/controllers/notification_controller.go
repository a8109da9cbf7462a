package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pentshop/pentshop/app/jobs"
	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/pkg/bind"
	"github.com/pentshop/pentshop/pkg/mail"
	"github.com/pentshop/pentshop/pkg/queue"
	"github.com/pentshop/pentshop/pkg/response"
)

// NotificationStore is the slice of the notification repository the
// controller needs.
type NotificationStore interface {
	Create(ctx context.Context, n *models.NotificationRecord) error
	All(ctx context.Context) ([]models.NotificationRecord, error)
	MarkRead(ctx context.Context, id string) (*models.NotificationRecord, error)
	Delete(ctx context.Context, id string) error
}

// NotificationController lets admins send ad-hoc mail to a customer
// and keeps a log of what went out.
type NotificationController struct {
	records NotificationStore
}

func NewNotificationController(records NotificationStore) *NotificationController {
	return &NotificationController{records: records}
}

// Send handles POST /api/notifications (admin). The mail goes out
// synchronously so the stored status reflects the actual outcome.
func (c *NotificationController) Send(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string `json:"name"`
		Email   string `json:"email" validate:"required,email"`
		Subject string `json:"subject" validate:"required"`
		Message string `json:"message" validate:"required"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	record := &models.NotificationRecord{
		Name:    body.Name,
		Email:   body.Email,
		Subject: body.Subject,
		Message: body.Message,
		Status:  "sent",
	}

	if err := mail.To(body.Email).Subject(body.Subject).Text(body.Message).Send(); err != nil {
		record.Status = "error"
		record.Error = err.Error()
	}

	if err := c.records.Create(r.Context(), record); err != nil {
		fail(w, r, err)
		return
	}

	if record.Status == "error" {
		response.Error(w, http.StatusInternalServerError, "Failed to send notification")
		return
	}
	response.Created(w, record)
}

// SendEmail handles POST /api/email (admin): an ad hoc transactional
// mail given to/subject/text/html. Delivery goes through the queue so
// the usual retry and dead-letter handling applies.
func (c *NotificationController) SendEmail(w http.ResponseWriter, r *http.Request) {
	var body struct {
		To      string `json:"to" validate:"required,email"`
		Subject string `json:"subject" validate:"required"`
		Text    string `json:"text"`
		HTML    string `json:"html"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}
	if body.Text == "" && body.HTML == "" {
		response.ValidationError(w, map[string]string{"text": "text or html body is required"})
		return
	}

	err := queue.Dispatch(&jobs.SendMailJob{
		To:      body.To,
		Subject: body.Subject,
		Body:    body.HTML,
		Text:    body.Text,
	})
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to queue email")
		return
	}
	response.Success(w, map[string]string{"message": "Email queued for delivery"})
}

// List handles GET /api/notifications (admin).
func (c *NotificationController) List(w http.ResponseWriter, r *http.Request) {
	records, err := c.records.All(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, records)
}

// MarkRead handles PUT /api/notifications/{id}/read (admin).
func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	record, err := c.records.MarkRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, record)
}

// Delete handles DELETE /api/notifications/{id} (admin).
func (c *NotificationController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.records.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "Notification deleted"})
}
