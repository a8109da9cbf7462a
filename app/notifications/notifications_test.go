package notifications_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/app/notifications"
)

func sampleOrder() models.Order {
	return models.Order{
		ID:            primitive.NewObjectID(),
		UserEmail:     "grace@church.org",
		Amount:        110,
		Reference:     "ps_ref_7",
		Status:        models.StatusPending,
		CustomerName:  "Grace Mensah",
		CustomerPhone: "0241234567",
		Products: []models.OrderItem{
			{Name: "Hymnal", Price: 40, Quantity: 2},
			{Name: "Anointing Oil", Price: 30, Quantity: 1},
		},
	}
}

func TestOrderPlacedMail(t *testing.T) {
	n := &notifications.OrderPlaced{Order: sampleOrder()}

	mail := n.ToMail()
	assert.Equal(t, "Order Confirmation - ps_ref_7", mail.Subject)
	assert.Contains(t, mail.Body, "Grace Mensah")
	assert.Contains(t, mail.Body, "ps_ref_7")
	assert.Contains(t, mail.Body, "Hymnal x 2")
	assert.Contains(t, mail.Body, "GHS 110.00")
}

func TestOrderPlacedWhatsApp(t *testing.T) {
	n := &notifications.OrderPlaced{Order: sampleOrder()}

	wa := n.ToWhatsApp()
	assert.Equal(t, "0241234567", wa.Phone)
	assert.Contains(t, wa.Message, "ps_ref_7")
	assert.Contains(t, wa.Message, "Hymnal x 2")
	assert.Contains(t, wa.Message, "GHS 110.00")
}

func TestOrderPlacedChannels(t *testing.T) {
	withPhone := &notifications.OrderPlaced{Order: sampleOrder()}
	assert.Equal(t, []string{"mail", "whatsapp"}, withPhone.Via())

	order := sampleOrder()
	order.CustomerPhone = ""
	mailOnly := &notifications.OrderPlaced{Order: order}
	assert.Equal(t, []string{"mail"}, mailOnly.Via())
}

func TestOrderStatusChangedMail(t *testing.T) {
	order := sampleOrder()
	order.Status = models.StatusProcessing
	n := &notifications.OrderStatusChanged{Order: order}

	mail := n.ToMail()
	assert.Equal(t, "Order Status Update - Processing", mail.Subject)
	assert.Contains(t, mail.Body, "Processing")
	assert.Contains(t, mail.Body, "ps_ref_7")
}

func TestWelcomeMail(t *testing.T) {
	n := &notifications.Welcome{Name: "Grace", Email: "grace@church.org"}
	assert.Equal(t, []string{"mail"}, n.Via())

	mail := n.ToMail()
	assert.Equal(t, "grace@church.org", mail.To)
	assert.Equal(t, "Welcome to Pent-Shop", mail.Subject)
	assert.Contains(t, mail.Body, "Grace")
}

func TestPasswordResetMail(t *testing.T) {
	n := &notifications.PasswordReset{Name: "Grace", Email: "grace@church.org"}
	assert.Equal(t, []string{"mail"}, n.Via())

	mail := n.ToMail()
	assert.Equal(t, "Your password has been reset", mail.Subject)
	assert.Contains(t, mail.Body, "contact us immediately")
}
