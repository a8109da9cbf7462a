package controllers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pentshop/pentshop/app/controllers"
	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/app/repositories"
	"github.com/pentshop/pentshop/pkg/router"
)

type memNotificationStore struct {
	records map[string]*models.NotificationRecord
}

func newMemNotificationStore() *memNotificationStore {
	return &memNotificationStore{records: map[string]*models.NotificationRecord{}}
}

func (m *memNotificationStore) Create(_ context.Context, n *models.NotificationRecord) error {
	n.ID = primitive.NewObjectID()
	cp := *n
	m.records[n.ID.Hex()] = &cp
	return nil
}

func (m *memNotificationStore) All(_ context.Context) ([]models.NotificationRecord, error) {
	out := []models.NotificationRecord{}
	for _, n := range m.records {
		out = append(out, *n)
	}
	return out, nil
}

func (m *memNotificationStore) MarkRead(_ context.Context, id string) (*models.NotificationRecord, error) {
	n, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("notification %q: %w", id, repositories.ErrNotFound)
	}
	n.Read = true
	cp := *n
	return &cp, nil
}

func (m *memNotificationStore) Delete(_ context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("notification %q: %w", id, repositories.ErrNotFound)
	}
	delete(m.records, id)
	return nil
}

func newNotificationServer(store *memNotificationStore) *httptest.Server {
	ctrl := controllers.NewNotificationController(store)

	r := router.New()
	r.Post("/api/notifications", "notifications.send", ctrl.Send)
	r.Get("/api/notifications", "notifications.list", ctrl.List)
	r.Put("/api/notifications/{id}/read", "notifications.read", ctrl.MarkRead)
	r.Delete("/api/notifications/{id}", "notifications.delete", ctrl.Delete)
	r.Post("/api/email", "email.send", ctrl.SendEmail)
	return httptest.NewServer(r.Handler())
}

func TestSendRecordsFailedDelivery(t *testing.T) {
	// With no SMTP credentials the synchronous send fails; the stored
	// record must say "error", not "sent".
	store := newMemNotificationStore()
	srv := newNotificationServer(store)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/notifications", `{
		"name": "Grace",
		"email": "grace@church.org",
		"subject": "Choir practice",
		"message": "Practice moves to 6pm on Friday."
	}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	require.Len(t, store.records, 1)
	for _, record := range store.records {
		assert.Equal(t, "error", record.Status)
		assert.NotEmpty(t, record.Error)
	}
}

func TestMarkNotificationRead(t *testing.T) {
	store := newMemNotificationStore()
	record := &models.NotificationRecord{Email: "grace@church.org", Message: "hello"}
	require.NoError(t, store.Create(context.Background(), record))

	srv := newNotificationServer(store)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPut,
		srv.URL+"/api/notifications/"+record.ID.Hex()+"/read", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Data models.NotificationRecord `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Data.Read)
}

func TestDeleteNotification(t *testing.T) {
	store := newMemNotificationStore()
	record := &models.NotificationRecord{Email: "grace@church.org", Message: "hello"}
	require.NoError(t, store.Create(context.Background(), record))

	srv := newNotificationServer(store)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodDelete,
		srv.URL+"/api/notifications/"+record.ID.Hex(), nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, store.records)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSendEmailQueues(t *testing.T) {
	srv := newNotificationServer(newMemNotificationStore())
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/email", `{
		"to": "grace@church.org",
		"subject": "Receipt",
		"html": "<p>Thank you!</p>"
	}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSendEmailRequiresBody(t *testing.T) {
	srv := newNotificationServer(newMemNotificationStore())
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/email",
		`{"to": "grace@church.org", "subject": "Receipt"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
