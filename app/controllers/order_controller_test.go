package controllers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pentshop/pentshop/app/controllers"
	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/app/repositories"
	"github.com/pentshop/pentshop/app/services"
	"github.com/pentshop/pentshop/pkg/paystack"
	"github.com/pentshop/pentshop/pkg/router"
)

// memStore is an in-memory OrderStore keyed by reference. Lookups by
// id also use the reference to keep the fake simple.
type memStore struct {
	orders map[string]*models.Order
}

func newMemStore() *memStore { return &memStore{orders: map[string]*models.Order{}} }

func (m *memStore) Create(_ context.Context, o *models.Order) error {
	if _, ok := m.orders[o.Reference]; ok {
		return fmt.Errorf("order reference %q: %w", o.Reference, repositories.ErrDuplicate)
	}
	cp := *o
	m.orders[o.Reference] = &cp
	return nil
}

func (m *memStore) FindByID(_ context.Context, id string) (*models.Order, error) {
	if o, ok := m.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, fmt.Errorf("order %q: %w", id, repositories.ErrNotFound)
}

func (m *memStore) FindByReference(ctx context.Context, ref string) (*models.Order, error) {
	return m.FindByID(ctx, ref)
}

func (m *memStore) FindByUserEmail(_ context.Context, email string) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range m.orders {
		if o.UserEmail == email {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memStore) All(_ context.Context) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id, status string) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %q: %w", id, repositories.ErrNotFound)
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	if _, ok := m.orders[id]; !ok {
		return fmt.Errorf("order %q: %w", id, repositories.ErrNotFound)
	}
	delete(m.orders, id)
	return nil
}

type noopGateway struct{}

func (noopGateway) Initialize(_ context.Context, _ paystack.InitializeInput) (*paystack.Session, error) {
	return &paystack.Session{Reference: "ps_ref_x"}, nil
}

func newTestServer(store *memStore) *httptest.Server {
	svc := services.NewOrderService(store, noopGateway{})
	ctrl := controllers.NewOrderController(svc)

	r := router.New()
	r.Post("/api/orders", "orders.create", ctrl.Create)
	r.Get("/api/orders/user/{email}", "orders.by_email", ctrl.ListByEmail)
	r.Get("/api/orders/reference/{reference}", "orders.by_reference", ctrl.GetByReference)
	r.Put("/api/orders/{id}", "orders.update_status", ctrl.UpdateStatus)
	return httptest.NewServer(r.Handler())
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestCreateOrderEndpoint(t *testing.T) {
	srv := newTestServer(newMemStore())
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/orders", `{
		"userEmail": "grace@church.org",
		"amount": 80,
		"reference": "ps_ref_1",
		"products": [{"name": "Hymnal", "price": 40, "quantity": 2}]
	}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var envelope struct {
		Status int          `json:"status"`
		Data   models.Order `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "ps_ref_1", envelope.Data.Reference)
	assert.Equal(t, models.StatusPending, envelope.Data.Status)
}

func TestCreateOrderDuplicateReturns409(t *testing.T) {
	srv := newTestServer(newMemStore())
	defer srv.Close()

	body := `{"userEmail": "grace@church.org", "amount": 10, "reference": "ps_ref_1"}`
	resp := postJSON(t, srv.URL+"/api/orders", body)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/orders", body)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateOrderTotalMismatchReturns422(t *testing.T) {
	srv := newTestServer(newMemStore())
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/orders", `{
		"userEmail": "grace@church.org",
		"amount": 50,
		"reference": "ps_ref_1",
		"products": [{"name": "Hymnal", "price": 40, "quantity": 2}]
	}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUpdateStatusIllegalTransitionReturns409(t *testing.T) {
	store := newMemStore()
	srv := newTestServer(store)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/orders",
		`{"userEmail": "grace@church.org", "amount": 10, "reference": "ps_ref_1"}`)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/orders/ps_ref_1",
		strings.NewReader(`{"status": "Delivered"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusConflict, resp2.StatusCode)
}

func TestListByEmailReturnsSummaries(t *testing.T) {
	srv := newTestServer(newMemStore())
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/orders", `{
		"userEmail": "grace@church.org",
		"amount": 80,
		"reference": "ps_ref_1",
		"customerName": "Grace Mensah",
		"customerPhone": "0241234567",
		"deliveryAddress": "12 Chapel Road",
		"products": [{"name": "Hymnal", "price": 40, "quantity": 2}]
	}`)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err := http.Get(srv.URL + "/api/orders/user/grace@church.org")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Len(t, envelope.Data, 1)

	entry := envelope.Data[0]
	assert.Equal(t, "ps_ref_1", entry["reference"])
	assert.Equal(t, "Pending", entry["status"])
	assert.Contains(t, entry, "products")
	// contact and delivery details stay out of the customer listing
	assert.NotContains(t, entry, "customerName")
	assert.NotContains(t, entry, "customerPhone")
	assert.NotContains(t, entry, "deliveryAddress")
	assert.NotContains(t, entry, "userEmail")
}

func TestGetByReferenceNotFound(t *testing.T) {
	srv := newTestServer(newMemStore())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/orders/reference/ps_ref_missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
