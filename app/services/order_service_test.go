package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/app/repositories"
	"github.com/pentshop/pentshop/app/services"
	"github.com/pentshop/pentshop/pkg/event"
	"github.com/pentshop/pentshop/pkg/paystack"
)

// fakeOrderStore keeps orders in a map keyed by reference, enforcing
// the same unique-reference rule as the Mongo index.
type fakeOrderStore struct {
	byRef  map[string]*models.Order
	nextID int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{byRef: map[string]*models.Order{}}
}

func (f *fakeOrderStore) Create(_ context.Context, o *models.Order) error {
	if _, exists := f.byRef[o.Reference]; exists {
		return fmt.Errorf("order reference %q: %w", o.Reference, repositories.ErrDuplicate)
	}
	f.nextID++
	cp := *o
	f.byRef[o.Reference] = &cp
	return nil
}

func (f *fakeOrderStore) FindByID(_ context.Context, id string) (*models.Order, error) {
	for _, o := range f.byRef {
		if o.Reference == id { // ids are references in the fake
			cp := *o
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("order %q: %w", id, repositories.ErrNotFound)
}

func (f *fakeOrderStore) FindByReference(_ context.Context, ref string) (*models.Order, error) {
	if o, ok := f.byRef[ref]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, fmt.Errorf("order %q: %w", ref, repositories.ErrNotFound)
}

func (f *fakeOrderStore) FindByUserEmail(_ context.Context, email string) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.byRef {
		if o.UserEmail == email {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) All(_ context.Context) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.byRef {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, id, status string) (*models.Order, error) {
	for _, o := range f.byRef {
		if o.Reference == id {
			o.Status = status
			cp := *o
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("order %q: %w", id, repositories.ErrNotFound)
}

func (f *fakeOrderStore) Delete(_ context.Context, id string) error {
	if _, ok := f.byRef[id]; !ok {
		return fmt.Errorf("order %q: %w", id, repositories.ErrNotFound)
	}
	delete(f.byRef, id)
	return nil
}

type fakeGateway struct {
	session *paystack.Session
	err     error
}

func (g *fakeGateway) Initialize(_ context.Context, _ paystack.InitializeInput) (*paystack.Session, error) {
	return g.session, g.err
}

func validOrder() *models.Order {
	return &models.Order{
		UserEmail: "grace@church.org",
		Amount:    80,
		Reference: "ps_ref_1",
		Products: []models.OrderItem{
			{Name: "Hymnal", Price: 40, Quantity: 2},
		},
	}
}

func TestPlaceOrder(t *testing.T) {
	store := newFakeOrderStore()
	svc := services.NewOrderService(store, &fakeGateway{})

	order := validOrder()
	require.NoError(t, svc.Place(context.Background(), order, "api"))
	assert.Equal(t, models.StatusPending, order.Status)

	saved, err := store.FindByReference(context.Background(), "ps_ref_1")
	require.NoError(t, err)
	assert.Equal(t, "grace@church.org", saved.UserEmail)
}

func TestPlaceOrderDuplicateReference(t *testing.T) {
	store := newFakeOrderStore()
	svc := services.NewOrderService(store, &fakeGateway{})

	require.NoError(t, svc.Place(context.Background(), validOrder(), "api"))
	err := svc.Place(context.Background(), validOrder(), "api")
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestPlaceOrderValidation(t *testing.T) {
	store := newFakeOrderStore()
	svc := services.NewOrderService(store, &fakeGateway{})

	missingEmail := validOrder()
	missingEmail.UserEmail = ""
	assert.ErrorIs(t, svc.Place(context.Background(), missingEmail, "api"), services.ErrValidation)

	badTotal := validOrder()
	badTotal.Amount = 50 // items sum to 80
	assert.ErrorIs(t, svc.Place(context.Background(), badTotal, "api"), services.ErrValidation)

	assert.Empty(t, store.byRef, "nothing persisted on validation failure")
}

func TestPlaceOrderMissingAmount(t *testing.T) {
	store := newFakeOrderStore()
	svc := services.NewOrderService(store, &fakeGateway{})

	// A JSON payload without an amount decodes to zero; intake must
	// reject it rather than record a free order.
	order := &models.Order{UserEmail: "grace@church.org", Reference: "ps_ref_zero"}
	err := svc.Place(context.Background(), order, "api")
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Empty(t, store.byRef)
}

func TestOrderEventsReachListeners(t *testing.T) {
	t.Cleanup(event.Flush)

	var placed, changed []models.Order
	event.Listen("order.placed", func(payload interface{}) {
		if o, ok := payload.(models.Order); ok {
			placed = append(placed, o)
		}
	})
	event.Listen("order.status_changed", func(payload interface{}) {
		if o, ok := payload.(models.Order); ok {
			changed = append(changed, o)
		}
	})

	store := newFakeOrderStore()
	svc := services.NewOrderService(store, &fakeGateway{})
	require.NoError(t, svc.Place(context.Background(), validOrder(), "api"))

	require.Len(t, placed, 1)
	assert.Equal(t, "ps_ref_1", placed[0].Reference)

	_, err := svc.UpdateStatus(context.Background(), "ps_ref_1", models.StatusProcessing)
	require.NoError(t, err)

	require.Len(t, changed, 1)
	assert.Equal(t, models.StatusProcessing, changed[0].Status)
}

func TestUpdateStatusTransitions(t *testing.T) {
	store := newFakeOrderStore()
	svc := services.NewOrderService(store, &fakeGateway{})
	require.NoError(t, svc.Place(context.Background(), validOrder(), "api"))

	updated, err := svc.UpdateStatus(context.Background(), "ps_ref_1", models.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, updated.Status)

	updated, err = svc.UpdateStatus(context.Background(), "ps_ref_1", models.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, updated.Status)

	// Delivered is terminal
	_, err = svc.UpdateStatus(context.Background(), "ps_ref_1", models.StatusCancelled)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestUpdateStatusSkipsLevel(t *testing.T) {
	store := newFakeOrderStore()
	svc := services.NewOrderService(store, &fakeGateway{})
	require.NoError(t, svc.Place(context.Background(), validOrder(), "api"))

	_, err := svc.UpdateStatus(context.Background(), "ps_ref_1", models.StatusDelivered)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestUpdateStatusSameStatusIsNoop(t *testing.T) {
	store := newFakeOrderStore()
	svc := services.NewOrderService(store, &fakeGateway{})
	require.NoError(t, svc.Place(context.Background(), validOrder(), "api"))

	updated, err := svc.UpdateStatus(context.Background(), "ps_ref_1", models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	svc := services.NewOrderService(newFakeOrderStore(), &fakeGateway{})
	_, err := svc.UpdateStatus(context.Background(), "ps_ref_1", "Shipped")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestInitiatePayment(t *testing.T) {
	store := newFakeOrderStore()
	svc := services.NewOrderService(store, &fakeGateway{
		session: &paystack.Session{
			AuthorizationURL: "https://checkout.paystack.com/xyz",
			AccessCode:       "xyz",
			Reference:        "ps_ref_9",
		},
	})

	session, order, err := svc.InitiatePayment(context.Background(), services.PaymentInput{
		Email:    "grace@church.org",
		Amount:   120,
		FullName: "Grace Mensah",
		Phone:    "0241234567",
	})
	require.NoError(t, err)

	assert.Equal(t, "ps_ref_9", session.Reference)
	assert.Equal(t, "ps_ref_9", order.Reference)
	assert.Equal(t, models.StatusPending, order.Status)

	saved, err := store.FindByReference(context.Background(), "ps_ref_9")
	require.NoError(t, err)
	assert.Equal(t, float64(120), saved.Amount)
}

func TestInitiatePaymentGatewayError(t *testing.T) {
	store := newFakeOrderStore()
	svc := services.NewOrderService(store, &fakeGateway{
		err: fmt.Errorf("connect timeout"),
	})

	_, _, err := svc.InitiatePayment(context.Background(), services.PaymentInput{
		Email:  "grace@church.org",
		Amount: 120,
	})
	assert.ErrorIs(t, err, services.ErrGateway)
	assert.Empty(t, store.byRef, "no order recorded when the gateway fails")
}
