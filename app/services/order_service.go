package services

import (
	"context"
	"fmt"

	"github.com/pentshop/pentshop/app/jobs"
	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/pkg/event"
	"github.com/pentshop/pentshop/pkg/logger"
	"github.com/pentshop/pentshop/pkg/metrics"
	"github.com/pentshop/pentshop/pkg/paystack"
	"github.com/pentshop/pentshop/pkg/queue"
)

// OrderStore is the slice of the order repository the service needs.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindByReference(ctx context.Context, reference string) (*models.Order, error)
	FindByUserEmail(ctx context.Context, email string) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Order, error)
	Delete(ctx context.Context, id string) error
}

// PaymentGateway initiates a hosted checkout session.
type PaymentGateway interface {
	Initialize(ctx context.Context, in paystack.InitializeInput) (*paystack.Session, error)
}

// OrderService owns order intake, the status lifecycle and payment
// initiation. All writes go through here so notifications, metrics and
// the order events stay consistent. Subscribers on the event bus (the
// live admin feed among them) see every successful write.
type OrderService struct {
	orders  OrderStore
	gateway PaymentGateway
}

func NewOrderService(orders OrderStore, gateway PaymentGateway) *OrderService {
	return &OrderService{orders: orders, gateway: gateway}
}

// Place validates and persists a new order, then queues the
// confirmation notification and fires the order.placed event.
// source labels the intake path for metrics: "api" for direct
// creation, "paystack" for payment-initiated orders.
func (s *OrderService) Place(ctx context.Context, order *models.Order, source string) error {
	order.Normalize()
	if err := order.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if !order.ValidateTotal() {
		return fmt.Errorf("%w: amount does not match the sum of line items", ErrValidation)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return err
	}
	metrics.OrdersCreated.WithLabelValues(source).Inc()

	s.fanOut(ctx, "order.placed", order, &jobs.SendOrderPlacedJob{Order: *order})
	return nil
}

// UpdateStatus moves an order through its lifecycle. A transition not
// allowed by the graph returns models.ErrInvalidTransition; setting
// the current status again is a no-op.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	current, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}
	if !models.CanTransition(current.Status, status) {
		return nil, fmt.Errorf("%s to %s: %w", current.Status, status, models.ErrInvalidTransition)
	}

	updated, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	metrics.OrderStatusChanges.WithLabelValues(status).Inc()

	s.fanOut(ctx, "order.status_changed", updated, &jobs.SendOrderStatusJob{Order: *updated})
	return updated, nil
}

// PaymentInput is everything needed to start a Paystack checkout.
type PaymentInput struct {
	Email           string             `json:"email" validate:"required,email"`
	Amount          float64            `json:"amount" validate:"required,gt=0"`
	FullName        string             `json:"fullName"`
	Phone           string             `json:"phone"`
	Products        []models.OrderItem `json:"products"`
	DeliveryAddress string             `json:"deliveryAddress"`
	Notes           string             `json:"notes"`
}

// InitiatePayment opens a Paystack session and records the pending
// order under the gateway's reference. The customer completes payment
// on the returned authorization URL.
func (s *OrderService) InitiatePayment(ctx context.Context, in PaymentInput) (*paystack.Session, *models.Order, error) {
	session, err := s.gateway.Initialize(ctx, paystack.InitializeInput{
		Email:     in.Email,
		AmountGHS: in.Amount,
		FullName:  in.FullName,
	})
	if err != nil {
		metrics.PaymentInitiations.WithLabelValues("gateway_error").Inc()
		return nil, nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	order := &models.Order{
		UserEmail:       in.Email,
		Amount:          in.Amount,
		Reference:       session.Reference,
		Status:          models.StatusPending,
		Products:        in.Products,
		CustomerName:    in.FullName,
		CustomerPhone:   in.Phone,
		DeliveryAddress: in.DeliveryAddress,
		Notes:           in.Notes,
	}
	if err := s.Place(ctx, order, "paystack"); err != nil {
		metrics.PaymentInitiations.WithLabelValues("save_error").Inc()
		return nil, nil, err
	}

	metrics.PaymentInitiations.WithLabelValues("ok").Inc()
	return session, order, nil
}

// Get returns one order by hex id.
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// GetByReference returns one order by its payment reference.
func (s *OrderService) GetByReference(ctx context.Context, reference string) (*models.Order, error) {
	return s.orders.FindByReference(ctx, reference)
}

// ListByEmail returns a customer's orders, newest first.
func (s *OrderService) ListByEmail(ctx context.Context, email string) ([]models.Order, error) {
	return s.orders.FindByUserEmail(ctx, email)
}

// List returns all orders, newest first.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.orders.All(ctx)
}

// Delete removes an order permanently.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}

// fanOut fires the domain event and queues the customer notification.
// Failures here never fail the request; the order is already persisted.
func (s *OrderService) fanOut(ctx context.Context, name string, order *models.Order, job queue.Job) {
	event.Fire(name, *order)

	if err := queue.Dispatch(job); err != nil {
		logger.WithCtx(ctx).Error("orders: notification dispatch failed",
			"event", name, "reference", order.Reference, "error", err)
	}
}
