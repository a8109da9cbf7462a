package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/app/services"
	"github.com/pentshop/pentshop/pkg/bind"
	"github.com/pentshop/pentshop/pkg/response"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Create handles POST /api/orders.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var order models.Order
	if errs, err := bind.JSON(r, &order); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.Place(r.Context(), &order, "api"); err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, order)
}

// List handles GET /api/orders.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	orders, err := c.service.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orders)
}

// orderSummary is the trimmed shape of an order in a customer's
// listing. Contact and delivery details stay out of it.
type orderSummary struct {
	ID        primitive.ObjectID `json:"id"`
	Reference string             `json:"reference"`
	Amount    float64            `json:"amount"`
	Products  []models.OrderItem `json:"products"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}

// ListByEmail handles GET /api/orders/user/{email}.
func (c *OrderController) ListByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "email")))
	if !models.ValidEmail(email) {
		response.Error(w, http.StatusBadRequest, "invalid email address")
		return
	}

	orders, err := c.service.ListByEmail(r.Context(), email)
	if err != nil {
		fail(w, r, err)
		return
	}

	summaries := make([]orderSummary, 0, len(orders))
	for _, o := range orders {
		products := o.Products
		if products == nil {
			products = []models.OrderItem{}
		}
		summaries = append(summaries, orderSummary{
			ID:        o.ID,
			Reference: o.Reference,
			Amount:    o.Amount,
			Products:  products,
			Status:    o.Status,
			CreatedAt: o.CreatedAt,
		})
	}
	response.Success(w, summaries)
}

// GetByReference handles GET /api/orders/reference/{reference}.
func (c *OrderController) GetByReference(w http.ResponseWriter, r *http.Request) {
	order, err := c.service.GetByReference(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, order)
}

// Get handles GET /api/orders/{id}.
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	order, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, order)
}

// UpdateStatus handles PUT /api/orders/{id}.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status" validate:"required"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), strings.TrimSpace(body.Status))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, order)
}

// Delete handles DELETE /api/orders/{id}.
func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "Order deleted"})
}
