package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status values.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// ErrInvalidTransition is returned when an order status change is not
// allowed by the lifecycle graph.
var ErrInvalidTransition = errors.New("invalid order status transition")

// statusGraph encodes the order lifecycle: Pending can start processing
// or be cancelled, Processing can finish or be cancelled, and the two
// terminal states accept nothing.
var statusGraph = map[string][]string{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ValidStatus reports whether s is one of the known status values.
func ValidStatus(s string) bool {
	_, ok := statusGraph[s]
	return ok
}

// CanTransition reports whether an order may move from one status to
// another. Setting the same status again is treated as a no-op and allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range statusGraph[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderItem is one purchased line inside an order.
type OrderItem struct {
	ProductID string  `bson:"productId,omitempty" json:"productId,omitempty"`
	Name      string  `bson:"name,omitempty" json:"name,omitempty"`
	Price     float64 `bson:"price" json:"price" validate:"gte=0"`
	Quantity  int     `bson:"quantity" json:"quantity" validate:"gte=1"`
}

// Order is a customer purchase. The reference is unique across the
// collection and is the public identifier customers track orders by.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserEmail       string             `bson:"userEmail" json:"userEmail"`
	Amount          float64            `bson:"amount" json:"amount"`
	Reference       string             `bson:"reference" json:"reference"`
	Status          string             `bson:"status" json:"status"`
	Products        []OrderItem        `bson:"products,omitempty" json:"products,omitempty"`
	CustomerName    string             `bson:"customerName,omitempty" json:"customerName,omitempty"`
	CustomerPhone   string             `bson:"customerPhone,omitempty" json:"customerPhone,omitempty"`
	DeliveryAddress string             `bson:"deliveryAddress,omitempty" json:"deliveryAddress,omitempty"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Normalize lowercases the email, trims text fields, defaults the status
// and item quantities. Called before validation on every write path.
func (o *Order) Normalize() {
	o.UserEmail = strings.ToLower(strings.TrimSpace(o.UserEmail))
	o.Reference = strings.TrimSpace(o.Reference)
	o.CustomerName = strings.TrimSpace(o.CustomerName)
	o.CustomerPhone = strings.TrimSpace(o.CustomerPhone)
	o.DeliveryAddress = strings.TrimSpace(o.DeliveryAddress)
	o.Notes = strings.TrimSpace(o.Notes)

	if o.Status == "" {
		o.Status = StatusPending
	}
	for i := range o.Products {
		if o.Products[i].Quantity == 0 {
			o.Products[i].Quantity = 1
		}
	}
}

// Validate checks the field-level invariants of an order.
func (o *Order) Validate() error {
	if o.UserEmail == "" {
		return errors.New("order: userEmail is required")
	}
	if !emailRE.MatchString(o.UserEmail) {
		return errors.New("order: userEmail must be a valid email address")
	}
	if o.Reference == "" {
		return errors.New("order: reference is required")
	}
	if o.Amount == 0 {
		return errors.New("order: amount is required")
	}
	if o.Amount < 0 {
		return errors.New("order: amount must not be negative")
	}
	if !ValidStatus(o.Status) {
		return fmt.Errorf("order: unknown status %q", o.Status)
	}
	for i, item := range o.Products {
		if item.Price < 0 {
			return fmt.Errorf("order: products[%d].price must not be negative", i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("order: products[%d].quantity must be at least 1", i)
		}
	}
	return nil
}

// ValidateTotal reports whether the order amount matches the sum of its
// line items within a tolerance of 0.01 to absorb float noise.
// Orders without line items are always considered consistent.
func (o *Order) ValidateTotal() bool {
	if len(o.Products) == 0 {
		return true
	}
	var total float64
	for _, item := range o.Products {
		total += item.Price * float64(item.Quantity)
	}
	return math.Abs(total-o.Amount) < 0.01
}
