package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/pkg/database"
	"github.com/pentshop/pentshop/pkg/metrics"
)

// OrderRepository handles persistence for orders.
type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{col: database.Collection(database.ColOrders)}
}

// NewOrderRepositoryWith wires an explicit collection. Used in tests.
func NewOrderRepositoryWith(col *mongo.Collection) *OrderRepository {
	return &OrderRepository{col: col}
}

// Create inserts the order. A reference collision surfaces as
// ErrDuplicate via the unique index, never via a racy pre-check.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("order %q: %w", order.Reference, ErrDuplicate)
		}
		return fmt.Errorf("orders: create: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

// FindByID returns the order with the given hex id.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("order %q: %w", id, ErrNotFound)
	}

	var order models.Order
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("order %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("orders: find by id: %w", err)
	}
	return &order, nil
}

// FindByReference returns the order with the given payment reference.
func (r *OrderRepository) FindByReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	err := r.col.FindOne(ctx, bson.M{"reference": reference}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("order %q: %w", reference, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("orders: find by reference: %w", err)
	}
	return &order, nil
}

// FindByUserEmail returns all orders for an email, newest first.
// The email is expected to be normalized by the caller.
func (r *OrderRepository) FindByUserEmail(ctx context.Context, email string) ([]models.Order, error) {
	return r.findMany(ctx, bson.M{"userEmail": email})
}

// All returns every order, newest first.
func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *OrderRepository) findMany(ctx context.Context, filter bson.M) ([]models.Order, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("orders: find: %w", err)
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("orders: decode: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets the status of an order and returns the updated
// document. Transition legality is the service's concern; this method
// only persists.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("order %q: %w", id, ErrNotFound)
	}

	defer metrics.ObserveDBQuery("update", time.Now())

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("order %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("orders: update status: %w", err)
	}
	return &order, nil
}

// Delete removes an order by hex id.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("order %q: %w", id, ErrNotFound)
	}

	defer metrics.ObserveDBQuery("delete", time.Now())

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("orders: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("order %q: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the number of orders matching the filter. An empty
// filter counts the whole collection.
func (r *OrderRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("orders: count: %w", err)
	}
	return n, nil
}
