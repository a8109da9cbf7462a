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
)

// NotificationRepository logs admin-sent notifications.
type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{col: database.Collection(database.ColNotifications)}
}

// NewNotificationRepositoryWith wires an explicit collection. Used in tests.
func NewNotificationRepositoryWith(col *mongo.Collection) *NotificationRepository {
	return &NotificationRepository{col: col}
}

// Create inserts a notification record.
func (r *NotificationRepository) Create(ctx context.Context, n *models.NotificationRecord) error {
	n.CreatedAt = time.Now().UTC()

	res, err := r.col.InsertOne(ctx, n)
	if err != nil {
		return fmt.Errorf("notifications: create: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return nil
}

// MarkRead flags a record as read and returns the updated document.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) (*models.NotificationRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("notification %q: %w", id, ErrNotFound)
	}

	update := bson.M{"$set": bson.M{"read": true}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var record models.NotificationRecord
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("notification %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("notifications: mark read: %w", err)
	}
	return &record, nil
}

// Delete removes a record by hex id.
func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("notification %q: %w", id, ErrNotFound)
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("notifications: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("notification %q: %w", id, ErrNotFound)
	}
	return nil
}

// All returns notification records newest first.
func (r *NotificationRepository) All(ctx context.Context) ([]models.NotificationRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("notifications: find: %w", err)
	}
	defer cur.Close(ctx)

	records := []models.NotificationRecord{}
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("notifications: decode: %w", err)
	}
	return records, nil
}
