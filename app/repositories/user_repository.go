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

// UserRepository handles persistence for shop accounts.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository() *UserRepository {
	return &UserRepository{col: database.Collection(database.ColUsers)}
}

// NewUserRepositoryWith wires an explicit collection. Used in tests.
func NewUserRepositoryWith(col *mongo.Collection) *UserRepository {
	return &UserRepository{col: col}
}

// Create inserts a new user. An email collision surfaces as ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %q: %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("users: create: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// FindByEmail looks up a user by normalized email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("users: find by email: %w", err)
	}
	return &user, nil
}

// FindByID looks up a user by hex id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", id, ErrNotFound)
	}

	var user models.User
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("user %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("users: find by id: %w", err)
	}
	return &user, nil
}

// UpdateFields applies a partial update to the user by email.
func (r *UserRepository) UpdateFields(ctx context.Context, email string, fields bson.M) error {
	fields["updatedAt"] = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("users: update: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	return nil
}

// Delete removes a user by normalized email.
func (r *UserRepository) Delete(ctx context.Context, email string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return fmt.Errorf("users: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	return nil
}

// All returns users newest first. Password hashes stay in the struct
// but are excluded from JSON by the model tags.
func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("users: find: %w", err)
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("users: decode: %w", err)
	}
	return users, nil
}
