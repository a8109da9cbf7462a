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

// PostRepository handles persistence for CMS posts.
type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository() *PostRepository {
	return &PostRepository{col: database.Collection(database.ColPosts)}
}

// NewPostRepositoryWith wires an explicit collection. Used in tests.
func NewPostRepositoryWith(col *mongo.Collection) *PostRepository {
	return &PostRepository{col: col}
}

// Create inserts a post.
func (r *PostRepository) Create(ctx context.Context, p *models.Post) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("posts: create: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// All returns posts newest first.
func (r *PostRepository) All(ctx context.Context) ([]models.Post, error) {
	return r.findMany(ctx, bson.M{}, 0)
}

// Published returns published posts newest first, capped at limit
// (0 means no cap). Serves the public storefront feed.
func (r *PostRepository) Published(ctx context.Context, limit int64) ([]models.Post, error) {
	return r.findMany(ctx, bson.M{"status": models.PostStatusPublished}, limit)
}

func (r *PostRepository) findMany(ctx context.Context, filter bson.M, limit int64) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("posts: find: %w", err)
	}
	defer cur.Close(ctx)

	posts := []models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("posts: decode: %w", err)
	}
	return posts, nil
}

// FindByID returns the post with the given hex id.
func (r *PostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("post %q: %w", id, ErrNotFound)
	}

	var p models.Post
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("post %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("posts: find by id: %w", err)
	}
	return &p, nil
}

// Update applies a partial update and returns the updated post.
func (r *PostRepository) Update(ctx context.Context, id string, fields bson.M) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("post %q: %w", id, ErrNotFound)
	}

	fields["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Post
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("post %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("posts: update: %w", err)
	}
	return &p, nil
}

// PublishDue flips scheduled posts whose publishAt has passed to
// published. Returns how many were promoted.
func (r *PostRepository) PublishDue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{
			"status":    models.PostStatusScheduled,
			"publishAt": bson.M{"$lte": now},
		},
		bson.M{"$set": bson.M{
			"status":    models.PostStatusPublished,
			"updatedAt": now,
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("posts: publish due: %w", err)
	}
	return res.ModifiedCount, nil
}

// Increment bumps a numeric counter field (views, likes) by one and
// returns the updated post.
func (r *PostRepository) Increment(ctx context.Context, id, field string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("post %q: %w", id, ErrNotFound)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Post
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{field: 1}}, opts).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("post %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("posts: increment %s: %w", field, err)
	}
	return &p, nil
}

// Delete removes a post by hex id.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("post %q: %w", id, ErrNotFound)
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("posts: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("post %q: %w", id, ErrNotFound)
	}
	return nil
}
