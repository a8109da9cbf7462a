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

// ProductRepository handles persistence for the catalogue.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{col: database.Collection(database.ColProducts)}
}

// NewProductRepositoryWith wires an explicit collection. Used in tests.
func NewProductRepositoryWith(col *mongo.Collection) *ProductRepository {
	return &ProductRepository{col: col}
}

// Create inserts a product.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("products: create: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// All returns the catalogue, newest first.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("products: find: %w", err)
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("products: decode: %w", err)
	}
	return products, nil
}

// FindByID returns the product with the given hex id.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", id, ErrNotFound)
	}

	var p models.Product
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("product %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("products: find by id: %w", err)
	}
	return &p, nil
}

// Update replaces the mutable fields of a product.
func (r *ProductRepository) Update(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("product %q: %w", id, ErrNotFound)
	}

	fields["updatedAt"] = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("products: update: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product %q: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a product by hex id.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("product %q: %w", id, ErrNotFound)
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("product %q: %w", id, ErrNotFound)
	}
	return nil
}
