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

// SubmissionRepository handles persistence for spiritual submissions.
type SubmissionRepository struct {
	col *mongo.Collection
}

func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{col: database.Collection(database.ColSubmissions)}
}

// NewSubmissionRepositoryWith wires an explicit collection. Used in tests.
func NewSubmissionRepositoryWith(col *mongo.Collection) *SubmissionRepository {
	return &SubmissionRepository{col: col}
}

// Create inserts a submission.
func (r *SubmissionRepository) Create(ctx context.Context, s *models.Submission) error {
	s.CreatedAt = time.Now().UTC()

	res, err := r.col.InsertOne(ctx, s)
	if err != nil {
		return fmt.Errorf("submissions: create: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid
	}
	return nil
}

// All returns submissions newest first.
func (r *SubmissionRepository) All(ctx context.Context) ([]models.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("submissions: find: %w", err)
	}
	defer cur.Close(ctx)

	subs := []models.Submission{}
	if err := cur.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("submissions: decode: %w", err)
	}
	return subs, nil
}
