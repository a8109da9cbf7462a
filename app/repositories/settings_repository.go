package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/pkg/database"
)

// settingsKey pins the one settings document in the collection.
const settingsKey = "shop"

// SettingsRepository handles the single shop settings document.
type SettingsRepository struct {
	col *mongo.Collection
}

func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{col: database.Collection(database.ColSettings)}
}

// NewSettingsRepositoryWith wires an explicit collection. Used in tests.
func NewSettingsRepositoryWith(col *mongo.Collection) *SettingsRepository {
	return &SettingsRepository{col: col}
}

// Get returns the current settings. A missing document yields zero
// settings rather than an error: the shop works before first save.
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var doc struct {
		Key      string          `bson:"_id"`
		Settings models.Settings `bson:"settings"`
	}
	err := r.col.FindOne(ctx, bson.M{"_id": settingsKey}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return &models.Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings: get: %w", err)
	}
	return &doc.Settings, nil
}

// Save upserts the settings document.
func (r *SettingsRepository) Save(ctx context.Context, s *models.Settings) error {
	s.UpdatedAt = time.Now().UTC()

	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": settingsKey},
		bson.M{"$set": bson.M{"settings": s}},
		opts,
	)
	if err != nil {
		return fmt.Errorf("settings: save: %w", err)
	}
	return nil
}
