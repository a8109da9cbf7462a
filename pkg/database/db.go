// Package database owns the MongoDB connection and the index set the
// application relies on. The unique index on orders.reference is the
// single authority for duplicate detection, so EnsureIndexes must run
// before the server starts taking writes.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pentshop/pentshop/config"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

// Collection names.
const (
	ColOrders        = "orders"
	ColUsers         = "users"
	ColProducts      = "products"
	ColPosts         = "posts"
	ColSubmissions   = "spiritual_submissions"
	ColSettings      = "settings"
	ColNotifications = "notifications"
)

// Connect opens the MongoDB client and verifies it with a ping.
func Connect(ctx context.Context) error {
	opts := options.Client().ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(50)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("database: ping: %w", err)
	}

	Client = client
	DB = client.Database(config.MongoDB())
	return nil
}

// Collection returns a handle on the named collection.
func Collection(name string) *mongo.Collection {
	return DB.Collection(name)
}

// EnsureIndexes creates the indexes the application depends on.
// Safe to run repeatedly; Mongo treats identical definitions as a no-op.
func EnsureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		models []mongo.IndexModel
	}

	unique := options.Index().SetUnique(true)

	all := []idx{
		{ColOrders, []mongo.IndexModel{
			{Keys: bson.D{{Key: "reference", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		}},
		{ColUsers, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		}},
		{ColPosts, []mongo.IndexModel{
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		}},
		{ColSubmissions, []mongo.IndexModel{
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		}},
	}

	for _, i := range all {
		if _, err := DB.Collection(i.col).Indexes().CreateMany(ctx, i.models); err != nil {
			return fmt.Errorf("database: ensure indexes on %s: %w", i.col, err)
		}
	}
	return nil
}

// Health pings the server with a short deadline. Used by /api/health.
func Health(ctx context.Context) error {
	if Client == nil {
		return fmt.Errorf("database: not connected")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return Client.Ping(pingCtx, nil)
}

// Disconnect closes the client, flushing in-flight operations.
func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}
