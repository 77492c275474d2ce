package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/taskforge/task-tracker-api/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Database wraps the Mongo client and the application database handle.
// It is constructed once at startup and injected into the repositories.
type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes the Mongo connection, verifies it with a ping, and
// creates the indexes the application relies on.
func Connect(ctx context.Context, cfg *config.Config) (*Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	d := &Database{
		client: client,
		db:     client.Database(cfg.DBName),
	}

	if err := d.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	log.Println("Connected to MongoDB")
	return d, nil
}

// Collection returns a handle to the named collection.
func (d *Database) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// Close releases the Mongo connection.
func (d *Database) Close(ctx context.Context) error {
	if d.client == nil {
		return nil
	}
	return d.client.Disconnect(ctx)
}

// ensureIndexes creates the unique email index and the task lookup
// indexes. Email uniqueness is enforced here, at the persistence layer.
func (d *Database) ensureIndexes(ctx context.Context) error {
	users := d.db.Collection("users")
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}

	tasks := d.db.Collection("tasks")
	_, err = tasks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create tasks indexes: %w", err)
	}

	return nil
}
