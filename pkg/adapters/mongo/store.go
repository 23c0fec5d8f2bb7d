// Package mongo stores slots as documents of a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/introspection"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aretw0/jot/pkg/core"
)

const (
	DefaultDatabase   = "jot"
	DefaultCollection = "slots"
)

// Config holds the connection settings.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// slot is the stored document, keyed by the slot key.
type slot struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Store implements core.Store with one document per key.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	config Config
	now    func() time.Time
}

// Connect dials the server and verifies it with a ping.
func Connect(ctx context.Context, config Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return NewStore(client, config), nil
}

// NewStore wraps an existing client. Close disconnects it.
func NewStore(client *mongo.Client, config Config) *Store {
	if config.Database == "" {
		config.Database = DefaultDatabase
	}
	if config.Collection == "" {
		config.Collection = DefaultCollection
	}
	return &Store{
		client: client,
		coll:   client.Database(config.Database).Collection(config.Collection),
		config: config,
		now:    time.Now,
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var doc slot
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find slot %s: %w", key, err)
	}
	return doc.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	update := bson.M{"$set": bson.M{
		"value":      value,
		"updated_at": s.now().UTC(),
	}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert slot %s: %w", key, err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Database   string `json:"database"`
	Collection string `json:"collection"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return StoreState{Database: s.config.Database, Collection: s.config.Collection}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "mongo-store"
}

var _ core.Store = (*Store)(nil)
var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
