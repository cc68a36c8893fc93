package storage

import (
	"context"
	"fmt"

	"github.com/Sternrassler/seatgeek-snapshot/pkg/snapshot"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Defaults for the MongoDB backend.
const (
	DefaultMongoURI        = "mongodb://localhost"
	DefaultMongoDatabase   = "seatgeek"
	DefaultMongoCollection = "resultsets"
)

// documentInserter is the part of *mongo.Collection the store uses.
type documentInserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// MongoStore writes each snapshot as one document into a collection.
type MongoStore struct {
	coll   documentInserter
	logger zerolog.Logger
}

// NewMongoStore creates a store writing to database.collection.
func NewMongoStore(client *mongo.Client, database, collection string) *MongoStore {
	if client == nil {
		panic("mongo client cannot be nil")
	}
	return newMongoStore(client.Database(database).Collection(collection))
}

func newMongoStore(coll documentInserter) *MongoStore {
	return &MongoStore{
		coll:   coll,
		logger: log.With().Str("component", "mongo-store").Logger(),
	}
}

// ConnectMongo connects to uri and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Insert stores s as a single document.
func (m *MongoStore) Insert(ctx context.Context, s *snapshot.Snapshot) error {
	if s == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}

	res, err := m.coll.InsertOne(ctx, s)
	if err != nil {
		StoreInserts.WithLabelValues(BackendMongo, "error").Inc()
		return fmt.Errorf("mongo insert: %w", err)
	}

	StoreInserts.WithLabelValues(BackendMongo, "ok").Inc()
	StoredEvents.WithLabelValues(BackendMongo).Set(float64(s.Len()))

	m.logger.Debug().
		Str("run_id", s.RunID).
		Interface("inserted_id", res.InsertedID).
		Int("events", s.Len()).
		Msg("Snapshot stored")

	return nil
}
