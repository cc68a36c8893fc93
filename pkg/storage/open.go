package storage

import (
	"context"
	"fmt"

	"github.com/Sternrassler/seatgeek-snapshot/pkg/snapshot"
	"github.com/redis/go-redis/v9"
)

// Supported storage backends.
const (
	BackendMongo = "mongo"
	BackendRedis = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	RedisAddr      string
	RedisDB        int
	RedisKeyPrefix string
}

// DefaultOptions returns the MongoDB backend on the local default endpoint.
func DefaultOptions() Options {
	return Options{
		Backend:         BackendMongo,
		MongoURI:        DefaultMongoURI,
		MongoDatabase:   DefaultMongoDatabase,
		MongoCollection: DefaultMongoCollection,
		RedisAddr:       "localhost:6379",
		RedisKeyPrefix:  DefaultRedisKeyPrefix,
	}
}

// CloseFunc releases the connection behind a store.
type CloseFunc func(ctx context.Context) error

// Open connects to the configured backend and returns its store.
func Open(ctx context.Context, opts Options) (snapshot.Store, CloseFunc, error) {
	switch opts.Backend {
	case BackendMongo:
		client, err := ConnectMongo(ctx, opts.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		return NewMongoStore(client, opts.MongoDatabase, opts.MongoCollection), client.Disconnect, nil

	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr: opts.RedisAddr,
			DB:   opts.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		closeFn := func(context.Context) error { return client.Close() }
		return NewRedisStore(client, opts.RedisKeyPrefix), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q (want %q or %q)", opts.Backend, BackendMongo, BackendRedis)
	}
}
