package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Sternrassler/seatgeek-snapshot/pkg/snapshot"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultRedisKeyPrefix namespaces snapshot keys in Redis.
const DefaultRedisKeyPrefix = "seatgeek:resultsets"

// RedisStore writes each snapshot as a JSON value and records its run ID in
// an index list.
//
// Layout:
//
//	<prefix>:<run_id>  -> snapshot JSON
//	<prefix>:index     -> list of run IDs in insert order
type RedisStore struct {
	redis  *redis.Client
	prefix string
	logger zerolog.Logger
}

// NewRedisStore creates a store with the given key prefix.
func NewRedisStore(redisClient *redis.Client, prefix string) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisStore{
		redis:  redisClient,
		prefix: prefix,
		logger: log.With().Str("component", "redis-store").Logger(),
	}
}

// SnapshotKey returns the key holding the snapshot of runID.
func (r *RedisStore) SnapshotKey(runID string) string {
	return r.prefix + ":" + runID
}

// IndexKey returns the key of the run ID list.
func (r *RedisStore) IndexKey() string {
	return r.prefix + ":index"
}

// Insert stores s and appends its run ID to the index atomically.
func (r *RedisStore) Insert(ctx context.Context, s *snapshot.Snapshot) error {
	if s == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}
	if s.RunID == "" {
		return fmt.Errorf("snapshot run id is required")
	}

	data, err := json.Marshal(s)
	if err != nil {
		StoreInserts.WithLabelValues(BackendRedis, "error").Inc()
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.SnapshotKey(s.RunID), data, 0)
		pipe.RPush(ctx, r.IndexKey(), s.RunID)
		return nil
	})
	if err != nil {
		StoreInserts.WithLabelValues(BackendRedis, "error").Inc()
		return fmt.Errorf("redis insert: %w", err)
	}

	StoreInserts.WithLabelValues(BackendRedis, "ok").Inc()
	StoredEvents.WithLabelValues(BackendRedis).Set(float64(s.Len()))

	r.logger.Debug().
		Str("run_id", s.RunID).
		Int("bytes", len(data)).
		Int("events", s.Len()).
		Msg("Snapshot stored")

	return nil
}
