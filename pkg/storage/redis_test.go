package storage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Sternrassler/seatgeek-snapshot/pkg/snapshot"
	"github.com/redis/go-redis/v9"
)

// setupTestRedis connects to a local Redis and skips when none is running.
// The integration tests use testcontainers-go instead.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewRedisStore(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	store := NewRedisStore(client, "")
	if store.prefix != DefaultRedisKeyPrefix {
		t.Errorf("prefix = %q, want %q", store.prefix, DefaultRedisKeyPrefix)
	}
	if got := store.SnapshotKey("abc"); got != "seatgeek:resultsets:abc" {
		t.Errorf("SnapshotKey() = %q", got)
	}
	if got := store.IndexKey(); got != "seatgeek:resultsets:index" {
		t.Errorf("IndexKey() = %q", got)
	}
}

func TestNewRedisStore_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewRedisStore should panic with nil redis client")
		}
	}()
	NewRedisStore(nil, "")
}

func TestRedisStore_InsertValidation(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()
	store := NewRedisStore(client, "test")

	if err := store.Insert(context.Background(), nil); err == nil {
		t.Error("expected error for nil snapshot")
	}
	if err := store.Insert(context.Background(), &snapshot.Snapshot{}); err == nil {
		t.Error("expected error for empty run id")
	}
}

func TestRedisStore_Insert(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRedisStore(client, "test:resultsets")
	ctx := context.Background()

	snap := sampleSnapshot()
	if err := store.Insert(ctx, snap); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	data, err := client.Get(ctx, store.SnapshotKey(snap.RunID)).Bytes()
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	var got snapshot.Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("stored value is not JSON: %v", err)
	}
	if got.RunID != snap.RunID || got.Country != "us" || got.Len() != 1 {
		t.Errorf("stored snapshot = %+v", got)
	}
	if got.Events[0].Score != nil {
		t.Errorf("null score round-tripped as %v", *got.Events[0].Score)
	}

	ids, err := client.LRange(ctx, store.IndexKey(), 0, -1).Result()
	if err != nil {
		t.Fatalf("LRange() failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != snap.RunID {
		t.Errorf("index = %v, want [%s]", ids, snap.RunID)
	}
}
