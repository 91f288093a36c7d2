package service

import (
	"context"
	"os"
	"testing"
	"time"

	"courseflow/internal/testutil"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// newTestRedis connects to REDIS_ADDR and skips the test when it is unset.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping Redis test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping redis: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestCachedEnrollmentStore(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()
	store := testutil.NewStore()
	cached := NewCachedEnrollmentStore(store, rdb, time.Minute, zerolog.Nop())

	const courseID = 424242
	key := enrollmentCacheKey(learnerID, courseID)
	rdb.Del(ctx, key)
	t.Cleanup(func() { rdb.Del(context.Background(), key) })

	purchased, err := cached.HasPurchased(ctx, learnerID, courseID)
	if err != nil || purchased {
		t.Fatalf("expected no purchase, got %v err=%v", purchased, err)
	}
	if n, _ := rdb.Exists(ctx, key).Result(); n != 0 {
		t.Fatal("negative answers must not be cached")
	}

	store.Enroll(learnerID, courseID)
	purchased, err = cached.HasPurchased(ctx, learnerID, courseID)
	if err != nil || !purchased {
		t.Fatalf("expected purchase, got %v err=%v", purchased, err)
	}
	calls := store.CallCount("HasPurchased")

	purchased, err = cached.HasPurchased(ctx, learnerID, courseID)
	if err != nil || !purchased {
		t.Fatalf("expected cached purchase, got %v err=%v", purchased, err)
	}
	if store.CallCount("HasPurchased") != calls {
		t.Fatal("cached answer should not reach the database")
	}
}

func TestCachedEnrollmentStore_FallsBackWhenRedisDown(t *testing.T) {
	store := testutil.NewStore()
	store.Enroll(learnerID, 7)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	cached := NewCachedEnrollmentStore(store, rdb, time.Minute, zerolog.Nop())

	purchased, err := cached.HasPurchased(context.Background(), learnerID, 7)
	if err != nil || !purchased {
		t.Fatalf("expected fallback to database, got %v err=%v", purchased, err)
	}
}
