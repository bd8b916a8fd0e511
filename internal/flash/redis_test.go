package flash

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server: SUSTAINAWATT_TEST_REDIS_ADDR=localhost:6379 go test ./internal/flash
func newRedisStore(t *testing.T) (*RedisStore, *redis.Client) {
	t.Helper()
	addr := os.Getenv("SUSTAINAWATT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SUSTAINAWATT_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, rdb.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb), rdb
}

func TestRedisStore_PushPopOrder(t *testing.T) {
	s, rdb := newRedisStore(t)
	ctx := context.Background()
	id := uuid.NewString()
	t.Cleanup(func() { rdb.Del(ctx, key(id)) })

	require.NoError(t, s.Push(ctx, id, Message{Category: Error, Text: "first"}))
	require.NoError(t, s.Push(ctx, id, Message{Category: Success, Text: "second"}))

	msgs, err := s.Pop(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []Message{{Error, "first"}, {Success, "second"}}, msgs)

	n, err := rdb.Exists(ctx, key(id)).Result()
	require.NoError(t, err)
	assert.Zero(t, n, "pop must delete the list")

	msgs, err = s.Pop(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestRedisStore_PushSetsTTL(t *testing.T) {
	s, rdb := newRedisStore(t)
	ctx := context.Background()
	id := uuid.NewString()
	t.Cleanup(func() { rdb.Del(ctx, key(id)) })

	require.NoError(t, s.Push(ctx, id, Message{Category: Info, Text: "hi"}))

	ttl, err := rdb.TTL(ctx, key(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, TTL)
}

func TestRedisStore_PopUnknownID(t *testing.T) {
	s, _ := newRedisStore(t)

	msgs, err := s.Pop(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestRedisStore_PopCorruptEntry(t *testing.T) {
	s, rdb := newRedisStore(t)
	ctx := context.Background()
	id := uuid.NewString()
	t.Cleanup(func() { rdb.Del(ctx, key(id)) })

	require.NoError(t, rdb.RPush(ctx, key(id), "not json").Err())

	_, err := s.Pop(ctx, id)
	assert.ErrorContains(t, err, "decode flash")
}
