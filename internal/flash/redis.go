package flash

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisStore keeps each client's pending messages in a Redis list that
// expires after TTL.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func key(id string) string { return "flash:" + id }

func (s *RedisStore) Push(ctx context.Context, id string, msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, key(id), b)
		p.Expire(ctx, key(id), TTL)
		return nil
	})
	return err
}

func (s *RedisStore) Pop(ctx context.Context, id string) ([]Message, error) {
	var items *redis.StringSliceCmd
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		items = p.LRange(ctx, key(id), 0, -1)
		p.Del(ctx, key(id))
		return nil
	})
	if err != nil {
		return nil, err
	}

	raw := items.Val()
	msgs := make([]Message, 0, len(raw))
	for _, s := range raw {
		var m Message
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return nil, fmt.Errorf("decode flash: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
