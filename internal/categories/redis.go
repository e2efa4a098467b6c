package categories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps mappings as fields of one Redis hash, one field per
// incident key. Fields that fail to decode read as missing.
type RedisStore struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

// NewRedisStore creates a store over the hash at key.
func NewRedisStore(client *redis.Client, key string, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		key:    key,
		logger: logger.With("store", "redis"),
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (Mapping, bool, error) {
	value, err := s.client.HGet(ctx, s.key, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Mapping{}, false, nil
	}
	if err != nil {
		return Mapping{}, false, fmt.Errorf("redis hget %s: %w", s.key, err)
	}

	m, err := decodeMapping(value)
	if err != nil {
		s.logger.Warn("category mapping skipped", "field", key, "error", err)
		return Mapping{}, false, nil
	}
	return m, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, m Mapping) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}

	if err := s.client.HSet(ctx, s.key, key, data).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", s.key, err)
	}
	return nil
}

// PutIfAbsent uses HSETNX so concurrent writers agree on the first mapping.
// A malformed existing field is replaced.
func (s *RedisStore) PutIfAbsent(ctx context.Context, key string, m Mapping) (Mapping, bool, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return Mapping{}, false, fmt.Errorf("encode mapping: %w", err)
	}

	set, err := s.client.HSetNX(ctx, s.key, key, data).Result()
	if err != nil {
		return Mapping{}, false, fmt.Errorf("redis hsetnx %s: %w", s.key, err)
	}
	if set {
		return m, true, nil
	}

	existing, ok, err := s.Get(ctx, key)
	if err != nil {
		return Mapping{}, false, err
	}
	if ok {
		return existing, false, nil
	}

	if err := s.Put(ctx, key, m); err != nil {
		return Mapping{}, false, err
	}
	return m, true, nil
}
