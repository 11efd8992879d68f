package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storybook-server/internal/models"
)

// Compile-time check
var _ Store = (*redisStore)(nil)

type redisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore creates a Redis-backed Store. Keys are namespaced as
// "{namespace}:{key}" inside a single logical database.
func NewRedisStore(client *redis.Client, logger *zap.Logger) Store {
	return &redisStore{
		client: client,
		logger: logger.Named("RedisStore"),
	}
}

func redisKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s", namespace, key)
}

func (s *redisStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, redisKey(namespace, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrKeyNotFound
		}
		s.logger.Error("Failed to get key from redis",
			zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to get key from redis: %w", err)
	}
	return val, nil
}

func (s *redisStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	// TTL нет: сохраненные материалы и черновики живут до явного удаления.
	if err := s.client.Set(ctx, redisKey(namespace, key), value, 0).Err(); err != nil {
		s.logger.Error("Failed to set key in redis",
			zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to set key in redis: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, namespace, key string) error {
	if err := s.client.Del(ctx, redisKey(namespace, key)).Err(); err != nil {
		s.logger.Error("Failed to delete key from redis",
			zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete key from redis: %w", err)
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
