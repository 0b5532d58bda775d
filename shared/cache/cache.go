package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"unires/infras/otel"
)

const (
	otelScopeName         = "cache"
	otelCacheKeyAttribute = "cache.key"
	scanBatch             = 200
	Nil                   = redis.Nil
)

// RedisCache stores JSON values with a TTL in seconds. Get returns an error
// wrapping Nil on a miss.
type RedisCache interface {
	Save(ctx context.Context, key string, value any, duration int) (err error)
	Get(ctx context.Context, key string, value any) (err error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context, pattern string) error
	Incr(ctx context.Context, key string, window int) (int64, error)
}

type redisCache struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisCache(client *redis.Client, ot otel.Otel) RedisCache {
	return &redisCache{
		client: client,
		otel:   ot,
	}
}

func (cache *redisCache) scope(ctx context.Context, op, key string) (context.Context, otel.Scope) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+"."+op)
	scope.SetAttribute(otelCacheKeyAttribute, key)

	return ctx, scope
}

// Clear unlinks every key matching pattern, scanning in batches.
func (cache *redisCache) Clear(ctx context.Context, pattern string) (err error) {
	ctx, scope := cache.scope(ctx, "Clear", pattern)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var cursor uint64

	for {
		var keys []string

		keys, cursor, err = cache.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			if err = cache.client.Unlink(ctx, keys...).Err(); err != nil {
				log.Error().Err(err).Str("pattern", pattern).Msg("failed to clear cache")

				return fmt.Errorf("failed to delete cache values: %w", err)
			}
		}

		if cursor == 0 {
			return nil
		}
	}
}

func (cache *redisCache) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := cache.scope(ctx, "Delete", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = cache.client.Del(ctx, key).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to delete cache")

		return fmt.Errorf("failed to delete cache value: %w", err)
	}

	return nil
}

// Get decodes the stored value into value. A *string receives the raw value.
func (cache *redisCache) Get(ctx context.Context, key string, value any) (err error) {
	ctx, scope := cache.scope(ctx, "Get", key)
	defer scope.End()

	raw, err := cache.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("cache miss: %w", err)
	}

	defer func() { scope.TraceIfError(err) }()

	if err != nil {
		return fmt.Errorf("failed to get cache value: %w", err)
	}

	if v, ok := value.(*string); ok {
		*v = raw

		return nil
	}

	if err = json.Unmarshal([]byte(raw), value); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to unmarshal cache")

		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return nil
}

func (cache *redisCache) Save(ctx context.Context, key string, value any, duration int) (err error) {
	ctx, scope := cache.scope(ctx, "Save", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var payload []byte

	switch v := value.(type) {
	case string:
		payload = []byte(v)
	case []byte:
		payload = v
	default:
		if payload, err = json.Marshal(v); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to marshal cache")

			return fmt.Errorf("failed to marshal cache value: %w", err)
		}
	}

	if err = cache.client.Set(ctx, key, payload, time.Duration(duration)*time.Second).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to set cache")

		return fmt.Errorf("failed to set cache value: %w", err)
	}

	return nil
}

// Incr bumps a counter and starts its window on the first hit. The counter
// expires window seconds after that first hit.
func (cache *redisCache) Incr(ctx context.Context, key string, window int) (count int64, err error) {
	ctx, scope := cache.scope(ctx, "Incr", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	pipe := cache.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, time.Duration(window)*time.Second)

	if _, err = pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}

	return incr.Val(), nil
}
