package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Pesokrava/review_moderation/internal/domain"
)

// RedisCache caches per-product review statistics
type RedisCache struct {
	client   *redis.Client
	statsTTL time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(client *redis.Client, statsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   client,
		statsTTL: statsTTL,
	}
}

func productStatsKey(productID int64) string {
	return fmt.Sprintf("product:%d:review_stats", productID)
}

// The generation key is bumped by every invalidation. A read-through fill
// only lands if the generation it observed on the miss is still current.
func productStatsGenKey(productID int64) string {
	return fmt.Sprintf("product:%d:review_stats:gen", productID)
}

// GetProductStats returns cached stats. On a miss it returns
// domain.ErrNotFound with the generation to pass to SetProductStats.
func (c *RedisCache) GetProductStats(ctx context.Context, productID int64) (*domain.ProductStats, int64, error) {
	vals, err := c.client.MGet(ctx, productStatsKey(productID), productStatsGenKey(productID)).Result()
	if err != nil {
		return nil, 0, err
	}

	generation, err := parseGeneration(vals[1])
	if err != nil {
		return nil, 0, err
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, generation, domain.ErrNotFound
	}

	var stats domain.ProductStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil, generation, fmt.Errorf("decode cached stats: %w", err)
	}
	return &stats, generation, nil
}

// SetProductStats stores stats for the configured TTL unless the product
// was invalidated after generation was read. A skipped write is not an error.
func (c *RedisCache) SetProductStats(ctx context.Context, stats *domain.ProductStats, generation int64) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	key, genKey := productStatsKey(stats.ProductID), productStatsGenKey(stats.ProductID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.statsTTL)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// InvalidateProductStats drops cached stats for a product and bumps its
// generation so fills computed before the call are discarded
func (c *RedisCache) InvalidateProductStats(ctx context.Context, productID int64) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, productStatsGenKey(productID))
		pipe.Unlink(ctx, productStatsKey(productID))
		return nil
	})
	return err
}

func parseGeneration(v any) (int64, error) {
	switch g := v.(type) {
	case nil:
		return 0, nil
	case string:
		n, err := strconv.ParseInt(g, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("decode stats generation: %w", err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("decode stats generation: unexpected %T", v)
	}
}

// NoopCache satisfies the stats cache contract without storing anything.
// It is used when Redis is disabled.
type NoopCache struct{}

func (NoopCache) GetProductStats(context.Context, int64) (*domain.ProductStats, int64, error) {
	return nil, 0, domain.ErrNotFound
}

func (NoopCache) SetProductStats(context.Context, *domain.ProductStats, int64) error { return nil }

func (NoopCache) InvalidateProductStats(context.Context, int64) error { return nil }
