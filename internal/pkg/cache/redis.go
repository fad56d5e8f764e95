package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Pesokrava/review_moderation/internal/config"
	"github.com/Pesokrava/review_moderation/internal/pkg/logger"
)

// NewRedisClient creates a Redis client and verifies it with a ping
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// WaitForRedis retries NewRedisClient until it succeeds or maxRetries is reached
func WaitForRedis(cfg *config.Config, log *logger.Logger, maxRetries int, retryDelay time.Duration) (*redis.Client, error) {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		var client *redis.Client
		client, err = NewRedisClient(cfg)
		if err == nil {
			return client, nil
		}

		log.WithFields(map[string]any{
			"attempt": attempt,
			"addr":    cfg.GetRedisAddr(),
		}).Warnf("Redis not ready: %v", err)

		if attempt < maxRetries {
			time.Sleep(retryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to Redis after %d retries: %w", maxRetries, err)
}
