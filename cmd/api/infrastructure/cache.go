package infrastructure

import (
	"context"
	"fmt"

	"user-auth-service/internal/config"
	redisclient "user-auth-service/pkg/redis"

	"go.uber.org/zap"
)

// NewRedisClient connects to the Redis instance backing the user cache and
// the rate limiter.
func NewRedisClient(ctx context.Context, cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	rdb, err := redisclient.NewClient(ctx, redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}
