package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/jobnest/jobnest-backend/config"
	"github.com/jobnest/jobnest-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// New opens a Redis client and verifies the connection.
// The caller owns the client and must Close it on shutdown.
func New(cfg *config.RedisConfig) (*redis.Client, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return client, nil
}

// Close closes the client if it was opened
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	logger.Info("Closing Redis connection")
	return client.Close()
}
