package database

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisErr    error
	redisOnce   sync.Once
)

// RedisOptions configures the quota Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// InitRedis connects to Redis once per process and pings it.
func InitRedis(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	redisOnce.Do(func() {
		client := redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			redisErr = fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
			return
		}
		slog.Info("[Database] redis connection established", "addr", opts.Addr, "db", opts.DB)
		redisClient = client
	})
	return redisClient, redisErr
}
