package redis

import (
	"context"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/frahmantamala/maintenance-management/internal"
)

// NewClient connects to Redis. An unreachable server is logged, not fatal; the
// health endpoint reports it.
func NewClient(cfg internal.RedisConfig, logger *slog.Logger) *goredis.Client {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis", "addr", cfg.Addr, "error", err)
	} else {
		logger.Info("connected to redis", "addr", cfg.Addr)
	}

	return client
}
