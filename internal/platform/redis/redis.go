package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"giveaway-bot-backend/internal/common/config"
)

// Client wraps the go-redis client. The whole application shares a single
// handle; go-redis serializes command execution per connection internally.
type Client struct {
	*redis.Client
}

// Open connects to Redis using the application config and pings the server
// to validate the connection before anything is wired on top of it.
func Open(ctx context.Context, cfg *config.Config) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)

	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return &Client{Client: c}, nil
}
