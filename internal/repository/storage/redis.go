package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Storage wraps the redis client backing the match archive.
type Storage struct {
	Client *redis.Client
}

// New connects to redis and verifies the connection with a ping.
func New(ctx context.Context, addr string) (*Storage, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Storage{Client: client}, nil
}

// Close releases the underlying connection pool.
func (that *Storage) Close() error {
	if err := that.Client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}
