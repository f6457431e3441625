package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store keeps the storefront's disposable state in Redis: cached query
// results and product view counters. Losing it loses nothing durable.
type Store struct {
	client *redis.Client
}

// NewStore wraps a connected client.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
