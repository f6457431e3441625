package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SetQueryResult caches the positions a storefront query selected.
func (s *Store) SetQueryResult(ctx context.Context, query string, positions []int, ttl time.Duration) error {
	data, err := json.Marshal(positions)
	if err != nil {
		return fmt.Errorf("failed to marshal query result: %w", err)
	}
	if err := s.client.Set(ctx, QueryKey(query), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache query result: %w", err)
	}
	return nil
}

// GetQueryResult returns a cached query result. ok is false on a miss.
func (s *Store) GetQueryResult(ctx context.Context, query string) ([]int, bool, error) {
	data, err := s.client.Get(ctx, QueryKey(query)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // Cache miss
		}
		return nil, false, fmt.Errorf("failed to get cached query: %w", err)
	}

	var positions []int
	if err := json.Unmarshal(data, &positions); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached query: %w", err)
	}
	return positions, true, nil
}

// FlushQueries removes every cached query result.
func (s *Store) FlushQueries(ctx context.Context) (int, error) {
	deleted := 0
	iter := s.client.Scan(ctx, 0, KeyPrefixQuery+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("failed to delete cache key: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to flush query cache: %w", err)
	}
	return deleted, nil
}
