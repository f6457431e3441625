package redis

import (
	"context"
	"fmt"
)

// IncrementViews counts one detail view of a product and returns the new
// total.
func (s *Store) IncrementViews(ctx context.Context, id int) (int64, error) {
	n, err := s.client.HIncrBy(ctx, KeyViews, ViewField(id), 1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment views: %w", err)
	}
	return n, nil
}

// ViewStats returns the view count of every product seen so far.
func (s *Store) ViewStats(ctx context.Context) (map[int]int64, error) {
	raw, err := s.client.HGetAll(ctx, KeyViews).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get view stats: %w", err)
	}

	stats := make(map[int]int64, len(raw))
	for field, value := range raw {
		id, err := ParseViewField(field)
		if err != nil {
			continue
		}
		var n int64
		if _, err := fmt.Sscan(value, &n); err != nil {
			continue
		}
		stats[id] = n
	}
	return stats, nil
}
