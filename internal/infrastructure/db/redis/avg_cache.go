package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const avgCacheTTL = 10 * time.Minute

// AverageCache memoizes per-movie rating aggregates in Redis.
// Key format: rating_avg:<movie_id>, value "<avg>:<count>".
//
// Consistency rule: the rating engine deletes the key after every successful
// insert, so a read never returns an aggregate older than the latest write.
// The TTL only bounds staleness if an invalidation is lost.
type AverageCache struct {
	client *redis.Client
}

// NewAverageCache creates an AverageCache wrapping the given Redis client.
func NewAverageCache(client *redis.Client) *AverageCache {
	return &AverageCache{client: client}
}

func (c *AverageCache) Get(ctx context.Context, movieID string) (float64, int64, bool, error) {
	val, err := c.client.Get(ctx, c.key(movieID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("average cache get: %w", err)
	}

	var avg float64
	var count int64
	if _, err := fmt.Sscanf(val, "%f:%d", &avg, &count); err != nil {
		// Unparseable entry: treat as a miss so it gets rewritten.
		return 0, 0, false, nil
	}
	return avg, count, true, nil
}

func (c *AverageCache) Set(ctx context.Context, movieID string, avg float64, count int64) error {
	val := fmt.Sprintf("%f:%d", avg, count)
	if err := c.client.Set(ctx, c.key(movieID), val, avgCacheTTL).Err(); err != nil {
		return fmt.Errorf("average cache set: %w", err)
	}
	return nil
}

func (c *AverageCache) Invalidate(ctx context.Context, movieID string) error {
	if err := c.client.Del(ctx, c.key(movieID)).Err(); err != nil {
		return fmt.Errorf("average cache invalidate: %w", err)
	}
	return nil
}

func (c *AverageCache) key(movieID string) string {
	return "rating_avg:" + movieID
}
