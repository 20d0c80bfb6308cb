package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/libraryapp/libraryapp/internal/model"
)

// Cache keys for the aggregate reads.
const (
	bookStatsKey   = "stats:books_by_category"
	loanedCountKey = "stats:loaned_count"
)

// ErrCacheMiss is returned when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// GetBookStats retrieves the cached per-category book counts.
// Returns ErrCacheMiss if not cached.
func (c *Cache) GetBookStats(ctx context.Context) ([]model.BookStat, error) {
	result, err := c.client.HGetAll(ctx, bookStatsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}
	if len(result) == 0 {
		return nil, ErrCacheMiss
	}

	stats := make([]model.BookStat, 0, len(result))
	for category, raw := range result {
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt cached count for %q: %w", category, err)
		}
		stats = append(stats, model.BookStat{
			Category: model.Category(category),
			Count:    count,
		})
	}

	return stats, nil
}

// SetBookStats stores the per-category book counts as a Redis hash.
// An empty catalog is not cached; the hash would be indistinguishable
// from a miss.
func (c *Cache) SetBookStats(ctx context.Context, stats []model.BookStat) error {
	if len(stats) == 0 {
		return nil
	}

	fields := make(map[string]any, len(stats))
	for _, stat := range stats {
		fields[string(stat.Category)] = strconv.FormatInt(stat.Count, 10)
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, bookStatsKey)
	pipe.HSet(ctx, bookStatsKey, fields)
	pipe.Expire(ctx, bookStatsKey, c.statsTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set book stats failed: %w", err)
	}

	return nil
}

// InvalidateBookStats drops the cached per-category counts.
func (c *Cache) InvalidateBookStats(ctx context.Context) error {
	if err := c.client.Del(ctx, bookStatsKey).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// GetLoanedCount retrieves the cached count of outstanding loans.
// Returns ErrCacheMiss if not cached.
func (c *Cache) GetLoanedCount(ctx context.Context) (int64, error) {
	raw, err := c.client.Get(ctx, loanedCountKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("redis get failed: %w", err)
	}

	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt cached loaned count: %w", err)
	}

	return count, nil
}

// SetLoanedCount stores the count of outstanding loans.
func (c *Cache) SetLoanedCount(ctx context.Context, count int64) error {
	err := c.client.Set(ctx, loanedCountKey, strconv.FormatInt(count, 10), c.statsTTL).Err()
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// InvalidateLoanedCount drops the cached loan count.
func (c *Cache) InvalidateLoanedCount(ctx context.Context) error {
	if err := c.client.Del(ctx, loanedCountKey).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}
