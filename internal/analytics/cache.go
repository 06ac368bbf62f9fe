package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/platewise/platewise-backend/pkg/logger"
	"github.com/platewise/platewise-backend/pkg/redis"
)

// Cache keeps rendered reports in Redis, keyed by a per-restaurant dataset
// generation. Ingestion bumps the generation instead of deleting keys, so
// stale entries just age out through the TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logg   *logger.Logger
}

// NewCache builds a report cache. client may be nil when Redis is disabled;
// every method then degrades to a no-op.
func NewCache(client *redis.Client, ttl time.Duration, logg *logger.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logg: logg}
}

// Get returns the cached report for the current generation, or nil on miss.
func (c *Cache) Get(ctx context.Context, restaurantID uuid.UUID, scope string) *Report {
	if c == nil || c.client == nil {
		return nil
	}

	key, err := c.reportKey(ctx, restaurantID, scope)
	if err != nil {
		return nil
	}

	raw, err := c.client.Get(ctx, key)
	if err != nil {
		if !redis.IsNil(err) && c.logg != nil {
			c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "analytics cache read failed")
		}
		return nil
	}

	var report Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil
	}
	return &report
}

// Set stores the report under the current generation.
func (c *Cache) Set(ctx context.Context, restaurantID uuid.UUID, scope string, report *Report) {
	if c == nil || c.client == nil || report == nil {
		return
	}

	key, err := c.reportKey(ctx, restaurantID, scope)
	if err != nil {
		return
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, string(raw), c.ttl); err != nil && c.logg != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "analytics cache write failed")
	}
}

// BumpGeneration invalidates every cached report for the restaurant.
func (c *Cache) BumpGeneration(ctx context.Context, restaurantID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}
	_, err := c.client.Incr(ctx, c.client.GenerationKey(restaurantID.String()))
	if err != nil {
		return fmt.Errorf("bumping analytics generation: %w", err)
	}
	return nil
}

func (c *Cache) reportKey(ctx context.Context, restaurantID uuid.UUID, scope string) (string, error) {
	gen := int64(0)
	raw, err := c.client.Get(ctx, c.client.GenerationKey(restaurantID.String()))
	switch {
	case err == nil:
		parsed, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			return "", parseErr
		}
		gen = parsed
	case redis.IsNil(err):
		// first access, generation zero
	default:
		return "", err
	}
	return c.client.AnalyticsKey(restaurantID.String(), gen, scope), nil
}

// ScopeKey renders a date range as a cache scope segment.
func ScopeKey(start, end *time.Time) string {
	if start == nil && end == nil {
		return "all"
	}
	s, e := "open", "open"
	if start != nil {
		s = start.Format("2006-01-02")
	}
	if end != nil {
		e = end.Format("2006-01-02")
	}
	return s + ".." + e
}
