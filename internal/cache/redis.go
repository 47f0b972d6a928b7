// Package cache memoizes computed dashboard summaries in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mamadbah2/washify/internal/domain/models"
)

const (
	keyPrefix   = "washify:summary:"
	pingTimeout = 5 * time.Second
)

// NewRedisClient parses a redis:// URL and checks the server is reachable.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opt.PoolSize = 50
	opt.MinIdleConns = 5
	opt.ConnMaxIdleTime = 200 * time.Second

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisCache stores summaries as JSON under per-user versioned keys. Bumping
// the user's version invalidates every cached filter at once; stale entries
// expire through their TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache wraps client with the given entry TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func versionKey(userID string) string {
	return keyPrefix + userID + ":version"
}

func entryKey(userID string, version int64, filterKey string) string {
	return fmt.Sprintf("%s%s:v%d:%s", keyPrefix, userID, version, filterKey)
}

func (c *RedisCache) version(ctx context.Context, userID string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// GetSummary returns the cached summary, if any, along with the cache
// version it was looked up under. A miss must be filled through SetSummary
// with that version.
func (c *RedisCache) GetSummary(ctx context.Context, userID, filterKey string) (models.Summary, int64, bool, error) {
	version, err := c.version(ctx, userID)
	if err != nil {
		return models.Summary{}, 0, false, fmt.Errorf("read cache version: %w", err)
	}

	raw, err := c.client.Get(ctx, entryKey(userID, version, filterKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Summary{}, version, false, nil
	}
	if err != nil {
		return models.Summary{}, version, false, fmt.Errorf("read cached summary: %w", err)
	}

	var summary models.Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return models.Summary{}, version, false, fmt.Errorf("decode cached summary: %w", err)
	}
	return summary, version, true, nil
}

// SetSummary caches summary under version, the value GetSummary reported
// before the summary was computed. If the user was invalidated in between,
// the entry lands under a version nobody reads and expires through its TTL.
func (c *RedisCache) SetSummary(ctx context.Context, userID string, version int64, filterKey string, summary models.Summary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := c.client.Set(ctx, entryKey(userID, version, filterKey), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("write cached summary: %w", err)
	}
	return nil
}

// Invalidate drops every cached summary of the user.
func (c *RedisCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Incr(ctx, versionKey(userID)).Err(); err != nil {
		return fmt.Errorf("bump cache version: %w", err)
	}
	c.logger.Debug("summary cache invalidated", zap.String("user_id", userID))
	return nil
}
