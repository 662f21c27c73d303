// Package cache provides a Redis-backed cross-query result cache. The
// per-query postings dedup lives in the evaluator; this layer sits outside
// the engine core and memoises whole results between queries.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/internal/searcher"
	"github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/config"
	pkgredis "github.com/Sriram-Venkatesan-R/Query-Tree-Search-Engine/pkg/redis"
)

const keyPrefix = "qtree:"

// ResultCache memoises searcher results in Redis, collapsing concurrent
// identical queries into a single evaluation via singleflight.
type ResultCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a ResultCache.
func New(client *pkgredis.Client, cfg config.RedisConfig) *ResultCache {
	return &ResultCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "result-cache"),
	}
}

// Get returns the cached result for the query, if present.
func (c *ResultCache) Get(ctx context.Context, rawQuery string, withTrace bool) (*searcher.Result, bool) {
	key := c.buildKey(rawQuery, withTrace)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var result searcher.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return &result, true
}

// Set stores a result with the configured TTL.
func (c *ResultCache) Set(ctx context.Context, rawQuery string, withTrace bool, result *searcher.Result) {
	key := c.buildKey(rawQuery, withTrace)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result or computes, caches, and returns a
// fresh one. The boolean reports whether the result came from the cache.
func (c *ResultCache) GetOrCompute(
	ctx context.Context,
	rawQuery string,
	withTrace bool,
	computeFn func() (*searcher.Result, error),
) (*searcher.Result, bool, error) {
	if result, ok := c.Get(ctx, rawQuery, withTrace); ok {
		return result, true, nil
	}
	key := c.buildKey(rawQuery, withTrace)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if result, ok := c.Get(ctx, rawQuery, withTrace); ok {
			return result, nil
		}
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, rawQuery, withTrace, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*searcher.Result), false, nil
}

// Invalidate removes every cached result, e.g. after the index changes.
func (c *ResultCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating result cache: %w", err)
	}
	c.logger.Info("result cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns the hit and miss counters.
func (c *ResultCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *ResultCache) buildKey(rawQuery string, withTrace bool) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(rawQuery)), " ")
	raw := fmt.Sprintf("%s:trace=%t", normalized, withTrace)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
