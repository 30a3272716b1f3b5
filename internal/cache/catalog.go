// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"folio/internal/models"
)

const (
	// keyPrefix namespaces every key this cache writes.
	keyPrefix = "catalog:"

	treeKey = keyPrefix + "tree"

	// DefaultTTL is how long cached catalog data is trusted.
	DefaultTTL = 10 * time.Minute
)

// CatalogCache stores JSON snapshots of catalog lookups in Valkey. A nil
// *CatalogCache is valid and always misses, so the service runs without
// Valkey.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a cache backed by the given Valkey client.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if client == nil {
		return nil
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// Tree returns the cached flat category rows, or false on a miss.
func (c *CatalogCache) Tree(ctx context.Context) ([]models.Category, bool) {
	var rows []models.Category
	if !c.get(ctx, treeKey, &rows) {
		return nil, false
	}
	return rows, true
}

// SetTree caches the flat category rows.
func (c *CatalogCache) SetTree(ctx context.Context, rows []models.Category) {
	c.set(ctx, treeKey, rows)
}

// InvalidateTree drops the cached category rows. Called after any change
// to a category's parent, title or order.
func (c *CatalogCache) InvalidateTree(ctx context.Context) {
	c.del(ctx, treeKey)
}

// Lookup decodes the cached list stored under name into dst.
func (c *CatalogCache) Lookup(ctx context.Context, name string, dst any) bool {
	return c.get(ctx, LookupKey(name), dst)
}

// SetLookup caches a lookup list such as authors or publishers.
func (c *CatalogCache) SetLookup(ctx context.Context, name string, v any) {
	c.set(ctx, LookupKey(name), v)
}

// InvalidateAll removes every catalog key by scanning for the prefix.
func (c *CatalogCache) InvalidateAll(ctx context.Context) {
	if c == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("catalog cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("catalog cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("catalog cache cleared", "deleted", deleted)
	}
}

// LookupKey returns the cache key for a named lookup list.
func LookupKey(name string) string {
	return keyPrefix + "lookup:" + name
}

func (c *CatalogCache) get(ctx context.Context, key string, dst any) bool {
	if c == nil {
		return false
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		slog.Warn("catalog cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		slog.Warn("catalog cache decode error", "key", key, "error", err)
		return false
	}
	slog.Debug("catalog cache hit", "key", key)
	return true
}

func (c *CatalogCache) set(ctx context.Context, key string, v any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("catalog cache encode error", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Warn("catalog cache set error", "key", key, "error", err)
	}
}

func (c *CatalogCache) del(ctx context.Context, key string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		slog.Warn("catalog cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("catalog cache invalidated", "key", key)
}
