// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// list.go provides a Valkey-backed cache for public listing responses.
// Content changes rarely compared to how often the website reads it, so
// serialized JSON listings are kept in Valkey and dropped on every write
// to the kind they cover.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"sitecraft/internal/models"
)

const (
	// listKeyPrefix is the Valkey key prefix for cached listings.
	listKeyPrefix = "list:"

	// DefaultListTTL is how long a listing stays cached without
	// invalidation.
	DefaultListTTL = 5 * time.Minute
)

// ListCache manages cached listing responses in Valkey.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a new listing cache backed by the given Valkey client.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl == 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

// Key builds the cache key for one listing. The category filter is part
// of the key so filtered and unfiltered views cache independently.
func Key(section models.Section, kind, category string) string {
	return fmt.Sprintf("%s:%s:%s", section, kind, category)
}

// Get retrieves a cached listing. Returns false on miss or error.
func (lc *ListCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := lc.client.Get(ctx, listKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("list cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("list cache hit", "key", key)
	return val, true
}

// Set stores a serialized listing with the configured TTL.
func (lc *ListCache) Set(ctx context.Context, key string, body []byte) {
	if err := lc.client.Set(ctx, listKeyPrefix+key, body, lc.ttl).Err(); err != nil {
		slog.Warn("list cache set error", "key", key, "error", err)
	}
}

// InvalidateKind drops every cached listing of one content kind,
// category-filtered variants included. Called after each write.
func (lc *ListCache) InvalidateKind(ctx context.Context, section models.Section, kind string) {
	lc.invalidatePattern(ctx, fmt.Sprintf("%s%s:%s:*", listKeyPrefix, section, kind))
}

// InvalidateSection drops every cached listing of a section. Used on
// category operations, which can touch several kinds at once.
func (lc *ListCache) InvalidateSection(ctx context.Context, section models.Section) {
	lc.invalidatePattern(ctx, fmt.Sprintf("%s%s:*", listKeyPrefix, section))
}

// invalidatePattern removes matching keys by scanning for the pattern.
func (lc *ListCache) invalidatePattern(ctx context.Context, pattern string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := lc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("list cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := lc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("list cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("list cache invalidated", "pattern", pattern, "deleted", deleted)
	}
}
