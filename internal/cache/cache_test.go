// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"sitecraft/internal/models"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "list:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, "")
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	// Verify connection.
	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestListCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	lc := NewListCache(client, 1*time.Minute)

	ctx := context.Background()
	key := Key(models.SectionHero, "text", "")

	// Miss.
	data, ok := lc.Get(ctx, key)
	if ok {
		t.Error("expected cache miss")
	}
	if data != nil {
		t.Error("expected nil data on miss")
	}

	// Set.
	body := []byte(`[{"title":"Hero"}]`)
	lc.Set(ctx, key, body)

	// Hit.
	data, ok = lc.Get(ctx, key)
	if !ok {
		t.Error("expected cache hit")
	}
	if string(data) != string(body) {
		t.Errorf("data mismatch: got %q, want %q", data, body)
	}
}

func TestListCacheInvalidateKind(t *testing.T) {
	client := testValkeyClient(t)
	lc := NewListCache(client, 1*time.Minute)

	ctx := context.Background()

	// Filtered and unfiltered variants of the same kind.
	lc.Set(ctx, Key(models.SectionInterior, "image", ""), []byte("all"))
	lc.Set(ctx, Key(models.SectionInterior, "image", "modern"), []byte("modern"))
	// A different kind in the same section must survive.
	lc.Set(ctx, Key(models.SectionInterior, "text", ""), []byte("texts"))

	lc.InvalidateKind(ctx, models.SectionInterior, "image")

	if _, ok := lc.Get(ctx, Key(models.SectionInterior, "image", "")); ok {
		t.Error("expected miss for unfiltered variant after invalidation")
	}
	if _, ok := lc.Get(ctx, Key(models.SectionInterior, "image", "modern")); ok {
		t.Error("expected miss for filtered variant after invalidation")
	}
	if _, ok := lc.Get(ctx, Key(models.SectionInterior, "text", "")); !ok {
		t.Error("other kind was invalidated too")
	}
}

func TestListCacheInvalidateSection(t *testing.T) {
	client := testValkeyClient(t)
	lc := NewListCache(client, 1*time.Minute)

	ctx := context.Background()

	lc.Set(ctx, Key(models.SectionInterior, "image", ""), []byte("a"))
	lc.Set(ctx, Key(models.SectionInterior, "text", ""), []byte("b"))
	lc.Set(ctx, Key(models.SectionHero, "text", ""), []byte("c"))

	lc.InvalidateSection(ctx, models.SectionInterior)

	if _, ok := lc.Get(ctx, Key(models.SectionInterior, "image", "")); ok {
		t.Error("expected miss for interior image after section invalidation")
	}
	if _, ok := lc.Get(ctx, Key(models.SectionInterior, "text", "")); ok {
		t.Error("expected miss for interior text after section invalidation")
	}
	if _, ok := lc.Get(ctx, Key(models.SectionHero, "text", "")); !ok {
		t.Error("other section was invalidated too")
	}
}

func TestKey(t *testing.T) {
	if got := Key(models.SectionInterior, "image", "modern"); got != "interior:image:modern" {
		t.Errorf("Key: got %q", got)
	}
	if got := Key(models.SectionHero, "text", ""); got != "hero:text:" {
		t.Errorf("Key: got %q", got)
	}
}

func TestNewListCacheDefaultTTL(t *testing.T) {
	client := testValkeyClient(t)

	// TTL = 0 should use default.
	lc := NewListCache(client, 0)
	if lc.ttl != DefaultListTTL {
		t.Errorf("expected DefaultListTTL (%v), got %v", DefaultListTTL, lc.ttl)
	}
}
