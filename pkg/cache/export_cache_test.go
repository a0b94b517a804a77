package cache

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestExportDigest(t *testing.T) {
	base := ExportDigest("item.yml", "%item_entity%", "DIAMOND_SWORD", "Excalibur", []string{"a", "b"})

	if len(base) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(base))
	}
	if again := ExportDigest("item.yml", "%item_entity%", "DIAMOND_SWORD", "Excalibur", []string{"a", "b"}); again != base {
		t.Fatal("digest is not deterministic")
	}

	tests := []struct {
		name   string
		digest string
	}{
		{"template name", ExportDigest("item.json", "%item_entity%", "DIAMOND_SWORD", "Excalibur", []string{"a", "b"})},
		{"template content", ExportDigest("item.yml", "%item_display_name%", "DIAMOND_SWORD", "Excalibur", []string{"a", "b"})},
		{"material", ExportDigest("item.yml", "%item_entity%", "STICK", "Excalibur", []string{"a", "b"})},
		{"name", ExportDigest("item.yml", "%item_entity%", "DIAMOND_SWORD", "Other", []string{"a", "b"})},
		{"lore order", ExportDigest("item.yml", "%item_entity%", "DIAMOND_SWORD", "Excalibur", []string{"b", "a"})},
		{"lore boundary", ExportDigest("item.yml", "%item_entity%", "DIAMOND_SWORD", "Excalibur", []string{"ab"})},
		{"field boundary", ExportDigest("item.yml", "%item_entity%", "DIAMOND_SWORDE", "xcalibur", []string{"a", "b"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.digest == base {
				t.Fatalf("expected %s change to alter the digest", tt.name)
			}
		})
	}
}

func TestExportDigest_EmptyVsMissingLore(t *testing.T) {
	if ExportDigest("a.txt", "", "", "", nil) != ExportDigest("a.txt", "", "", "", []string{}) {
		t.Fatal("nil and empty lore should render identically and share a digest")
	}
	if ExportDigest("a.txt", "", "", "", nil) == ExportDigest("a.txt", "", "", "", []string{""}) {
		t.Fatal("a single empty lore line must differ from no lore")
	}
}

func TestExportKeys(t *testing.T) {
	ws := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	if got := exportKey(ws, "abc"); got != "export:11111111-1111-1111-1111-111111111111:abc" {
		t.Errorf("exportKey: got %q", got)
	}
	if got := exportIndexKey(ws, "item.yml"); !strings.HasPrefix(got, "export_index:") || !strings.HasSuffix(got, ":item.yml") {
		t.Errorf("exportIndexKey: got %q", got)
	}
}

func TestNewExportCache_DefaultTTL(t *testing.T) {
	c := NewExportCache(&RedisClient{}, 0)
	if c.ttl != DefaultExportCacheTTL {
		t.Fatalf("expected default TTL, got %v", c.ttl)
	}
	c = NewExportCache(&RedisClient{}, time.Minute)
	if c.ttl != time.Minute {
		t.Fatalf("expected 1m TTL, got %v", c.ttl)
	}
}

// Integration tests: skipped unless REDIS_URL is set.
func TestExportCacheIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}

	rc, err := NewRedisClient(newTestConfig(redisURL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close() //nolint:errcheck

	ctx := context.Background()
	c := NewExportCache(rc, time.Minute)
	ws := uuid.New()
	digest := ExportDigest("item.yml", "%item_entity%", "STONE", "", nil)

	if _, err := c.Get(ctx, ws, digest); !errors.Is(err, redis.Nil) {
		t.Fatalf("expected redis.Nil for missing entry, got %v", err)
	}

	want := &CachedExport{FileName: "STONE_item.yml", ContentType: "text/yaml", Content: "STONE"}
	if err := c.Set(ctx, ws, "item.yml", digest, want); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := c.Get(ctx, ws, digest)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if *got != *want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	n, err := c.InvalidateTemplate(ctx, ws, "item.yml")
	if err != nil {
		t.Fatalf("InvalidateTemplate failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 entry removed, got %d", n)
	}
	if _, err := c.Get(ctx, ws, digest); !errors.Is(err, redis.Nil) {
		t.Fatalf("expected redis.Nil after invalidation, got %v", err)
	}
}
