package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultExportCacheTTL applies when NewExportCache is given a non-positive TTL.
	DefaultExportCacheTTL = 24 * time.Hour

	exportKeyPrefix   = "export"
	exportIndexPrefix = "export_index"
)

// CachedExport is a rendered template stored as a Redis hash.
type CachedExport struct {
	FileName    string
	ContentType string
	Content     string
}

// ExportCache stores rendered exports keyed by workspace and a digest of the
// template and item that produced them. Every key is also recorded in a
// per-template index set so a template change can drop its renders.
//
// Key format: "export:{workspaceID}:{digest}"
// Index format: "export_index:{workspaceID}:{templateFileName}"
type ExportCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewExportCache creates an ExportCache backed by the given RedisClient.
func NewExportCache(r *RedisClient, ttl time.Duration) *ExportCache {
	if ttl <= 0 {
		ttl = DefaultExportCacheTTL
	}
	return &ExportCache{client: r, ttl: ttl}
}

// ExportDigest hashes everything that determines a render's output. Fields are
// length-prefixed so ("ab", "c") and ("a", "bc") never collide.
func ExportDigest(templateFileName, templateContent, material, name string, lore []string) string {
	h := sha256.New()
	write := func(s string) {
		_, _ = fmt.Fprintf(h, "%d:%s", len(s), s)
	}
	write(templateFileName)
	write(templateContent)
	write(material)
	write(name)
	_, _ = fmt.Fprintf(h, "#%d", len(lore))
	for _, line := range lore {
		write(line)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns redis.Nil when the entry is missing or expired.
func (c *ExportCache) Get(ctx context.Context, workspaceID uuid.UUID, digest string) (*CachedExport, error) {
	vals, err := c.client.Client().HGetAll(ctx, exportKey(workspaceID, digest)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	return &CachedExport{
		FileName:    vals["file_name"],
		ContentType: vals["content_type"],
		Content:     vals["content"],
	}, nil
}

// Set writes the export and indexes it under its template in one pipeline.
func (c *ExportCache) Set(ctx context.Context, workspaceID uuid.UUID, templateFileName, digest string, export *CachedExport) error {
	key := exportKey(workspaceID, digest)
	index := exportIndexKey(workspaceID, templateFileName)

	pipe := c.client.Client().TxPipeline()
	pipe.HSet(ctx, key,
		"file_name", export.FileName,
		"content_type", export.ContentType,
		"content", export.Content,
	)
	pipe.Expire(ctx, key, c.ttl)
	pipe.SAdd(ctx, index, key)
	pipe.Expire(ctx, index, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// InvalidateTemplate drops every cached render of the workspace's template.
// It returns the number of entries removed.
func (c *ExportCache) InvalidateTemplate(ctx context.Context, workspaceID uuid.UUID, templateFileName string) (int64, error) {
	index := exportIndexKey(workspaceID, templateFileName)
	keys, err := c.client.Client().SMembers(ctx, index).Result()
	if err != nil {
		return 0, fmt.Errorf("cache invalidate: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	pipe := c.client.Client().TxPipeline()
	del := pipe.Del(ctx, keys...)
	pipe.Del(ctx, index)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("cache invalidate: %w", err)
	}
	return del.Val(), nil
}

func exportKey(workspaceID uuid.UUID, digest string) string {
	return fmt.Sprintf("%s:%s:%s", exportKeyPrefix, workspaceID, digest)
}

func exportIndexKey(workspaceID uuid.UUID, templateFileName string) string {
	return fmt.Sprintf("%s:%s:%s", exportIndexPrefix, workspaceID, templateFileName)
}
