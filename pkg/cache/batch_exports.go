package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultBatchExportTTL applies when NewBatchExportStore is given a non-positive TTL.
const DefaultBatchExportTTL = 24 * time.Hour

const batchExportPrefix = "export_batch"

// BatchExportStore holds the files rendered by an export batch until the
// client downloads them. The workflow result only references them by index.
//
// Key format: "export_batch:{batchID}:{index}"
type BatchExportStore struct {
	client *RedisClient
	ttl    time.Duration
}

// NewBatchExportStore creates a BatchExportStore backed by the given RedisClient.
func NewBatchExportStore(r *RedisClient, ttl time.Duration) *BatchExportStore {
	if ttl <= 0 {
		ttl = DefaultBatchExportTTL
	}
	return &BatchExportStore{client: r, ttl: ttl}
}

// Put stores one rendered file of a batch. Activity retries overwrite the
// same key.
func (s *BatchExportStore) Put(ctx context.Context, batchID string, index int, workspaceID uuid.UUID, export *CachedExport) error {
	key := batchExportKey(batchID, index)

	pipe := s.client.Client().TxPipeline()
	pipe.HSet(ctx, key,
		"workspace_id", workspaceID.String(),
		"file_name", export.FileName,
		"content_type", export.ContentType,
		"content", export.Content,
	)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("batch export put: %w", err)
	}
	return nil
}

// Get returns redis.Nil when the file is missing, expired or belongs to
// another workspace.
func (s *BatchExportStore) Get(ctx context.Context, batchID string, index int, workspaceID uuid.UUID) (*CachedExport, error) {
	vals, err := s.client.Client().HGetAll(ctx, batchExportKey(batchID, index)).Result()
	if err != nil {
		return nil, fmt.Errorf("batch export get: %w", err)
	}
	if len(vals) == 0 || vals["workspace_id"] != workspaceID.String() {
		return nil, redis.Nil
	}
	return &CachedExport{
		FileName:    vals["file_name"],
		ContentType: vals["content_type"],
		Content:     vals["content"],
	}, nil
}

func batchExportKey(batchID string, index int) string {
	return fmt.Sprintf("%s:%s:%d", batchExportPrefix, batchID, index)
}
