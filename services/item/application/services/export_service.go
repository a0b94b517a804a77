package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ghuser/itemforge/pkg/cache"
	"github.com/ghuser/itemforge/pkg/logger"
	"github.com/ghuser/itemforge/pkg/telemetry"
	"github.com/ghuser/itemforge/services/item/domain/models"
	domainsvcs "github.com/ghuser/itemforge/services/item/domain/services"
)

// ExportCache is the rendered-export store used by ExportService.
// cache.ExportCache implements it.
type ExportCache interface {
	Get(ctx context.Context, workspaceID uuid.UUID, digest string) (*cache.CachedExport, error)
	Set(ctx context.Context, workspaceID uuid.UUID, templateFileName, digest string, export *cache.CachedExport) error
}

// ExportService renders templates for items. Renders are cached in Redis
// under the template's owner, so built-in template renders are shared by all
// workspaces.
type ExportService struct {
	templates *TemplateService
	cache     ExportCache
	metrics   *telemetry.ItemMetrics
	log       logger.Logger
}

// NewExportService returns an ExportService. exportCache may be nil.
func NewExportService(templates *TemplateService, exportCache ExportCache, metrics *telemetry.ItemMetrics, log logger.Logger) *ExportService {
	return &ExportService{
		templates: templates,
		cache:     exportCache,
		metrics:   metrics,
		log:       log,
	}
}

// Export renders the named template for item.
//
// Cache errors never fail an export: reads fall through to rendering and
// failed writes are logged.
func (s *ExportService) Export(ctx context.Context, workspaceID uuid.UUID, fileName string, item models.ItemDescription) (*models.ExportResult, error) {
	tmpl, err := s.templates.Get(ctx, workspaceID, fileName)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	ext := tmpl.FileName.Ext()
	digest := cache.ExportDigest(tmpl.FileName.String(), tmpl.Content, item.Material, item.Name, item.Lore)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, tmpl.WorkspaceID, digest)
		switch {
		case err == nil:
			s.metrics.Export(ctx, ext, true)
			return &models.ExportResult{
				FileName:    cached.FileName,
				ContentType: cached.ContentType,
				Content:     cached.Content,
			}, nil
		case !errors.Is(err, redis.Nil):
			s.log.WarnContext(ctx, "export cache read failed", "template", tmpl.FileName, "error", err)
		}
	}

	result := domainsvcs.Export(tmpl, item)

	if s.cache != nil {
		if err := s.cache.Set(ctx, tmpl.WorkspaceID, tmpl.FileName.String(), digest, &cache.CachedExport{
			FileName:    result.FileName,
			ContentType: result.ContentType,
			Content:     result.Content,
		}); err != nil {
			s.log.WarnContext(ctx, "export cache write failed", "template", tmpl.FileName, "error", err)
		}
	}

	s.metrics.Export(ctx, ext, false)
	return &result, nil
}
