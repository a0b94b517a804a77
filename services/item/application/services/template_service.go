package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/ghuser/itemforge/pkg/logger"
	"github.com/ghuser/itemforge/pkg/telemetry"
	itemdomain "github.com/ghuser/itemforge/services/item/domain"
	"github.com/ghuser/itemforge/services/item/domain/models"
	"github.com/ghuser/itemforge/services/item/domain/repositories"
	domainsvcs "github.com/ghuser/itemforge/services/item/domain/services"
)

type templateKey struct {
	workspaceID uuid.UUID
	name        models.TemplateFileName
}

// TemplateService manages workspace export templates. Lookups fall back to
// the built-in templates, so a workspace template shadows a built-in one of
// the same name.
//
// Resolved templates are kept in an in-process LRU. Other instances drop
// their entry through Evict when the item.template_uploaded event reaches
// them, or once it expires.
type TemplateService struct {
	repo     repositories.TemplateRepository
	builtins repositories.BuiltinTemplates
	cache    *expirable.LRU[templateKey, *models.ExportTemplate]
	metrics  *telemetry.ItemMetrics
	log      logger.Logger
}

// NewTemplateService returns a TemplateService caching up to cacheSize
// resolved templates for cacheTTL.
func NewTemplateService(
	repo repositories.TemplateRepository,
	builtins repositories.BuiltinTemplates,
	cacheSize int,
	cacheTTL time.Duration,
	metrics *telemetry.ItemMetrics,
	log logger.Logger,
) *TemplateService {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	return &TemplateService{
		repo:     repo,
		builtins: builtins,
		cache:    expirable.NewLRU[templateKey, *models.ExportTemplate](cacheSize, nil, cacheTTL),
		metrics:  metrics,
		log:      log,
	}
}

// Upload stores a new workspace template.
func (s *TemplateService) Upload(ctx context.Context, workspaceID uuid.UUID, fileName, content string) (*models.ExportTemplate, error) {
	name, err := parseTemplateName(fileName)
	if err != nil {
		return nil, err
	}

	tmpl := models.NewExportTemplate(workspaceID, name, content)
	if err := domainsvcs.ValidateTemplateForCreation(tmpl); err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidTemplate, err)
	}

	if err := s.repo.Save(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}
	s.cache.Remove(templateKey{workspaceID, name})

	s.log.InfoContext(ctx, "template uploaded",
		"workspace_id", workspaceID,
		"template", name,
		"bytes", len(content),
	)
	s.metrics.TemplateUploaded(ctx, name.Ext())
	return tmpl, nil
}

// Get resolves a template by name, checking the workspace before the built-ins.
func (s *TemplateService) Get(ctx context.Context, workspaceID uuid.UUID, fileName string) (*models.ExportTemplate, error) {
	name, err := parseTemplateName(fileName)
	if err != nil {
		return nil, err
	}

	key := templateKey{workspaceID, name}
	if tmpl, ok := s.cache.Get(key); ok {
		return tmpl, nil
	}

	tmpl, err := s.repo.GetByName(ctx, workspaceID, name)
	if errors.Is(err, itemdomain.ErrTemplateNotFound) {
		tmpl, err = s.builtins.Get(name)
	}
	if err != nil {
		return nil, fmt.Errorf("get template %s: %w", name, err)
	}

	s.cache.Add(key, tmpl)
	return tmpl, nil
}

// Evict drops the cached resolution of fileName for the workspace. It
// reports whether an entry was cached; invalid names report false.
func (s *TemplateService) Evict(workspaceID uuid.UUID, fileName string) bool {
	name, err := parseTemplateName(fileName)
	if err != nil {
		return false
	}
	return s.cache.Remove(templateKey{workspaceID, name})
}

// List returns the templates visible to the workspace ordered by file name.
func (s *TemplateService) List(ctx context.Context, workspaceID uuid.UUID) ([]*models.ExportTemplate, error) {
	builtins, err := s.builtins.List()
	if err != nil {
		return nil, fmt.Errorf("list built-in templates: %w", err)
	}
	own, err := s.repo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	byName := make(map[models.TemplateFileName]*models.ExportTemplate, len(builtins)+len(own))
	for _, t := range builtins {
		byName[t.FileName] = t
	}
	for _, t := range own {
		byName[t.FileName] = t
	}

	out := make([]*models.ExportTemplate, 0, len(byName))
	for _, t := range byName {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *models.ExportTemplate) int {
		switch {
		case a.FileName < b.FileName:
			return -1
		case a.FileName > b.FileName:
			return 1
		}
		return 0
	})
	return out, nil
}

// Delete removes a workspace template. Built-in templates cannot be deleted
// and report ErrTemplateNotFound.
func (s *TemplateService) Delete(ctx context.Context, workspaceID uuid.UUID, fileName string) error {
	name, err := parseTemplateName(fileName)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, workspaceID, name); err != nil {
		return fmt.Errorf("delete template %s: %w", name, err)
	}
	s.cache.Remove(templateKey{workspaceID, name})

	s.log.InfoContext(ctx, "template deleted", "workspace_id", workspaceID, "template", name)
	return nil
}

func parseTemplateName(fileName string) (models.TemplateFileName, error) {
	name, err := models.NewTemplateFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", itemdomain.ErrInvalidTemplateName, err)
	}
	if err := domainsvcs.ValidateTemplateName(name); err != nil {
		return "", fmt.Errorf("%w: %w", itemdomain.ErrInvalidTemplateName, err)
	}
	return name, nil
}
