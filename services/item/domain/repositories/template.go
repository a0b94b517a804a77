package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/itemforge/services/item/domain/models"
)

// TemplateRepository is the persistence interface for workspace export templates.
// The domain layer owns this interface; infrastructure implements it.
type TemplateRepository interface {
	// Save stores a new template. Returns ErrTemplateAlreadyExists when the
	// workspace already has a template with the same file name.
	Save(ctx context.Context, tmpl *models.ExportTemplate) error

	// GetByName returns ErrTemplateNotFound when no template matches.
	GetByName(ctx context.Context, workspaceID uuid.UUID, name models.TemplateFileName) (*models.ExportTemplate, error)

	// ListByWorkspace returns the workspace's templates ordered by file name.
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*models.ExportTemplate, error)

	// Delete returns ErrTemplateNotFound when nothing was deleted.
	Delete(ctx context.Context, workspaceID uuid.UUID, name models.TemplateFileName) error
}

// BuiltinTemplates is the read-only source of templates shipped with the service.
type BuiltinTemplates interface {
	Get(name models.TemplateFileName) (*models.ExportTemplate, error)
	List() ([]*models.ExportTemplate, error)
}
