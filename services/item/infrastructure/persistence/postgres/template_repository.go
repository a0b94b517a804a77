package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/itemforge/pkg/database"
	"github.com/ghuser/itemforge/pkg/events"
	itemdomain "github.com/ghuser/itemforge/services/item/domain"
	domainevents "github.com/ghuser/itemforge/services/item/domain/events"
	"github.com/ghuser/itemforge/services/item/domain/models"
	"github.com/ghuser/itemforge/services/item/infrastructure/persistence/postgres/db"
)

// uniqueViolation is the Postgres SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

// TemplateRepository implements repositories.TemplateRepository against PostgreSQL.
type TemplateRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewTemplateRepository returns a TemplateRepository backed by the given pool
// and event bus. The bus publishes TemplateUploadedEvents in the saving
// transaction; pass nil to skip publishing.
func NewTemplateRepository(database *database.Database, bus *events.EventBus) *TemplateRepository {
	return &TemplateRepository{db: database, bus: bus}
}

// Save persists a new template and publishes a TemplateUploadedEvent within the same transaction.
// Returns ErrTemplateAlreadyExists on unique constraint violations.
func (r *TemplateRepository) Save(ctx context.Context, tmpl *models.ExportTemplate) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		if err := q.InsertTemplate(ctx, db.InsertTemplateParams{
			ID:          tmpl.ID,
			WorkspaceID: tmpl.WorkspaceID,
			FileName:    tmpl.FileName.String(),
			Content:     tmpl.Content,
			CreatedAt:   tmpl.CreatedAt,
		}); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return itemdomain.ErrTemplateAlreadyExists
			}
			return fmt.Errorf("insert template: %w", err)
		}

		if r.bus != nil {
			if err := r.publishUploaded(tx, tmpl); err != nil {
				return fmt.Errorf("publish template uploaded: %w", err)
			}
		}
		return nil
	})
}

// GetByName returns ErrTemplateNotFound if the workspace has no such template.
func (r *TemplateRepository) GetByName(ctx context.Context, workspaceID uuid.UUID, name models.TemplateFileName) (*models.ExportTemplate, error) {
	q := db.New(r.db.DB())
	row, err := q.GetTemplateByName(ctx, db.GetTemplateByNameParams{
		WorkspaceID: workspaceID,
		FileName:    name.String(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, itemdomain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("query template: %w", err)
	}
	return rowToTemplate(row), nil
}

// ListByWorkspace returns the workspace's templates ordered by file name.
func (r *TemplateRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*models.ExportTemplate, error) {
	rows, err := db.New(r.db.DB()).ListTemplatesByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}

	templates := make([]*models.ExportTemplate, len(rows))
	for i, row := range rows {
		templates[i] = rowToTemplate(row)
	}
	return templates, nil
}

// Delete removes a template. Returns ErrTemplateNotFound if nothing matched.
func (r *TemplateRepository) Delete(ctx context.Context, workspaceID uuid.UUID, name models.TemplateFileName) error {
	n, err := db.New(r.db.DB()).DeleteTemplate(ctx, db.DeleteTemplateParams{
		WorkspaceID: workspaceID,
		FileName:    name.String(),
	})
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if n == 0 {
		return itemdomain.ErrTemplateNotFound
	}
	return nil
}

func (r *TemplateRepository) publishUploaded(tx *sql.Tx, tmpl *models.ExportTemplate) error {
	event := domainevents.TemplateUploadedEvent{
		EventID:     uuid.New(),
		Version:     1,
		TemplateID:  tmpl.ID,
		WorkspaceID: tmpl.WorkspaceID,
		FileName:    tmpl.FileName.String(),
		OccurredAt:  tmpl.CreatedAt,
	}
	msg, err := events.NewJSONMessage(event.EventID.String(), event.Version, event)
	if err != nil {
		return err
	}
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(domainevents.TopicTemplateUploaded, msg)
}

// rowToTemplate maps a db.ItemExportTemplate to a domain models.ExportTemplate.
func rowToTemplate(row db.ItemExportTemplate) *models.ExportTemplate {
	return &models.ExportTemplate{
		ID:          row.ID,
		WorkspaceID: row.WorkspaceID,
		FileName:    models.TemplateFileName(row.FileName),
		Content:     row.Content,
		CreatedAt:   row.CreatedAt,
	}
}
