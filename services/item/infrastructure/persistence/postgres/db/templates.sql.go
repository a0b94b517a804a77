package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ItemExportTemplate mirrors a row of item.export_templates.
type ItemExportTemplate struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	FileName    string
	Content     string
	CreatedAt   time.Time
}

const insertTemplate = `
INSERT INTO item.export_templates (id, workspace_id, file_name, content, created_at)
VALUES ($1, $2, $3, $4, $5)
`

type InsertTemplateParams struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	FileName    string
	Content     string
	CreatedAt   time.Time
}

func (q *Queries) InsertTemplate(ctx context.Context, arg InsertTemplateParams) error {
	_, err := q.db.ExecContext(ctx, insertTemplate,
		arg.ID,
		arg.WorkspaceID,
		arg.FileName,
		arg.Content,
		arg.CreatedAt,
	)
	return err
}

const getTemplateByName = `
SELECT id, workspace_id, file_name, content, created_at
FROM item.export_templates
WHERE workspace_id = $1 AND file_name = $2
`

type GetTemplateByNameParams struct {
	WorkspaceID uuid.UUID
	FileName    string
}

func (q *Queries) GetTemplateByName(ctx context.Context, arg GetTemplateByNameParams) (ItemExportTemplate, error) {
	row := q.db.QueryRowContext(ctx, getTemplateByName, arg.WorkspaceID, arg.FileName)
	var i ItemExportTemplate
	err := row.Scan(
		&i.ID,
		&i.WorkspaceID,
		&i.FileName,
		&i.Content,
		&i.CreatedAt,
	)
	return i, err
}

const listTemplatesByWorkspace = `
SELECT id, workspace_id, file_name, content, created_at
FROM item.export_templates
WHERE workspace_id = $1
ORDER BY file_name
`

func (q *Queries) ListTemplatesByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]ItemExportTemplate, error) {
	rows, err := q.db.QueryContext(ctx, listTemplatesByWorkspace, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ItemExportTemplate
	for rows.Next() {
		var i ItemExportTemplate
		if err := rows.Scan(
			&i.ID,
			&i.WorkspaceID,
			&i.FileName,
			&i.Content,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteTemplate = `
DELETE FROM item.export_templates
WHERE workspace_id = $1 AND file_name = $2
`

type DeleteTemplateParams struct {
	WorkspaceID uuid.UUID
	FileName    string
}

// DeleteTemplate returns the number of deleted rows.
func (q *Queries) DeleteTemplate(ctx context.Context, arg DeleteTemplateParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTemplate, arg.WorkspaceID, arg.FileName)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
