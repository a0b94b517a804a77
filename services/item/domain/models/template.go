package models

import (
	"time"

	"github.com/google/uuid"
)

// ExportTemplate is a text file containing %item_*% placeholder tokens that
// is rendered into a concrete item creator for some game engine or plugin.
type ExportTemplate struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID // uuid.Nil for built-in templates
	FileName    TemplateFileName
	Content     string
	CreatedAt   time.Time
}

// NewExportTemplate constructs a workspace template with generated ID and current timestamp.
func NewExportTemplate(workspaceID uuid.UUID, name TemplateFileName, content string) *ExportTemplate {
	return &ExportTemplate{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		FileName:    name,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}
}

// IsBuiltin reports whether the template ships with the service.
func (t *ExportTemplate) IsBuiltin() bool {
	return t.WorkspaceID == uuid.Nil
}

// ExportResult is a rendered template ready to be downloaded.
type ExportResult struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}
