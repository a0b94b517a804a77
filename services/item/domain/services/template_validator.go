package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/ghuser/itemforge/services/item/domain/models"
)

// MaxTemplateSize caps template content at 1 MiB.
const MaxTemplateSize = 1 << 20

// ValidateTemplateName enforces business rules for TemplateFileName beyond the
// structural constraints enforced by its constructor.
//
// Business rules:
//   - No leading or trailing whitespace
//   - No control characters (Unicode category Cc)
//   - Must not start with a dot (hidden files are never templates)
func ValidateTemplateName(name models.TemplateFileName) error {
	s := name.String()

	if s != strings.TrimSpace(s) {
		return fmt.Errorf("template name must not have leading or trailing whitespace")
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("template name must not contain control characters")
		}
	}

	if strings.HasPrefix(s, ".") {
		return fmt.Errorf("template name must not start with a dot")
	}

	return nil
}

// ValidateTemplateForCreation performs cross-field validation on a template
// before it is persisted.
func ValidateTemplateForCreation(tmpl *models.ExportTemplate) error {
	if tmpl == nil {
		return fmt.Errorf("template cannot be nil")
	}

	if err := ValidateTemplateName(tmpl.FileName); err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}

	if tmpl.WorkspaceID == uuid.Nil {
		return fmt.Errorf("workspace_id must be set")
	}

	if tmpl.ID == uuid.Nil {
		return fmt.Errorf("id must be set")
	}

	if strings.TrimSpace(tmpl.Content) == "" {
		return fmt.Errorf("template content must not be empty")
	}

	if len(tmpl.Content) > MaxTemplateSize {
		return fmt.Errorf("template content must not exceed %d bytes", MaxTemplateSize)
	}

	return nil
}
