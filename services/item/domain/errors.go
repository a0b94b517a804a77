package domain

import "errors"

// Sentinel errors for the item domain. Use errors.Is() to check these.
var (
	// ErrTemplateNotFound indicates the requested export template does not exist
	// in the workspace or among the built-in templates.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrTemplateAlreadyExists indicates the workspace already holds a template
	// with the same file name.
	ErrTemplateAlreadyExists = errors.New("template already exists")

	// ErrInvalidTemplateName indicates the template file name is empty, too
	// long, lacks an extension or tries to escape the template directory.
	ErrInvalidTemplateName = errors.New("invalid template name")

	// ErrInvalidTemplate indicates the template content is empty or too large.
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrBatchNotFound indicates the export batch, or the requested file of
	// it, does not exist in the workspace or has expired.
	ErrBatchNotFound = errors.New("export batch not found")

	// ErrInvalidItem indicates an imported custom item document failed schema validation.
	ErrInvalidItem = errors.New("invalid item")
)
