// Package builtin serves the export templates embedded in the binary.
package builtin

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/google/uuid"

	itemdomain "github.com/ghuser/itemforge/services/item/domain"
	"github.com/ghuser/itemforge/services/item/domain/models"
)

//go:embed templates
var embedded embed.FS

// namespace seeds deterministic IDs so a built-in template keeps its ID across restarts.
var namespace = uuid.MustParse("6f1c3a52-6d0e-4f7b-9c1e-2b9d0f6a8e31")

// Templates implements repositories.BuiltinTemplates over an fs.FS.
type Templates struct {
	fsys fs.FS
}

// New returns the templates compiled into the binary.
func New() *Templates {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(fmt.Errorf("builtin: sub templates: %w", err))
	}
	return &Templates{fsys: sub}
}

// NewFromFS serves templates from the root of fsys.
func NewFromFS(fsys fs.FS) *Templates {
	return &Templates{fsys: fsys}
}

// Get returns ErrTemplateNotFound when no built-in template has that name.
func (t *Templates) Get(name models.TemplateFileName) (*models.ExportTemplate, error) {
	data, err := fs.ReadFile(t.fsys, name.String())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, itemdomain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("read builtin %s: %w", name, err)
	}
	return t.template(name, data), nil
}

// List returns every built-in template ordered by file name.
func (t *Templates) List() ([]*models.ExportTemplate, error) {
	entries, err := fs.ReadDir(t.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("list builtins: %w", err)
	}

	out := make([]*models.ExportTemplate, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, err := models.NewTemplateFileName(e.Name())
		if err != nil {
			continue
		}
		data, err := fs.ReadFile(t.fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("read builtin %s: %w", e.Name(), err)
		}
		out = append(out, t.template(name, data))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].FileName < out[j].FileName })
	return out, nil
}

func (t *Templates) template(name models.TemplateFileName, data []byte) *models.ExportTemplate {
	return &models.ExportTemplate{
		ID:       uuid.NewSHA1(namespace, []byte(name)),
		FileName: name,
		Content:  string(data),
	}
}
