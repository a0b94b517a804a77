package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing/fstest"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ghuser/itemforge/pkg/cache"
	"github.com/ghuser/itemforge/pkg/config"
	"github.com/ghuser/itemforge/pkg/logger"
	itemdomain "github.com/ghuser/itemforge/services/item/domain"
	"github.com/ghuser/itemforge/services/item/domain/models"
	"github.com/ghuser/itemforge/services/item/infrastructure/builtin"
)

func nopLogger() logger.Logger {
	return logger.NewWithWriter(&config.Config{LogLevel: "error"}, io.Discard)
}

func testBuiltins() *builtin.Templates {
	return builtin.NewFromFS(fstest.MapFS{
		"bukkit_item.yml": {Data: []byte("material: %item_entity%\nname: \"%item_display_name%\"\nlore:%item_lore_all%\n")},
		"plain.txt":       {Data: []byte("%item_display_name% (%item_entity%)")},
	})
}

type fakeTemplateRepo struct {
	mu        sync.Mutex
	templates map[uuid.UUID]map[models.TemplateFileName]*models.ExportTemplate
	gets      int
	err       error
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[uuid.UUID]map[models.TemplateFileName]*models.ExportTemplate)}
}

func (r *fakeTemplateRepo) Save(_ context.Context, tmpl *models.ExportTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	ws := r.templates[tmpl.WorkspaceID]
	if ws == nil {
		ws = make(map[models.TemplateFileName]*models.ExportTemplate)
		r.templates[tmpl.WorkspaceID] = ws
	}
	if _, ok := ws[tmpl.FileName]; ok {
		return itemdomain.ErrTemplateAlreadyExists
	}
	ws[tmpl.FileName] = tmpl
	return nil
}

func (r *fakeTemplateRepo) GetByName(_ context.Context, workspaceID uuid.UUID, name models.TemplateFileName) (*models.ExportTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	if r.err != nil {
		return nil, r.err
	}
	if tmpl, ok := r.templates[workspaceID][name]; ok {
		return tmpl, nil
	}
	return nil, itemdomain.ErrTemplateNotFound
}

func (r *fakeTemplateRepo) ListByWorkspace(_ context.Context, workspaceID uuid.UUID) ([]*models.ExportTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.ExportTemplate
	for _, tmpl := range r.templates[workspaceID] {
		out = append(out, tmpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileName < out[j].FileName })
	return out, nil
}

func (r *fakeTemplateRepo) Delete(_ context.Context, workspaceID uuid.UUID, name models.TemplateFileName) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.templates[workspaceID][name]; !ok {
		return itemdomain.ErrTemplateNotFound
	}
	delete(r.templates[workspaceID], name)
	return nil
}

type fakePublisher struct {
	topic string
	msgs  []*message.Message
	err   error
}

func (p *fakePublisher) Publish(_ context.Context, topic string, msgs ...*message.Message) error {
	if p.err != nil {
		return p.err
	}
	p.topic = topic
	p.msgs = append(p.msgs, msgs...)
	return nil
}

type fakeExportCache struct {
	entries  map[string]*cache.CachedExport
	indexed  map[string]string
	getErr   error
	setErr   error
	gets     int
	sets     int
	lastWSID uuid.UUID
}

func newFakeExportCache() *fakeExportCache {
	return &fakeExportCache{
		entries: make(map[string]*cache.CachedExport),
		indexed: make(map[string]string),
	}
}

func (c *fakeExportCache) Get(_ context.Context, workspaceID uuid.UUID, digest string) (*cache.CachedExport, error) {
	c.gets++
	c.lastWSID = workspaceID
	if c.getErr != nil {
		return nil, c.getErr
	}
	e, ok := c.entries[workspaceID.String()+digest]
	if !ok {
		return nil, redis.Nil
	}
	return e, nil
}

func (c *fakeExportCache) Set(_ context.Context, workspaceID uuid.UUID, templateFileName, digest string, export *cache.CachedExport) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[workspaceID.String()+digest] = export
	c.indexed[workspaceID.String()+digest] = templateFileName
	return nil
}

var errBoom = errors.New("boom")
