package services

import (
	"context"
	"os"

	"github.com/google/uuid"

	"github.com/ghuser/itemforge/pkg/app"
	"github.com/ghuser/itemforge/pkg/cache"
	"github.com/ghuser/itemforge/pkg/workflows"
	"github.com/ghuser/itemforge/services/item/infrastructure/builtin"
	"github.com/ghuser/itemforge/services/item/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item      *ItemService
	Templates *TemplateService
	Export    *ExportService
	Batch     BatchExporter // nil when Temporal is disabled
	// BatchFiles serves the files rendered by export batches. Nil without Redis.
	BatchFiles BatchFileReader
}

// BatchExporter starts asynchronous export batches and reports on them.
// workflows.BatchStarter implements it.
type BatchExporter interface {
	Start(ctx context.Context, in workflows.ExportBatchInput) (*workflows.BatchRun, error)
	Status(ctx context.Context, workspaceID uuid.UUID, workflowID string) (*workflows.BatchStatus, error)
}

// BatchFileReader reads a file stored by an export batch. It returns
// redis.Nil for files that are missing or owned by another workspace.
// cache.BatchExportStore implements it.
type BatchFileReader interface {
	Get(ctx context.Context, batchID string, index int, workspaceID uuid.UUID) (*cache.CachedExport, error)
}

// New wires all item application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	out := a.Stdout
	if out == nil {
		out = os.Stdout
	}

	var publisher EventPublisher
	if a.EventBus != nil {
		publisher = a.EventBus
	}

	var exportCache ExportCache
	var batchFiles BatchFileReader
	if a.Redis != nil {
		exportCache = cache.NewExportCache(a.Redis, a.Config.ExportCacheTTL)
		batchFiles = cache.NewBatchExportStore(a.Redis, a.Config.ExportCacheTTL)
	}

	repo := postgres.NewTemplateRepository(a.Db, a.EventBus)
	templates := NewTemplateService(repo, builtin.New(), a.Config.TemplateCacheSize, a.Config.TemplateCacheTTL, a.Metrics, a.Logger)

	svcs := &Services{
		Item:      NewItemService(out, a.Logger, a.Metrics, publisher, a.Schemas),
		Templates: templates,
		Export:    NewExportService(templates, exportCache, a.Metrics, a.Logger),

		BatchFiles: batchFiles,
	}
	if a.TemporalClient != nil {
		svcs.Batch = workflows.NewBatchStarter(a.TemporalClient, a.Config.TemporalTaskQueue)
	}
	return svcs
}
