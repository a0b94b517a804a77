package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/itemforge/pkg/app"
	"github.com/ghuser/itemforge/pkg/cache"
	"github.com/ghuser/itemforge/pkg/config"
	"github.com/ghuser/itemforge/pkg/database"
	"github.com/ghuser/itemforge/pkg/events"
	"github.com/ghuser/itemforge/pkg/logger"
	"github.com/ghuser/itemforge/pkg/schema"
	"github.com/ghuser/itemforge/pkg/telemetry"
	"github.com/ghuser/itemforge/pkg/workflows"
	appsvcs "github.com/ghuser/itemforge/services/item/application/services"
	itemEvents "github.com/ghuser/itemforge/services/item/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	metrics, err := telemetry.NewItemMetrics()
	if err != nil {
		log.Error("failed to create item metrics", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	schemas, err := schema.New()
	if err != nil {
		log.Error("failed to compile json schemas", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close() //nolint:errcheck
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	var temporalClient *workflows.TemporalClient
	if cfg.TemporalEnabled {
		temporalClient, err = workflows.NewTemporalClient(ctx, cfg, log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer temporalClient.Close()
	}

	appConfig := &app.Application{
		Config:         cfg,
		Db:             pool,
		Logger:         log,
		EventBus:       eventBus,
		Redis:          redisClient,
		TemporalClient: temporalClient,
		Metrics:        metrics,
		Schemas:        schemas,
		Stdout:         os.Stdout,
	}

	svcs := appsvcs.New(appConfig)

	if err := registerSubscribers(ctx, appConfig, svcs.Templates); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	if temporalClient != nil {
		w, err := workflows.NewWorker(temporalClient, cfg.TemporalTaskQueue, &workflows.ExportActivities{
			Exporter: svcs.Export,
			Store:    cache.NewBatchExportStore(redisClient, cfg.ExportCacheTTL),
		})
		if err != nil {
			log.Error("failed to create temporal worker", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		if err := w.Start(); err != nil {
			log.Error("failed to start temporal worker", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer w.Stop()
		log.Info("temporal worker started", "task_queue", cfg.TemporalTaskQueue)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("shutting down worker...")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application, templates templateEvicter) error {
	exportCache := cache.NewExportCache(a.Redis, a.Config.ExportCacheTTL)
	dedup := cache.NewEventDedup(a.Redis, events.ConsumerGroup(a.Config.ServiceName), 0)

	handlers := map[string]events.Handler{
		itemEvents.TopicItemCreated:      handleItemCreated(a),
		itemEvents.TopicTemplateUploaded: handleTemplateUploaded(a, templates, exportCache),
	}

	topics := make([]string, 0, len(handlers))
	for topic, handler := range handlers {
		errCh, err := a.EventBus.Subscribe(ctx, topic, handler, events.WithDeduplication(dedup))
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}

		// Drain subscriber errors in background so the channel never blocks.
		go func() {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}()
		topics = append(topics, topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// handleItemCreated returns a handler for item.created events.
// Handlers must be idempotent: EventBus retries up to 3x on failure.
func handleItemCreated(a *app.Application) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		var evt itemEvents.ItemCreatedEvent
		if err := events.DecodeJSON(msg, &evt); err != nil {
			return err
		}

		a.Logger.InfoContext(ctx, "item created",
			"event_id", evt.EventID,
			"workspace_id", evt.WorkspaceID,
			"material", evt.Material,
			"lore_lines", len(evt.Lore),
		)
		return nil
	}
}

// templateEvicter is the part of TemplateService used on template uploads.
type templateEvicter interface {
	Evict(workspaceID uuid.UUID, fileName string) bool
}

// templateInvalidator is the part of cache.ExportCache used on template uploads.
type templateInvalidator interface {
	InvalidateTemplate(ctx context.Context, workspaceID uuid.UUID, templateFileName string) (int64, error)
}

// handleTemplateUploaded returns a handler for item.template_uploaded events.
// It evicts this process's cached resolution of the name, which would
// otherwise keep serving the built-in the upload now shadows to batch
// activities, then drops the Redis renders indexed under the name.
func handleTemplateUploaded(a *app.Application, templates templateEvicter, exports templateInvalidator) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		var evt itemEvents.TemplateUploadedEvent
		if err := events.DecodeJSON(msg, &evt); err != nil {
			return err
		}

		evicted := templates.Evict(evt.WorkspaceID, evt.FileName)
		removed, err := exports.InvalidateTemplate(ctx, evt.WorkspaceID, evt.FileName)
		if err != nil {
			return fmt.Errorf("invalidate exports for %s: %w", evt.FileName, err)
		}

		a.Logger.InfoContext(ctx, "export cache invalidated",
			"event_id", evt.EventID,
			"workspace_id", evt.WorkspaceID,
			"template", evt.FileName,
			"template_evicted", evicted,
			"removed", removed,
		)
		return nil
	}
}
