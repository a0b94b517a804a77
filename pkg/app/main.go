package app

import (
	"io"

	"github.com/gorilla/sessions"

	"github.com/ghuser/itemforge/pkg/cache"
	"github.com/ghuser/itemforge/pkg/config"
	"github.com/ghuser/itemforge/pkg/database"
	"github.com/ghuser/itemforge/pkg/events"
	"github.com/ghuser/itemforge/pkg/logger"
	"github.com/ghuser/itemforge/pkg/schema"
	"github.com/ghuser/itemforge/pkg/telemetry"
	"github.com/ghuser/itemforge/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to all service routes calls during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler; use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "template uploaded", "template", name)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config         *config.Config
	Db             *database.Database
	Logger         logger.Logger
	EventBus       *events.EventBus // nil disables event publishing
	Redis          *cache.RedisClient
	TemporalClient *workflows.TemporalClient // nil unless TEMPORAL_ENABLED
	SessionStore   sessions.Store            // Redis-backed session store; nil in worker process
	Metrics        *telemetry.ItemMetrics
	Schemas        *schema.Validator
	Stdout         io.Writer // receives "Item Created:" reports
}
