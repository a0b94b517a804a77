package workflows

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	temporallog "go.temporal.io/sdk/log"

	"github.com/ghuser/itemforge/pkg/config"
	"github.com/ghuser/itemforge/pkg/logger"
)

func TestTemporalLogger_WithBindsFields(t *testing.T) {
	var buf bytes.Buffer
	log := newTemporalLogger(logger.NewWithWriter(&config.Config{LogLevel: "debug"}, &buf))

	withLogger, ok := log.(temporallog.WithLogger)
	require.True(t, ok, "temporalLogger must implement log.WithLogger")

	withLogger.With("workflow_id", "export-batch-1").Info("activity completed", "attempt", 2)

	out := buf.String()
	assert.Contains(t, out, `"workflow_id":"export-batch-1"`)
	assert.Contains(t, out, `"attempt":2`)
	assert.Contains(t, out, `"msg":"activity completed"`)
}

func TestTemporalLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := newTemporalLogger(logger.NewWithWriter(&config.Config{LogLevel: "warn"}, &buf))

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown warn")
	log.Error("shown error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestIdentity(t *testing.T) {
	id := identity("itemforge-worker")
	assert.True(t, strings.HasPrefix(id, "itemforge-worker@"), id)
}

func TestNewTemporalClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := &config.Config{TemporalHostPort: "127.0.0.1:1", TemporalNamespace: "default", ServiceName: "itemforge"}
	_, err := NewTemporalClient(ctx, cfg, logger.NewWithWriter(&config.Config{LogLevel: "error"}, &bytes.Buffer{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
