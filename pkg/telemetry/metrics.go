package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/ghuser/itemforge"

// ItemMetrics holds the instruments recorded by the item services.
type ItemMetrics struct {
	itemsCreated    metric.Int64Counter
	exports         metric.Int64Counter
	templateUploads metric.Int64Counter
}

// NewItemMetrics registers the item instruments on the global MeterProvider.
// Call after Setup so the Prometheus reader sees them.
func NewItemMetrics() (*ItemMetrics, error) {
	return NewItemMetricsWithMeter(otel.Meter(meterName))
}

// NewItemMetricsWithMeter registers the item instruments on meter.
func NewItemMetricsWithMeter(meter metric.Meter) (*ItemMetrics, error) {
	itemsCreated, err := meter.Int64Counter("items_created_total",
		metric.WithDescription("Item descriptions built by the item builder."),
	)
	if err != nil {
		return nil, fmt.Errorf("items_created_total counter: %w", err)
	}
	exports, err := meter.Int64Counter("item_exports_total",
		metric.WithDescription("Template exports served, by template extension and cache outcome."),
	)
	if err != nil {
		return nil, fmt.Errorf("item_exports_total counter: %w", err)
	}
	uploads, err := meter.Int64Counter("item_template_uploads_total",
		metric.WithDescription("Export templates uploaded to a workspace."),
	)
	if err != nil {
		return nil, fmt.Errorf("item_template_uploads_total counter: %w", err)
	}
	return &ItemMetrics{
		itemsCreated:    itemsCreated,
		exports:         exports,
		templateUploads: uploads,
	}, nil
}

// ItemCreated records one built item. Safe on a nil receiver.
func (m *ItemMetrics) ItemCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.itemsCreated.Add(ctx, 1)
}

// Export records one served export.
func (m *ItemMetrics) Export(ctx context.Context, ext string, cacheHit bool) {
	if m == nil {
		return
	}
	m.exports.Add(ctx, 1, metric.WithAttributes(
		attribute.String("ext", ext),
		attribute.Bool("cache_hit", cacheHit),
	))
}

// TemplateUploaded records one uploaded template.
func (m *ItemMetrics) TemplateUploaded(ctx context.Context, ext string) {
	if m == nil {
		return
	}
	m.templateUploads.Add(ctx, 1, metric.WithAttributes(attribute.String("ext", ext)))
}
