package workflows

import (
	"fmt"

	"go.opentelemetry.io/otel"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/worker"
)

// NewWorker returns a worker polling taskQueue with the export batch
// workflow and its activities registered. The caller runs and stops it.
func NewWorker(tc *TemporalClient, taskQueue string, activities *ExportActivities) (worker.Worker, error) {
	otelInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: otel.Tracer("temporal-worker"),
	})
	if err != nil {
		return nil, fmt.Errorf("create temporal otel interceptor: %w", err)
	}

	w := worker.New(tc.Client, taskQueue, worker.Options{
		Interceptors: []interceptor.WorkerInterceptor{otelInterceptor},
	})
	w.RegisterWorkflow(ExportBatchWorkflow)
	w.RegisterActivity(activities)

	tc.log.Info("temporal worker created", "task_queue", taskQueue)
	return w, nil
}
