package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	commonpb "go.temporal.io/api/common/v1"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/ghuser/itemforge/pkg/cache"
	itemdomain "github.com/ghuser/itemforge/services/item/domain"
	"github.com/ghuser/itemforge/services/item/domain/models"
)

// MaxBatchItems caps the number of items one export batch may render.
const MaxBatchItems = 500

// errTypeTemplate marks activity failures caused by the template itself.
// They fail every item of the batch the same way, so they are not retried.
const errTypeTemplate = "TemplateError"

// ExportBatchInput is the ExportBatchWorkflow argument.
type ExportBatchInput struct {
	WorkspaceID      uuid.UUID                `json:"workspace_id"`
	TemplateFileName string                   `json:"template_file_name"`
	Items            []models.ItemDescription `json:"items"`
}

// ExportFailure records an item whose export failed.
type ExportFailure struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// ExportRef points at a rendered file held in the ExportStore. Index is the
// item's position in the batch input.
type ExportRef struct {
	Index       int    `json:"index"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// ExportBatchResult lists the rendered files in input order. File contents
// stay in the ExportStore so the result remains small for any template size.
type ExportBatchResult struct {
	Exports []ExportRef     `json:"exports"`
	Failed  []ExportFailure `json:"failed,omitempty"`
}

// RenderExportInput is the RenderExport activity argument.
type RenderExportInput struct {
	BatchID          string                 `json:"batch_id"`
	Index            int                    `json:"index"`
	WorkspaceID      uuid.UUID              `json:"workspace_id"`
	TemplateFileName string                 `json:"template_file_name"`
	Item             models.ItemDescription `json:"item"`
}

// Exporter renders a template for an item. The item ExportService implements it.
type Exporter interface {
	Export(ctx context.Context, workspaceID uuid.UUID, fileName string, item models.ItemDescription) (*models.ExportResult, error)
}

// ExportStore keeps the files a batch rendered. cache.BatchExportStore implements it.
type ExportStore interface {
	Put(ctx context.Context, batchID string, index int, workspaceID uuid.UUID, export *cache.CachedExport) error
}

// ExportActivities holds the activities of ExportBatchWorkflow.
type ExportActivities struct {
	Exporter Exporter
	Store    ExportStore
}

// RenderExport renders a single item and stores the file under the batch.
// A failed store write is retried like a failed render.
func (a *ExportActivities) RenderExport(ctx context.Context, in RenderExportInput) (*ExportRef, error) {
	res, err := a.Exporter.Export(ctx, in.WorkspaceID, in.TemplateFileName, in.Item)
	switch {
	case err == nil:
	case errors.Is(err, itemdomain.ErrTemplateNotFound), errors.Is(err, itemdomain.ErrInvalidTemplateName):
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), errTypeTemplate, err)
	default:
		return nil, err
	}

	if err := a.Store.Put(ctx, in.BatchID, in.Index, in.WorkspaceID, &cache.CachedExport{
		FileName:    res.FileName,
		ContentType: res.ContentType,
		Content:     res.Content,
	}); err != nil {
		return nil, err
	}
	return &ExportRef{
		Index:       in.Index,
		FileName:    res.FileName,
		ContentType: res.ContentType,
		Size:        len(res.Content),
	}, nil
}

// ExportBatchWorkflow renders one template for many items. Items are
// rendered concurrently; a failed item is reported in Failed and does not
// fail the batch. Files are stored under the workflow ID.
func ExportBatchWorkflow(ctx workflow.Context, in ExportBatchInput) (*ExportBatchResult, error) {
	if len(in.Items) == 0 {
		return &ExportBatchResult{}, nil
	}
	if len(in.Items) > MaxBatchItems {
		return nil, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("batch has %d items, limit is %d", len(in.Items), MaxBatchItems), "BatchTooLarge", nil)
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    3,
		},
	})

	batchID := workflow.GetInfo(ctx).WorkflowExecution.ID
	var a *ExportActivities
	futures := make([]workflow.Future, len(in.Items))
	for i, item := range in.Items {
		futures[i] = workflow.ExecuteActivity(ctx, a.RenderExport, RenderExportInput{
			BatchID:          batchID,
			Index:            i,
			WorkspaceID:      in.WorkspaceID,
			TemplateFileName: in.TemplateFileName,
			Item:             item,
		})
	}

	result := &ExportBatchResult{}
	for i, f := range futures {
		var ref ExportRef
		if err := f.Get(ctx, &ref); err != nil {
			result.Failed = append(result.Failed, ExportFailure{Index: i, Error: err.Error()})
			continue
		}
		result.Exports = append(result.Exports, ref)
	}

	workflow.GetLogger(ctx).Info("export batch finished",
		"template", in.TemplateFileName,
		"exported", len(result.Exports),
		"failed", len(result.Failed),
	)
	return result, nil
}

// BatchRun identifies a started ExportBatchWorkflow execution.
type BatchRun struct {
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`
}

// Batch states reported by BatchStarter.Status.
const (
	BatchRunning    = "running"
	BatchCompleted  = "completed"
	BatchFailed     = "failed"
	BatchCanceled   = "canceled"
	BatchTerminated = "terminated"
	BatchTimedOut   = "timed_out"
	BatchUnknown    = "unknown"
)

// BatchStatus is the state of an export batch. Result is set once the
// batch has completed.
type BatchStatus struct {
	WorkflowID string
	Status     string
	Result     *ExportBatchResult
}

const (
	batchIDPrefix   = "export-batch-"
	memoWorkspaceID = "workspace_id"
)

var batchStatusNames = map[enumspb.WorkflowExecutionStatus]string{
	enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING:    BatchRunning,
	enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED:  BatchCompleted,
	enumspb.WORKFLOW_EXECUTION_STATUS_FAILED:     BatchFailed,
	enumspb.WORKFLOW_EXECUTION_STATUS_CANCELED:   BatchCanceled,
	enumspb.WORKFLOW_EXECUTION_STATUS_TERMINATED: BatchTerminated,
	enumspb.WORKFLOW_EXECUTION_STATUS_TIMED_OUT:  BatchTimedOut,
}

// BatchStarter starts ExportBatchWorkflow executions on a task queue and
// reports on them.
type BatchStarter struct {
	client    client.Client
	taskQueue string
}

// NewBatchStarter returns a BatchStarter using tc's client.
func NewBatchStarter(tc *TemporalClient, taskQueue string) *BatchStarter {
	return &BatchStarter{client: tc.Client, taskQueue: taskQueue}
}

// Start enqueues an export batch and returns without waiting for it. The
// workspace is recorded in the workflow memo so Status can scope lookups.
func (s *BatchStarter) Start(ctx context.Context, in ExportBatchInput) (*BatchRun, error) {
	run, err := s.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        batchIDPrefix + uuid.NewString(),
		TaskQueue: s.taskQueue,
		Memo:      map[string]any{memoWorkspaceID: in.WorkspaceID.String()},
	}, ExportBatchWorkflow, in)
	if err != nil {
		return nil, fmt.Errorf("start export batch: %w", err)
	}
	return &BatchRun{WorkflowID: run.GetID(), RunID: run.GetRunID()}, nil
}

// Status describes the batch workflowID of workspaceID. Batches of other
// workspaces and unknown IDs both give ErrBatchNotFound.
func (s *BatchStarter) Status(ctx context.Context, workspaceID uuid.UUID, workflowID string) (*BatchStatus, error) {
	if !strings.HasPrefix(workflowID, batchIDPrefix) {
		return nil, fmt.Errorf("%w: %s", itemdomain.ErrBatchNotFound, workflowID)
	}

	desc, err := s.client.DescribeWorkflow(ctx, workflowID, "")
	if err != nil {
		var notFound *serviceerror.NotFound
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", itemdomain.ErrBatchNotFound, workflowID)
		}
		return nil, fmt.Errorf("describe export batch: %w", err)
	}
	if memoWorkspace(desc.Memo) != workspaceID.String() {
		return nil, fmt.Errorf("%w: %s", itemdomain.ErrBatchNotFound, workflowID)
	}

	status := &BatchStatus{WorkflowID: workflowID, Status: BatchUnknown}
	if name, ok := batchStatusNames[desc.Status]; ok {
		status.Status = name
	}
	if status.Status != BatchCompleted {
		return status, nil
	}

	var res ExportBatchResult
	if err := s.client.GetWorkflow(ctx, workflowID, "").Get(ctx, &res); err != nil {
		return nil, fmt.Errorf("export batch result: %w", err)
	}
	status.Result = &res
	return status, nil
}

func memoWorkspace(memo *commonpb.Memo) string {
	p, ok := memo.GetFields()[memoWorkspaceID]
	if !ok {
		return ""
	}
	var ws string
	if err := converter.GetDefaultDataConverter().FromPayload(p, &ws); err != nil {
		return ""
	}
	return ws
}
