package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/ghuser/itemforge/pkg/auth"
	"github.com/ghuser/itemforge/pkg/httpx"
	"github.com/ghuser/itemforge/pkg/logger"
	"github.com/ghuser/itemforge/pkg/workflows"
	appsvcs "github.com/ghuser/itemforge/services/item/application/services"
	itemdomain "github.com/ghuser/itemforge/services/item/domain"
)

// ExportBatchStatusResponse reports an export batch. Exports and Failed are
// present once the batch has completed.
type ExportBatchStatusResponse struct {
	WorkflowID string                    `json:"workflow_id" example:"export-batch-0b6c7f1e-8a43-4c1e-9d55-2f1f0c6a7b10"`
	Status     string                    `json:"status"      example:"completed"`
	Exports    []workflows.ExportRef     `json:"exports,omitempty"`
	Failed     []workflows.ExportFailure `json:"failed,omitempty"`
} // @name ExportBatchStatusResponse

// ExportBatchResultHandlers serves the state and files of export batches.
type ExportBatchResultHandlers struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewExportBatchResultHandlers returns ExportBatchResultHandlers backed by the given services.
func NewExportBatchResultHandlers(svc *appsvcs.Services, log logger.Logger) *ExportBatchResultHandlers {
	return &ExportBatchResultHandlers{svc: svc, log: log}
}

// Status reports a batch started by the export-batch route.
//
//	@Summary		Export batch status
//	@Description	Reports whether the batch is still running and, once completed, lists the rendered files
//	@Tags			templates
//	@Produce		json
//	@Param			workflowID	path		string	true	"Batch workflow ID"
//	@Success		200			{object}	ExportBatchStatusResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/item/export-batches/{workflowID} [get]
func (h *ExportBatchResultHandlers) Status(w http.ResponseWriter, r *http.Request) {
	if h.svc.Batch == nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "Batch export is disabled")
		return
	}

	workspaceID, err := auth.WorkspaceIDFromCtx(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	st, err := h.svc.Batch.Status(r.Context(), workspaceID, chi.URLParam(r, "workflowID"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	resp := ExportBatchStatusResponse{WorkflowID: st.WorkflowID, Status: st.Status}
	if st.Result != nil {
		resp.Exports = st.Result.Exports
		resp.Failed = st.Result.Failed
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// File downloads one rendered file of a batch by its item index.
// Clients whose Accept header lists application/json get an ExportResponse.
//
//	@Summary		Export batch file
//	@Description	Returns the file rendered for the item at the given index of the batch
//	@Tags			templates
//	@Produce		plain
//	@Produce		json
//	@Param			workflowID	path		string	true	"Batch workflow ID"
//	@Param			index		path		int		true	"Item index in the batch request"
//	@Success		200			{object}	ExportResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/item/export-batches/{workflowID}/exports/{index} [get]
func (h *ExportBatchResultHandlers) File(w http.ResponseWriter, r *http.Request) {
	if h.svc.BatchFiles == nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "Batch export is disabled")
		return
	}

	workspaceID, err := auth.WorkspaceIDFromCtx(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	batchID := chi.URLParam(r, "workflowID")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 || index >= workflows.MaxBatchItems {
		writeError(w, r, h.log, fmt.Errorf("%w: %s has no file %q", itemdomain.ErrBatchNotFound, batchID, chi.URLParam(r, "index")))
		return
	}

	file, err := h.svc.BatchFiles.Get(r.Context(), batchID, index, workspaceID)
	if errors.Is(err, redis.Nil) {
		err = fmt.Errorf("%w: %s has no file %d", itemdomain.ErrBatchNotFound, batchID, index)
	}
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if httpx.AcceptsJSON(r) {
		httpx.JSON(w, http.StatusOK, ExportResponse{
			FileName:    file.FileName,
			ContentType: file.ContentType,
			Content:     file.Content,
		})
		return
	}
	httpx.Attachment(w, file.FileName, file.ContentType, file.Content)
}
