package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemforge/pkg/auth"
	"github.com/ghuser/itemforge/pkg/httpx"
	"github.com/ghuser/itemforge/pkg/logger"
	pkgvalidator "github.com/ghuser/itemforge/pkg/validator"
	"github.com/ghuser/itemforge/pkg/workflows"
	appsvcs "github.com/ghuser/itemforge/services/item/application/services"
	"github.com/ghuser/itemforge/services/item/domain/models"
)

// ExportBatchRequest is the request body for POST /item/templates/{fileName}/export-batch.
type ExportBatchRequest struct {
	Items []CreateItemRequest `json:"items" validate:"required,min=1,max=500,dive"`
} // @name ExportBatchRequest

// ExportBatchResponse identifies the started batch workflow.
type ExportBatchResponse struct {
	WorkflowID string `json:"workflow_id" example:"export-batch-0b6c7f1e-8a43-4c1e-9d55-2f1f0c6a7b10"`
	RunID      string `json:"run_id"`
} // @name ExportBatchResponse

// ExportBatchHandler handles POST /item/templates/{fileName}/export-batch.
type ExportBatchHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewExportBatchHandler returns an ExportBatchHandler backed by the given services.
func NewExportBatchHandler(svc *appsvcs.Services, log logger.Logger) *ExportBatchHandler {
	return &ExportBatchHandler{svc: svc, log: log}
}

// Execute starts a batch export workflow for the items in the request body.
//
//	@Summary		Export items in batch
//	@Description	Starts a Temporal workflow rendering the template for every item; responds once the workflow is enqueued
//	@Tags			templates
//	@Accept			json
//	@Produce		json
//	@Param			fileName	path		string				true	"Template file name"	example(bukkit_item.yml)
//	@Param			request		body		ExportBatchRequest	true	"Items"
//	@Success		202			{object}	ExportBatchResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/item/templates/{fileName}/export-batch [post]
func (h *ExportBatchHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if h.svc.Batch == nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "Batch export is disabled")
		return
	}

	workspaceID, err := auth.WorkspaceIDFromCtx(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	req, ok := pkgvalidator.ValidateRequest[ExportBatchRequest](w, r)
	if !ok {
		return
	}

	fileName := chi.URLParam(r, "fileName")
	if _, err := h.svc.Templates.Get(r.Context(), workspaceID, fileName); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	items := make([]models.ItemDescription, len(req.Items))
	for i, it := range req.Items {
		items[i] = models.ItemDescription{Material: it.Material, Name: it.Name, Lore: it.Lore}
	}

	run, err := h.svc.Batch.Start(r.Context(), workflows.ExportBatchInput{
		WorkspaceID:      workspaceID,
		TemplateFileName: fileName,
		Items:            items,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.log.InfoContext(r.Context(), "export batch started",
		"workflow_id", run.WorkflowID,
		"template", fileName,
		"items", len(items),
	)
	httpx.JSON(w, http.StatusAccepted, ExportBatchResponse{WorkflowID: run.WorkflowID, RunID: run.RunID})
}
