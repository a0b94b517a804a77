package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemforge/pkg/auth"
	"github.com/ghuser/itemforge/pkg/httpx"
	"github.com/ghuser/itemforge/pkg/logger"
	pkgvalidator "github.com/ghuser/itemforge/pkg/validator"
	appsvcs "github.com/ghuser/itemforge/services/item/application/services"
	"github.com/ghuser/itemforge/services/item/domain/models"
)

// ExportResponse is the JSON form of a rendered template.
type ExportResponse struct {
	FileName    string `json:"file_name"    example:"DIAMOND_SWORD_bukkit_item.yml"`
	ContentType string `json:"content_type" example:"text/yaml"`
	Content     string `json:"content"`
} // @name ExportResponse

// ExportTemplateHandler handles POST /item/templates/{fileName}/export.
type ExportTemplateHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewExportTemplateHandler returns an ExportTemplateHandler backed by the given services.
func NewExportTemplateHandler(svc *appsvcs.Services, log logger.Logger) *ExportTemplateHandler {
	return &ExportTemplateHandler{svc: svc, log: log}
}

// Execute renders the template for the item in the request body.
// Clients whose Accept header lists application/json get an ExportResponse
// instead of the file.
//
//	@Summary		Export item
//	@Description	Substitutes the %item_*% tokens of a template with the item's values and returns the file as a download
//	@Tags			templates
//	@Accept			json
//	@Produce		plain
//	@Produce		json
//	@Param			fileName	path		string				true	"Template file name"	example(bukkit_item.yml)
//	@Param			request		body		CreateItemRequest	true	"Item values"
//	@Success		200			{object}	ExportResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Router			/item/templates/{fileName}/export [post]
func (h *ExportTemplateHandler) Execute(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := auth.WorkspaceIDFromCtx(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateItemRequest](w, r)
	if !ok {
		return
	}

	item := models.ItemDescription{Material: req.Material, Name: req.Name, Lore: req.Lore}
	res, err := h.svc.Export.Export(r.Context(), workspaceID, chi.URLParam(r, "fileName"), item)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if httpx.AcceptsJSON(r) {
		httpx.JSON(w, http.StatusOK, ExportResponse{
			FileName:    res.FileName,
			ContentType: res.ContentType,
			Content:     res.Content,
		})
		return
	}
	httpx.Attachment(w, res.FileName, res.ContentType, res.Content)
}
