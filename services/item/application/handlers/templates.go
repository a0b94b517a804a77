package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemforge/pkg/auth"
	"github.com/ghuser/itemforge/pkg/httpx"
	"github.com/ghuser/itemforge/pkg/logger"
	appsvcs "github.com/ghuser/itemforge/services/item/application/services"
	"github.com/ghuser/itemforge/services/item/domain/models"
	domainsvcs "github.com/ghuser/itemforge/services/item/domain/services"
)

// TemplateResponse describes an export template without its content.
type TemplateResponse struct {
	FileName    string     `json:"file_name"            example:"bukkit_item.yml"`
	ContentType string     `json:"content_type"         example:"text/yaml"`
	Builtin     bool       `json:"builtin"              example:"false"`
	CreatedAt   *time.Time `json:"created_at,omitempty" example:"2024-01-15T10:30:00Z"`
} // @name TemplateResponse

// TemplateListResponse is returned by GET /item/templates.
type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
} // @name TemplateListResponse

func newTemplateResponse(t *models.ExportTemplate) TemplateResponse {
	resp := TemplateResponse{
		FileName:    t.FileName.String(),
		ContentType: domainsvcs.ContentType(t.FileName.String()),
		Builtin:     t.IsBuiltin(),
	}
	if !t.CreatedAt.IsZero() {
		createdAt := t.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

// TemplateHandlers serves the /item/templates endpoints.
type TemplateHandlers struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewTemplateHandlers returns TemplateHandlers backed by the given services.
func NewTemplateHandlers(svc *appsvcs.Services, log logger.Logger) *TemplateHandlers {
	return &TemplateHandlers{svc: svc, log: log}
}

// List returns the templates visible to the workspace.
//
//	@Summary		List templates
//	@Description	Lists built-in templates and the workspace's own templates; workspace templates shadow built-ins of the same name
//	@Tags			templates
//	@Produce		json
//	@Success		200	{object}	TemplateListResponse
//	@Failure		401	{object}	ErrorResponse
//	@Router			/item/templates [get]
func (h *TemplateHandlers) List(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := auth.WorkspaceIDFromCtx(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	templates, err := h.svc.Templates.List(r.Context(), workspaceID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	resp := TemplateListResponse{Templates: make([]TemplateResponse, len(templates))}
	for i, t := range templates {
		resp.Templates[i] = newTemplateResponse(t)
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// Get returns the raw template content.
//
//	@Summary		Get template
//	@Description	Returns the template file with the content type of its extension
//	@Tags			templates
//	@Produce		plain
//	@Param			fileName	path		string	true	"Template file name"	example(bukkit_item.yml)
//	@Success		200			{string}	string
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/item/templates/{fileName} [get]
func (h *TemplateHandlers) Get(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := auth.WorkspaceIDFromCtx(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	tmpl, err := h.svc.Templates.Get(r.Context(), workspaceID, chi.URLParam(r, "fileName"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	httpx.Text(w, http.StatusOK, domainsvcs.ContentType(tmpl.FileName.String()), tmpl.Content)
}

// Put uploads a workspace template. The request body is the raw file.
//
//	@Summary		Upload template
//	@Description	Stores the request body as a workspace template
//	@Tags			templates
//	@Accept			plain
//	@Produce		json
//	@Param			fileName	path		string	true	"Template file name"	example(bukkit_item.yml)
//	@Param			content		body		string	true	"Template content"
//	@Success		201			{object}	TemplateResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		413			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Router			/item/templates/{fileName} [put]
func (h *TemplateHandlers) Put(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := auth.WorkspaceIDFromCtx(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	body, ok := readBody(w, r, domainsvcs.MaxTemplateSize)
	if !ok {
		return
	}

	tmpl, err := h.svc.Templates.Upload(r.Context(), workspaceID, chi.URLParam(r, "fileName"), string(body))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, newTemplateResponse(tmpl))
}

// Delete removes a workspace template.
//
//	@Summary		Delete template
//	@Description	Deletes a workspace template; built-in templates cannot be deleted
//	@Tags			templates
//	@Param			fileName	path	string	true	"Template file name"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/item/templates/{fileName} [delete]
func (h *TemplateHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := auth.WorkspaceIDFromCtx(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := h.svc.Templates.Delete(r.Context(), workspaceID, chi.URLParam(r, "fileName")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
