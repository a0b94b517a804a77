package handlers

import (
	"net/http"

	"github.com/ghuser/itemforge/pkg/auth"
	"github.com/ghuser/itemforge/pkg/httpx"
	"github.com/ghuser/itemforge/pkg/logger"
	pkgvalidator "github.com/ghuser/itemforge/pkg/validator"
	appsvcs "github.com/ghuser/itemforge/services/item/application/services"
	"github.com/ghuser/itemforge/services/item/domain/models"
)

// CreateItemRequest is the request body for POST /item. Values are taken
// as sent, line breaks and empty strings included; the router's body limit
// is the only bound.
type CreateItemRequest struct {
	Material string   `json:"material" example:"DIAMOND_SWORD"`
	Name     string   `json:"name"     example:"Excalibur"`
	Lore     []string `json:"lore"     example:"A legendary blade,Forged in starlight"`
} // @name CreateItemRequest

// ItemResponse is the built item description.
type ItemResponse struct {
	Material string   `json:"material" example:"DIAMOND_SWORD"`
	Name     string   `json:"name"     example:"Excalibur"`
	Lore     []string `json:"lore"     example:"A legendary blade,Forged in starlight"`
} // @name ItemResponse

func newItemResponse(item models.ItemDescription) ItemResponse {
	lore := item.Lore
	if lore == nil {
		lore = []string{}
	}
	return ItemResponse{Material: item.Material, Name: item.Name, Lore: lore}
}

// PostItemHandler handles POST /item requests.
type PostItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services, log logger.Logger) *PostItemHandler {
	return &PostItemHandler{svc: svc, log: log}
}

// Execute builds an item description.
//
//	@Summary		Create item
//	@Description	Builds an item description from a material, display name and lore lines
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateItemRequest	true	"Item values"
//	@Success		201		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/item [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := auth.WorkspaceIDFromCtx(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.Create(r.Context(), workspaceID, req.Material, req.Name, req.Lore)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, newItemResponse(item))
}
