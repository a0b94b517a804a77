package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/ghuser/itemforge/pkg/auth"
	"github.com/ghuser/itemforge/pkg/httpx"
	"github.com/ghuser/itemforge/pkg/logger"
	appsvcs "github.com/ghuser/itemforge/services/item/application/services"
)

// maxImportSize caps a designer custom item document.
const maxImportSize = 256 << 10

// ImportItemHandler handles POST /item/import requests.
type ImportItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewImportItemHandler returns an ImportItemHandler backed by the given services.
func NewImportItemHandler(svc *appsvcs.Services, log logger.Logger) *ImportItemHandler {
	return &ImportItemHandler{svc: svc, log: log}
}

// Execute builds an item description from a designer custom item.
//
//	@Summary		Import custom item
//	@Description	Validates a designer custom item document and builds the item it describes
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		object	true	"Custom item: {entity, displayName: {text}, lore: [{text}]}"
//	@Success		201		{object}	ItemResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/item/import [post]
func (h *ImportItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := auth.WorkspaceIDFromCtx(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	body, ok := readBody(w, r, maxImportSize)
	if !ok {
		return
	}

	item, err := h.svc.Item.Import(r.Context(), workspaceID, body)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, newItemResponse(item))
}

// readBody reads at most limit bytes, answering 413 beyond that.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return nil, false
		}
		httpx.JSONError(w, http.StatusBadRequest, "Could not read request body")
		return nil, false
	}
	return body, true
}
