package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/itemforge/pkg/httpx"
	"github.com/ghuser/itemforge/pkg/logger"
	pkgvalidator "github.com/ghuser/itemforge/pkg/validator"
)

// SessionRequest is the request body for POST /session.
type SessionRequest struct {
	WorkspaceID string `json:"workspace_id" validate:"required,uuid" example:"3f1c9a2e-6a4b-4e7d-9a51-0c2f8b7d1e64"`
} // @name SessionRequest

// SessionResponse echoes the workspace a session was opened for.
type SessionResponse struct {
	WorkspaceID string `json:"workspace_id" example:"3f1c9a2e-6a4b-4e7d-9a51-0c2f8b7d1e64"`
} // @name SessionResponse

// SessionHandlers issue and end workspace sessions. Issuing requires the
// bootstrap token as a bearer token; it is meant to be called by the
// gateway or tool that knows which workspace a user belongs to.
type SessionHandlers struct {
	store sessions.Store
	token string
	log   logger.Logger
}

// NewSessionHandlers returns SessionHandlers. An empty bootstrapToken
// disables issuing.
func NewSessionHandlers(store sessions.Store, bootstrapToken string, log logger.Logger) *SessionHandlers {
	return &SessionHandlers{store: store, token: bootstrapToken, log: log}
}

// Create opens a session for a workspace.
//
//	@Summary		Open workspace session
//	@Description	Sets a session cookie scoping later requests to the workspace
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SessionRequest	true	"Workspace"
//	@Success		201		{object}	SessionResponse
//	@Failure		401		{object}	map[string]string
//	@Failure		403		{object}	map[string]string
//	@Failure		422		{object}	map[string]string
//	@Router			/session [post]
func (h *SessionHandlers) Create(w http.ResponseWriter, r *http.Request) {
	if h.token == "" {
		httpx.JSONError(w, http.StatusForbidden, "Session issuing is disabled")
		return
	}
	if !h.authorized(r) {
		h.log.WarnContext(r.Context(), "session request with bad bootstrap token", "remote_addr", r.RemoteAddr)
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	req, ok := pkgvalidator.ValidateRequest[SessionRequest](w, r)
	if !ok {
		return
	}
	workspaceID := uuid.MustParse(req.WorkspaceID)

	if err := StartWorkspaceSession(w, r, h.store, workspaceID); err != nil {
		h.log.ErrorContext(r.Context(), "failed to start session", "workspace_id", workspaceID, "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.log.InfoContext(r.Context(), "workspace session started", "workspace_id", workspaceID)
	httpx.JSON(w, http.StatusCreated, SessionResponse{WorkspaceID: workspaceID.String()})
}

// Delete ends the caller's session.
//
//	@Summary		Close session
//	@Tags			session
//	@Success		204
//	@Router			/session [delete]
func (h *SessionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := EndSession(w, r, h.store); err != nil {
		h.log.ErrorContext(r.Context(), "failed to end session", "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandlers) authorized(r *http.Request) bool {
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}
