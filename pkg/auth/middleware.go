package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/itemforge/pkg/httpx"
	"github.com/ghuser/itemforge/pkg/logger"
)

const sessionName = "itemforge_session"
const sessionWorkspaceKey = "workspace_id"

// RequireAuth is a chi middleware that enforces authentication via session cookies.
// It reads the session cookie, extracts the WorkspaceID, and injects it into the request context.
// Returns 401 Unauthorized if the session is missing, invalid, or lacks a valid workspace_id.
//
// After this middleware, handlers can safely call auth.WorkspaceIDFromCtx(r.Context()).
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			workspaceIDStr, ok := session.Values[sessionWorkspaceKey].(string)
			if !ok || workspaceIDStr == "" {
				log.WarnContext(r.Context(), "session missing workspace_id")
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			workspaceID, err := uuid.Parse(workspaceIDStr)
			if err != nil {
				log.WarnContext(r.Context(), "invalid workspace_id in session", "workspace_id", workspaceIDStr, "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid session data"})
				return
			}

			ctx := logger.WithContext(WithWorkspaceID(r.Context(), workspaceID), "workspace_id", workspaceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FixedWorkspace injects workspaceID into every request. It stands in for
// RequireAuth in development, where templates are shared by all callers.
func FixedWorkspace(workspaceID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithContext(WithWorkspaceID(r.Context(), workspaceID), "workspace_id", workspaceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
