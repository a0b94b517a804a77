package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemforge/pkg/app"
	"github.com/ghuser/itemforge/pkg/auth"
	"github.com/ghuser/itemforge/pkg/logger"
	"github.com/ghuser/itemforge/services/item/application/handlers"
	appsvcs "github.com/ghuser/itemforge/services/item/application/services"
)

// ItemRoutes registers item endpoints on the provided chi router.
// Requests are scoped to the session's workspace when REQUIRE_AUTH is set
// and to auth.DefaultWorkspaceID otherwise.
func ItemRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a), a.Logger, workspaceMiddleware(a))
}

// Mount registers the /item routes for svcs behind workspace, which must put
// a workspace ID on the request context.
func Mount(r chi.Router, svcs *appsvcs.Services, log logger.Logger, workspace func(http.Handler) http.Handler) {
	templates := handlers.NewTemplateHandlers(svcs, log)
	batches := handlers.NewExportBatchResultHandlers(svcs, log)

	r.Group(func(r chi.Router) {
		r.Use(workspace)
		r.Route("/item", func(r chi.Router) {
			r.Post("/", handlers.NewPostItemHandler(svcs, log).Execute)
			r.Post("/import", handlers.NewImportItemHandler(svcs, log).Execute)

			r.Route("/templates", func(r chi.Router) {
				r.Get("/", templates.List)
				r.Get("/{fileName}", templates.Get)
				r.Put("/{fileName}", templates.Put)
				r.Delete("/{fileName}", templates.Delete)
				r.Post("/{fileName}/export", handlers.NewExportTemplateHandler(svcs, log).Execute)
				r.Post("/{fileName}/export-batch", handlers.NewExportBatchHandler(svcs, log).Execute)
			})

			r.Get("/export-batches/{workflowID}", batches.Status)
			r.Get("/export-batches/{workflowID}/exports/{index}", batches.File)
		})
	})
}

func workspaceMiddleware(a *app.Application) func(http.Handler) http.Handler {
	if a.Config.RequireAuth && a.SessionStore != nil {
		return auth.RequireAuth(a.SessionStore, a.Logger)
	}
	return auth.FixedWorkspace(auth.DefaultWorkspaceID)
}
