package handlers

import (
	"net/http"

	"github.com/ghuser/itemforge/pkg/errhttp"
	"github.com/ghuser/itemforge/pkg/logger"
	"github.com/ghuser/itemforge/pkg/telemetry"
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"template not found"`
} // @name ErrorResponse

// writeError logs and reports unexpected failures before writing the mapped response.
func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	if status := errhttp.Status(err); status >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		telemetry.ReportError(r.Context(), err)
	}
	errhttp.WriteError(w, err)
}
