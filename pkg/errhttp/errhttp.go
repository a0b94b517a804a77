// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/itemforge/pkg/auth"
	"github.com/ghuser/itemforge/pkg/httpx"
	itemdomain "github.com/ghuser/itemforge/services/item/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Unrecognized errors become 500 with a generic message; the caller logs the cause.
func WriteError(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)
	httpx.JSONError(w, status, httpx.SafeError(err, status, true))
}

// Status reports the code WriteError would use for err.
func Status(err error) int {
	return mapErrorToStatus(err)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, itemdomain.ErrTemplateNotFound), errors.Is(err, itemdomain.ErrBatchNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, itemdomain.ErrTemplateAlreadyExists):
		return http.StatusConflict // 409
	case errors.Is(err, itemdomain.ErrInvalidTemplateName):
		return http.StatusBadRequest // 400
	case errors.Is(err, itemdomain.ErrInvalidTemplate), errors.Is(err, itemdomain.ErrInvalidItem):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, auth.ErrWorkspaceIDNotFound):
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
