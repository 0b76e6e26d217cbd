package handlers

import (
	"errors"
	"net/http"

	"github.com/BradenHooton/meular/internal/models"
	pkghttp "github.com/BradenHooton/meular/pkg/http"
)

// writeServiceError maps a service error kind to its HTTP status and writes
// the message the service attached to it.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, models.ErrorMessage(err, "resource not found"))
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, models.ErrorMessage(err, "unauthorized"))
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, models.ErrorMessage(err, "bad request"))
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, models.ErrorMessage(err, "resource already exists"))
	case errors.Is(err, models.ErrUnavailable):
		pkghttp.WriteServiceUnavailable(w, models.ErrorMessage(err, "service unavailable"))
	default:
		pkghttp.WriteInternalError(w, "internal server error")
	}
}

// decodeAndValidate reads the JSON body into dst and runs its validate tags.
// It writes the 400 itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := pkghttp.DecodeJSON(w, r, dst); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return false
	}
	if err := ValidateRequest(dst); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return false
	}
	return true
}
