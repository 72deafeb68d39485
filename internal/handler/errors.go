package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"folio/internal/domain"
	"folio/internal/httputil"
)

// isDomainError reports whether the error is one of our own, as opposed to
// something bubbled up from an external provider.
func isDomainError(err error) bool {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		return true
	}
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrUnauthorized) ||
		errors.Is(err, domain.ErrForbidden)
}

// respondDomainError maps service-layer errors onto RFC 7807 responses.
// Field validation errors carry their error map in the problem document so
// the editor can mark individual fields.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErr *domain.FieldValidationError
	if errors.As(err, &fieldErr) {
		extras := map[string]interface{}{"errors": fieldErr.Fields}
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, "validation failed", extras)
		return
	}

	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
	default:
		slog.Error("unexpected error",
			"error", err,
			"path", r.URL.Path,
			"method", r.Method,
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
