package handler

import (
	"log/slog"
	"net/http"

	"folio/internal/domain/services"
	"folio/internal/httputil"
)

// AssistHandler handles AI writing-assist requests
type AssistHandler struct {
	service services.AssistService
	logger  *slog.Logger
}

// NewAssistHandler creates a new assist handler
func NewAssistHandler(service services.AssistService, logger *slog.Logger) *AssistHandler {
	return &AssistHandler{
		service: service,
		logger:  logger,
	}
}

// Assist generates or rewrites text for a long-text section field. Provider
// failures are surfaced with the provider's message so the admin can see
// what went wrong.
// POST /api/assist
func (h *AssistHandler) Assist(w http.ResponseWriter, r *http.Request) {
	var req services.AssistRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text, err := h.service.GenerateOrRewrite(r.Context(), &req)
	if err != nil {
		respondAssistError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"text": text,
	})
}

// respondAssistError surfaces provider errors verbatim instead of the
// generic 500 message. Domain errors still map the usual way.
func respondAssistError(w http.ResponseWriter, r *http.Request, err error) {
	if isDomainError(err) {
		respondDomainError(w, r, err)
		return
	}
	httputil.RespondError(w, http.StatusBadGateway, err.Error())
}
