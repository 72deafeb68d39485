package handler

import (
	"log/slog"
	"net/http"
	"time"

	"folio/internal/casestudy/schema"
	"folio/internal/domain/models"
	"folio/internal/domain/services"
	"folio/internal/httputil"
)

// CaseStudyHandler handles admin case-study HTTP requests
type CaseStudyHandler struct {
	service  services.CaseStudyService
	sections *schema.Registry
	logger   *slog.Logger
}

// NewCaseStudyHandler creates a new case-study handler
func NewCaseStudyHandler(service services.CaseStudyService, sections *schema.Registry, logger *slog.Logger) *CaseStudyHandler {
	return &CaseStudyHandler{
		service:  service,
		sections: sections,
		logger:   logger,
	}
}

// HealthCheck is a simple health check endpoint
// GET /health
func (h *CaseStudyHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}

// GetSchema serves the section field-shape table so the editor dispatches
// input widgets by shape rather than by field name.
// GET /api/case-studies/schema
func (h *CaseStudyHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"sections": h.sections.Ordered(),
	})
}

// ListCaseStudies lists all case studies for the dashboard
// GET /api/case-studies
func (h *CaseStudyHandler) ListCaseStudies(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []models.CaseStudySummary{}
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"case_studies": summaries,
		"total":        len(summaries),
	})
}

// CreateCaseStudy creates a new case study with schema defaults
// POST /api/case-studies
func (h *CaseStudyHandler) CreateCaseStudy(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCaseStudyRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cs, err := h.service.Create(r.Context(), &req)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, cs)
}

// GetCaseStudy loads a case study for editing (missing sections backfilled)
// GET /api/case-studies/{id}
func (h *CaseStudyHandler) GetCaseStudy(w http.ResponseWriter, r *http.Request) {
	cs, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, cs)
}

// UpdateCaseStudy updates title/template metadata
// PATCH /api/case-studies/{id}
func (h *CaseStudyHandler) UpdateCaseStudy(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateCaseStudyRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cs, err := h.service.UpdateMetadata(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, cs)
}

// UpdateSection applies raw field updates to one section
// PATCH /api/case-studies/{id}/sections/{name}
func (h *CaseStudyHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateSectionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cs, err := h.service.UpdateSection(r.Context(), r.PathValue("id"), r.PathValue("name"), &req)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, cs)
}

// SaveCaseStudy validates, regenerates derived content, persists, and
// returns the document as re-read from storage. Validation failures return
// 400 with the field error map and never touch storage.
// POST /api/case-studies/{id}/save
func (h *CaseStudyHandler) SaveCaseStudy(w http.ResponseWriter, r *http.Request) {
	cs, err := h.service.Save(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, cs)
}

// PublishCaseStudy flips publication state
// POST /api/case-studies/{id}/publish
func (h *CaseStudyHandler) PublishCaseStudy(w http.ResponseWriter, r *http.Request) {
	var req services.PublishRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cs, err := h.service.SetPublished(r.Context(), r.PathValue("id"), req.Published)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, cs)
}

// DeleteCaseStudy removes a case study permanently
// DELETE /api/case-studies/{id}
func (h *CaseStudyHandler) DeleteCaseStudy(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PreviewCaseStudy renders the stored document without persisting anything.
// The optional template query overrides the document's template so the
// editor can preview a switch before committing it.
// GET /api/case-studies/{id}/preview?template=ghibli
func (h *CaseStudyHandler) PreviewCaseStudy(w http.ResponseWriter, r *http.Request) {
	template := models.Template(r.URL.Query().Get("template"))

	out, err := h.service.Preview(r.Context(), r.PathValue("id"), template)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, out)
}

// ExportCaseStudy returns the document converted to Markdown
// GET /api/case-studies/{id}/export
func (h *CaseStudyHandler) ExportCaseStudy(w http.ResponseWriter, r *http.Request) {
	markdown, err := h.service.ExportMarkdown(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(markdown))
}
