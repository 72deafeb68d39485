package handler

import (
	"log/slog"
	"net/http"

	"folio/internal/domain/models"
	"folio/internal/domain/services"
	"folio/internal/httputil"
)

// PublicHandler serves the unauthenticated rendering routes. The same
// renderer backs the editor preview and this path, so what the admin saw is
// what visitors get.
type PublicHandler struct {
	caseStudies services.CaseStudyService
	story       services.StoryService
	carousel    services.CarouselService
	logger      *slog.Logger
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(
	caseStudies services.CaseStudyService,
	story services.StoryService,
	carousel services.CarouselService,
	logger *slog.Logger,
) *PublicHandler {
	return &PublicHandler{
		caseStudies: caseStudies,
		story:       story,
		carousel:    carousel,
		logger:      logger,
	}
}

// ListCaseStudies lists published case studies
// GET /api/public/case-studies
func (h *PublicHandler) ListCaseStudies(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.caseStudies.ListPublished(r.Context())
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

// GetCaseStudy renders a published case study by slug. Static templates
// serve the persisted content HTML; the default template serves the
// component tree for client-side rendering.
// GET /api/public/case-studies/{slug}
func (h *PublicHandler) GetCaseStudy(w http.ResponseWriter, r *http.Request) {
	cs, out, err := h.caseStudies.RenderPublic(r.Context(), r.PathValue("slug"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":       cs.ID,
		"slug":     cs.Slug,
		"title":    cs.Title,
		"template": cs.Template,
		"rendered": out,
	})
}

// GetStory serves the story page content
// GET /api/public/story
func (h *PublicHandler) GetStory(w http.ResponseWriter, r *http.Request) {
	story, err := h.story.Get(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, story)
}

// GetCarousel serves the home-page carousel in display order
// GET /api/public/carousel
func (h *PublicHandler) GetCarousel(w http.ResponseWriter, r *http.Request) {
	items, err := h.carousel.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if items == nil {
		items = []models.CarouselItem{}
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}
