package handler

import (
	"log/slog"
	"net/http"

	"folio/internal/domain/services"
	"folio/internal/httputil"
)

// ContentHandler handles admin story, carousel, and settings requests
type ContentHandler struct {
	story    services.StoryService
	carousel services.CarouselService
	settings services.SettingsService
	logger   *slog.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(
	story services.StoryService,
	carousel services.CarouselService,
	settings services.SettingsService,
	logger *slog.Logger,
) *ContentHandler {
	return &ContentHandler{
		story:    story,
		carousel: carousel,
		settings: settings,
		logger:   logger,
	}
}

// GetStory returns the story page for editing
// GET /api/story
func (h *ContentHandler) GetStory(w http.ResponseWriter, r *http.Request) {
	story, err := h.story.Get(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, story)
}

// UpsertStory writes the story page
// PUT /api/story
func (h *ContentHandler) UpsertStory(w http.ResponseWriter, r *http.Request) {
	var req services.UpsertStoryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	story, err := h.story.Upsert(r.Context(), &req)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, story)
}

// ListCarousel lists carousel items in display order
// GET /api/carousel
func (h *ContentHandler) ListCarousel(w http.ResponseWriter, r *http.Request) {
	items, err := h.carousel.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

// CreateCarouselItem appends a carousel item
// POST /api/carousel
func (h *ContentHandler) CreateCarouselItem(w http.ResponseWriter, r *http.Request) {
	var req services.CarouselItemRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.carousel.Create(r.Context(), &req)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, item)
}

// UpdateCarouselItem rewrites one carousel item
// PUT /api/carousel/{id}
func (h *ContentHandler) UpdateCarouselItem(w http.ResponseWriter, r *http.Request) {
	var req services.CarouselItemRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.carousel.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, item)
}

// DeleteCarouselItem removes a carousel item
// DELETE /api/carousel/{id}
func (h *ContentHandler) DeleteCarouselItem(w http.ResponseWriter, r *http.Request) {
	if err := h.carousel.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderCarousel applies a full item ordering
// PUT /api/carousel/order
func (h *ContentHandler) ReorderCarousel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items, err := h.carousel.Reorder(r.Context(), req.IDs)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

// GetAISettings returns the assist configuration
// GET /api/settings/ai
func (h *ContentHandler) GetAISettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetAISettings(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, settings)
}

// UpdateAISettings persists assist configuration and refreshes the client
// PUT /api/settings/ai
func (h *ContentHandler) UpdateAISettings(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateAISettingsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings, err := h.settings.UpdateAISettings(r.Context(), &req)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, settings)
}
