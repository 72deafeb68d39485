package services

import (
	"context"

	"folio/internal/domain/models"
)

// UpsertStoryRequest writes the single story page.
type UpsertStoryRequest struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
	ImageURL string `json:"image_url"`
}

// StoryService manages the story/about page.
type StoryService interface {
	Get(ctx context.Context) (*models.Story, error)
	Upsert(ctx context.Context, req *UpsertStoryRequest) (*models.Story, error)
}

// CarouselItemRequest creates or updates one carousel entry.
type CarouselItemRequest struct {
	Title    string `json:"title"`
	Caption  string `json:"caption"`
	ImageURL string `json:"image_url"`
	LinkURL  string `json:"link_url"`
}

// CarouselService manages the ordered home-page carousel.
type CarouselService interface {
	Create(ctx context.Context, req *CarouselItemRequest) (*models.CarouselItem, error)
	List(ctx context.Context) ([]models.CarouselItem, error)
	Update(ctx context.Context, id string, req *CarouselItemRequest) (*models.CarouselItem, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) ([]models.CarouselItem, error)
}

// UpdateAISettingsRequest changes the persisted assist configuration.
type UpdateAISettingsRequest struct {
	Model       string `json:"model"`
	DefaultTone string `json:"default_tone"`
	MaxTokens   int    `json:"max_tokens"`
}

// SettingsService manages AI assist settings and refreshes the live client
// when they change.
type SettingsService interface {
	GetAISettings(ctx context.Context) (*models.AISettings, error)
	UpdateAISettings(ctx context.Context, req *UpdateAISettingsRequest) (*models.AISettings, error)
}
