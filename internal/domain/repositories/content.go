package repositories

import (
	"context"

	"folio/internal/domain/models"
)

// StoryRepository stores the single story/about page.
type StoryRepository interface {
	// Get returns the story row, or domain.ErrNotFound if never saved.
	Get(ctx context.Context) (*models.Story, error)

	// Upsert writes the story row, creating it on first save.
	Upsert(ctx context.Context, story *models.Story) error
}

// CarouselRepository stores ordered home-page carousel items.
type CarouselRepository interface {
	Create(ctx context.Context, item *models.CarouselItem) error
	List(ctx context.Context) ([]models.CarouselItem, error)
	Update(ctx context.Context, item *models.CarouselItem) error
	Delete(ctx context.Context, id string) error

	// Reorder applies the given id order as sort_order 0..n-1.
	Reorder(ctx context.Context, ids []string) error
}

// SettingsRepository stores AI assist settings (single row).
type SettingsRepository interface {
	GetAISettings(ctx context.Context) (*models.AISettings, error)
	UpsertAISettings(ctx context.Context, settings *models.AISettings) error
}
