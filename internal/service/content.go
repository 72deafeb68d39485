package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"folio/internal/ai"
	"folio/internal/config"
	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
	"folio/internal/domain/services"
)

// storyService implements the StoryService interface.
type storyService struct {
	repo   repositories.StoryRepository
	logger *slog.Logger
}

// NewStoryService creates a new story service
func NewStoryService(repo repositories.StoryRepository, logger *slog.Logger) services.StoryService {
	return &storyService{repo: repo, logger: logger}
}

// Get returns the story page, or an empty story if never saved.
func (s *storyService) Get(ctx context.Context) (*models.Story, error) {
	story, err := s.repo.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return &models.Story{}, nil
	}
	return story, err
}

// Upsert writes the story page.
func (s *storyService) Upsert(ctx context.Context, req *services.UpsertStoryRequest) (*models.Story, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Headline, validation.Required, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.Body, validation.Length(0, config.MaxFieldLength)),
		validation.Field(&req.ImageURL, is.URL),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	existing, err := s.repo.Get(ctx)
	story := &models.Story{
		Headline: strings.TrimSpace(req.Headline),
		Body:     req.Body,
		ImageURL: req.ImageURL,
	}
	switch {
	case err == nil:
		story.ID = existing.ID
	case errors.Is(err, domain.ErrNotFound):
		story.ID = uuid.NewString()
	default:
		return nil, err
	}

	if err := s.repo.Upsert(ctx, story); err != nil {
		return nil, err
	}
	s.logger.Info("story updated", "id", story.ID)
	return story, nil
}

// carouselService implements the CarouselService interface.
type carouselService struct {
	repo   repositories.CarouselRepository
	logger *slog.Logger
}

// NewCarouselService creates a new carousel service
func NewCarouselService(repo repositories.CarouselRepository, logger *slog.Logger) services.CarouselService {
	return &carouselService{repo: repo, logger: logger}
}

func (s *carouselService) validateItem(req *services.CarouselItemRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.ImageURL, validation.Required, is.URL),
		validation.Field(&req.LinkURL, is.URL),
	)
}

// Create appends a carousel item.
func (s *carouselService) Create(ctx context.Context, req *services.CarouselItemRequest) (*models.CarouselItem, error) {
	if err := s.validateItem(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	item := &models.CarouselItem{
		ID:       uuid.NewString(),
		Title:    strings.TrimSpace(req.Title),
		Caption:  req.Caption,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("carousel item created", "id", item.ID, "sort_order", item.SortOrder)
	return item, nil
}

// List returns all items in display order.
func (s *carouselService) List(ctx context.Context) ([]models.CarouselItem, error) {
	return s.repo.List(ctx)
}

// Update rewrites an item's content.
func (s *carouselService) Update(ctx context.Context, id string, req *services.CarouselItemRequest) (*models.CarouselItem, error) {
	if err := s.validateItem(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	item := &models.CarouselItem{
		ID:       id,
		Title:    strings.TrimSpace(req.Title),
		Caption:  req.Caption,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item.
func (s *carouselService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("carousel item deleted", "id", id)
	return nil
}

// Reorder applies a full id ordering and returns the resulting list.
func (s *carouselService) Reorder(ctx context.Context, ids []string) ([]models.CarouselItem, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: empty order", domain.ErrValidation)
	}
	if err := s.repo.Reorder(ctx, ids); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// settingsService implements the SettingsService interface. Updates refresh
// the live AI client so new settings apply without a restart.
type settingsService struct {
	repo     repositories.SettingsRepository
	client   *ai.Client
	defaults *models.AISettings
	logger   *slog.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(
	repo repositories.SettingsRepository,
	client *ai.Client,
	defaults *models.AISettings,
	logger *slog.Logger,
) services.SettingsService {
	return &settingsService{
		repo:     repo,
		client:   client,
		defaults: defaults,
		logger:   logger,
	}
}

// GetAISettings returns stored settings, falling back to configured defaults.
func (s *settingsService) GetAISettings(ctx context.Context) (*models.AISettings, error) {
	settings, err := s.repo.GetAISettings(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		defaults := *s.defaults
		return &defaults, nil
	}
	return settings, err
}

// UpdateAISettings persists new settings and refreshes the live client.
func (s *settingsService) UpdateAISettings(ctx context.Context, req *services.UpdateAISettingsRequest) (*models.AISettings, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Model, validation.Required),
		validation.Field(&req.MaxTokens, validation.Min(0), validation.Max(8192)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	settings := &models.AISettings{
		Model:       req.Model,
		DefaultTone: req.DefaultTone,
		MaxTokens:   req.MaxTokens,
	}
	if err := s.repo.UpsertAISettings(ctx, settings); err != nil {
		return nil, err
	}

	s.client.Refresh(settings)
	s.logger.Info("ai settings updated", "model", settings.Model)
	return settings, nil
}
