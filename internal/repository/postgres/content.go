package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
)

// PostgresStoryRepository implements the StoryRepository interface.
// The story table holds at most one row.
type PostgresStoryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(config *RepositoryConfig) repositories.StoryRepository {
	return &PostgresStoryRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Get returns the story row, or domain.ErrNotFound if never saved.
func (r *PostgresStoryRepository) Get(ctx context.Context) (*models.Story, error) {
	query := fmt.Sprintf(`
		SELECT id, headline, body, image_url, updated_at
		FROM %s
		LIMIT 1
	`, r.tables.Stories)

	var story models.Story
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query).Scan(
		&story.ID,
		&story.Headline,
		&story.Body,
		&story.ImageURL,
		&story.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("story: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get story: %w", err)
	}
	return &story, nil
}

// Upsert writes the story row, creating it on first save.
func (r *PostgresStoryRepository) Upsert(ctx context.Context, story *models.Story) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, headline, body, image_url, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id)
		DO UPDATE SET headline = EXCLUDED.headline, body = EXCLUDED.body,
		              image_url = EXCLUDED.image_url, updated_at = NOW()
		RETURNING updated_at
	`, r.tables.Stories)

	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query,
		story.ID,
		story.Headline,
		story.Body,
		story.ImageURL,
	).Scan(&story.UpdatedAt); err != nil {
		return fmt.Errorf("upsert story: %w", err)
	}
	return nil
}

// PostgresCarouselRepository implements the CarouselRepository interface.
type PostgresCarouselRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewCarouselRepository creates a new carousel repository
func NewCarouselRepository(config *RepositoryConfig) repositories.CarouselRepository {
	return &PostgresCarouselRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a carousel item at the end of the order.
func (r *PostgresCarouselRepository) Create(ctx context.Context, item *models.CarouselItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, caption, image_url, link_url, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5,
		        COALESCE((SELECT MAX(sort_order) + 1 FROM %s), 0),
		        NOW(), NOW())
		RETURNING sort_order, created_at, updated_at
	`, r.tables.CarouselItems, r.tables.CarouselItems)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		item.ID,
		item.Title,
		item.Caption,
		item.ImageURL,
		item.LinkURL,
	).Scan(&item.SortOrder, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create carousel item: %w", err)
	}
	return nil
}

// List returns all carousel items in display order.
func (r *PostgresCarouselRepository) List(ctx context.Context) ([]models.CarouselItem, error) {
	query := fmt.Sprintf(`
		SELECT id, title, caption, image_url, link_url, sort_order, created_at, updated_at
		FROM %s
		ORDER BY sort_order ASC
	`, r.tables.CarouselItems)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list carousel items: %w", err)
	}
	defer rows.Close()

	var items []models.CarouselItem
	for rows.Next() {
		var item models.CarouselItem
		if err := rows.Scan(
			&item.ID, &item.Title, &item.Caption, &item.ImageURL,
			&item.LinkURL, &item.SortOrder, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan carousel item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Update rewrites a carousel item's content (not its position).
func (r *PostgresCarouselRepository) Update(ctx context.Context, item *models.CarouselItem) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $2, caption = $3, image_url = $4, link_url = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING sort_order, updated_at
	`, r.tables.CarouselItems)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		item.ID, item.Title, item.Caption, item.ImageURL, item.LinkURL,
	).Scan(&item.SortOrder, &item.UpdatedAt)
	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("carousel item %s: %w", item.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update carousel item: %w", err)
	}
	return nil
}

// Delete removes a carousel item.
func (r *PostgresCarouselRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.CarouselItems)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete carousel item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("carousel item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Reorder applies the given id order as sort_order 0..n-1.
func (r *PostgresCarouselRepository) Reorder(ctx context.Context, ids []string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET sort_order = $2, updated_at = NOW() WHERE id = $1
	`, r.tables.CarouselItems)

	executor := GetExecutor(ctx, r.pool)
	for i, id := range ids {
		if _, err := executor.Exec(ctx, query, id, i); err != nil {
			return fmt.Errorf("reorder carousel item %s: %w", id, err)
		}
	}
	return nil
}

// settingsRowID pins the single AI settings row.
const settingsRowID = "ai"

// PostgresSettingsRepository implements the SettingsRepository interface.
type PostgresSettingsRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(config *RepositoryConfig) repositories.SettingsRepository {
	return &PostgresSettingsRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetAISettings returns the stored assist settings.
func (r *PostgresSettingsRepository) GetAISettings(ctx context.Context) (*models.AISettings, error) {
	query := fmt.Sprintf(`
		SELECT model, default_tone, max_tokens, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Settings)

	var settings models.AISettings
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, settingsRowID).Scan(
		&settings.Model,
		&settings.DefaultTone,
		&settings.MaxTokens,
		&settings.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("ai settings: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get ai settings: %w", err)
	}
	return &settings, nil
}

// UpsertAISettings writes the single settings row.
func (r *PostgresSettingsRepository) UpsertAISettings(ctx context.Context, settings *models.AISettings) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, model, default_tone, max_tokens, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id)
		DO UPDATE SET model = EXCLUDED.model, default_tone = EXCLUDED.default_tone,
		              max_tokens = EXCLUDED.max_tokens, updated_at = NOW()
		RETURNING updated_at
	`, r.tables.Settings)

	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query,
		settingsRowID,
		settings.Model,
		settings.DefaultTone,
		settings.MaxTokens,
	).Scan(&settings.UpdatedAt); err != nil {
		return fmt.Errorf("upsert ai settings: %w", err)
	}
	return nil
}
