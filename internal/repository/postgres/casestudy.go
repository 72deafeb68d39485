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

// PostgresCaseStudyRepository implements the CaseStudyRepository interface.
//
// Sections live in their own table keyed by (case_study_id, name) with a
// unique constraint; Save upserts on that pair so each section row keeps its
// id across saves. Metadata, content, and all section rows are written in
// one transaction, which is what makes the save appear atomic to callers.
type PostgresCaseStudyRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewCaseStudyRepository creates a new case-study repository
func NewCaseStudyRepository(config *RepositoryConfig) repositories.CaseStudyRepository {
	return &PostgresCaseStudyRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts the metadata row and all section rows.
func (r *PostgresCaseStudyRepository) Create(ctx context.Context, cs *models.CaseStudy) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, slug, title, template, content, is_published, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, r.tables.CaseStudies)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		cs.ID,
		cs.Slug,
		cs.Title,
		string(cs.Template),
		cs.Content,
		cs.IsPublished,
		cs.PublishedAt,
		cs.CreatedAt,
		cs.UpdatedAt,
	).Scan(&cs.CreatedAt, &cs.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("case study with slug '%s' already exists", cs.Slug),
				ResourceType: "case_study",
			}
		}
		return fmt.Errorf("create case study: %w", err)
	}

	return r.upsertSections(ctx, cs)
}

// GetByID retrieves a case study with all stored section rows.
func (r *PostgresCaseStudyRepository) GetByID(ctx context.Context, id string) (*models.CaseStudy, error) {
	query := fmt.Sprintf(`
		SELECT id, slug, title, template, content, is_published, published_at, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.CaseStudies)

	return r.getOne(ctx, query, id)
}

// GetBySlug retrieves a published case study by slug.
func (r *PostgresCaseStudyRepository) GetBySlug(ctx context.Context, slug string) (*models.CaseStudy, error) {
	query := fmt.Sprintf(`
		SELECT id, slug, title, template, content, is_published, published_at, created_at, updated_at
		FROM %s
		WHERE slug = $1 AND is_published = TRUE
	`, r.tables.CaseStudies)

	return r.getOne(ctx, query, slug)
}

func (r *PostgresCaseStudyRepository) getOne(ctx context.Context, query string, arg any) (*models.CaseStudy, error) {
	var cs models.CaseStudy
	var template string

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, arg).Scan(
		&cs.ID,
		&cs.Slug,
		&cs.Title,
		&template,
		&cs.Content,
		&cs.IsPublished,
		&cs.PublishedAt,
		&cs.CreatedAt,
		&cs.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("case study %v: %w", arg, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get case study: %w", err)
	}
	cs.Template = models.Template(template)

	if err := r.loadSections(ctx, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

func (r *PostgresCaseStudyRepository) loadSections(ctx context.Context, cs *models.CaseStudy) error {
	query := fmt.Sprintf(`
		SELECT name, enabled, fields
		FROM %s
		WHERE case_study_id = $1
	`, r.tables.CaseStudySections)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, cs.ID)
	if err != nil {
		return fmt.Errorf("load sections: %w", err)
	}
	defer rows.Close()

	cs.Sections = make(map[string]models.Section)
	for rows.Next() {
		var name string
		var section models.Section
		if err := rows.Scan(&name, &section.Enabled, &section.Fields); err != nil {
			return fmt.Errorf("scan section: %w", err)
		}
		cs.Sections[name] = section
	}
	return rows.Err()
}

// List returns summaries of all case studies, most recently updated first.
func (r *PostgresCaseStudyRepository) List(ctx context.Context) ([]models.CaseStudySummary, error) {
	query := fmt.Sprintf(`
		SELECT id, slug, title, template, is_published, published_at, updated_at
		FROM %s
		ORDER BY updated_at DESC
	`, r.tables.CaseStudies)

	return r.list(ctx, query)
}

// ListPublished returns summaries of published case studies.
func (r *PostgresCaseStudyRepository) ListPublished(ctx context.Context) ([]models.CaseStudySummary, error) {
	query := fmt.Sprintf(`
		SELECT id, slug, title, template, is_published, published_at, updated_at
		FROM %s
		WHERE is_published = TRUE
		ORDER BY published_at DESC
	`, r.tables.CaseStudies)

	return r.list(ctx, query)
}

func (r *PostgresCaseStudyRepository) list(ctx context.Context, query string) ([]models.CaseStudySummary, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list case studies: %w", err)
	}
	defer rows.Close()

	var summaries []models.CaseStudySummary
	for rows.Next() {
		var s models.CaseStudySummary
		var template string
		if err := rows.Scan(&s.ID, &s.Slug, &s.Title, &template, &s.IsPublished, &s.PublishedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan case study summary: %w", err)
		}
		s.Template = models.Template(template)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Save upserts metadata, content, and every section row.
func (r *PostgresCaseStudyRepository) Save(ctx context.Context, cs *models.CaseStudy) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET slug = $2, title = $3, template = $4, content = $5, updated_at = $6
		WHERE id = $1
	`, r.tables.CaseStudies)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query,
		cs.ID,
		cs.Slug,
		cs.Title,
		string(cs.Template),
		cs.Content,
		cs.UpdatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("case study with slug '%s' already exists", cs.Slug),
				ResourceType: "case_study",
			}
		}
		return fmt.Errorf("save case study: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("case study %s: %w", cs.ID, domain.ErrNotFound)
	}

	return r.upsertSections(ctx, cs)
}

// upsertSections writes every section row, keeping row ids stable via the
// (case_study_id, name) conflict target.
func (r *PostgresCaseStudyRepository) upsertSections(ctx context.Context, cs *models.CaseStudy) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (case_study_id, name, enabled, fields, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (case_study_id, name)
		DO UPDATE SET enabled = EXCLUDED.enabled, fields = EXCLUDED.fields, updated_at = NOW()
	`, r.tables.CaseStudySections)

	executor := GetExecutor(ctx, r.pool)
	for name, section := range cs.Sections {
		if _, err := executor.Exec(ctx, query, cs.ID, name, section.Enabled, section.Fields); err != nil {
			return fmt.Errorf("upsert section %s: %w", name, err)
		}
	}
	return nil
}

// SetPublished flips publication state, stamping published_at on publish and
// clearing it on unpublish.
func (r *PostgresCaseStudyRepository) SetPublished(ctx context.Context, id string, published bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_published = $2,
		    published_at = CASE WHEN $2 THEN NOW() ELSE NULL END,
		    updated_at = NOW()
		WHERE id = $1
	`, r.tables.CaseStudies)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, published)
	if err != nil {
		return fmt.Errorf("set published: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("case study %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes the case study; section rows cascade.
func (r *PostgresCaseStudyRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.CaseStudies)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete case study: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("case study %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
