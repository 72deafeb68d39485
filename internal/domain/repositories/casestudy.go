package repositories

import (
	"context"

	"folio/internal/domain/models"
)

// CaseStudyRepository defines data access operations for case studies.
//
// Section blobs are stored in their own rows keyed by (case_study_id,
// section name); the row id is stable across saves so section identity
// survives edits. Save writes metadata, every section row, and the derived
// content inside one transaction so the sequence appears atomic to callers.
type CaseStudyRepository interface {
	// Create inserts the metadata row and all section rows.
	Create(ctx context.Context, cs *models.CaseStudy) error

	// GetByID retrieves a case study with all stored section rows.
	// Missing section keys are NOT backfilled here; that is the service's job.
	GetByID(ctx context.Context, id string) (*models.CaseStudy, error)

	// GetBySlug retrieves a published case study by slug (public path).
	GetBySlug(ctx context.Context, slug string) (*models.CaseStudy, error)

	// List returns summaries of all case studies, most recently updated first.
	List(ctx context.Context) ([]models.CaseStudySummary, error)

	// ListPublished returns summaries of published case studies.
	ListPublished(ctx context.Context) ([]models.CaseStudySummary, error)

	// Save upserts metadata, content, and every section row.
	Save(ctx context.Context, cs *models.CaseStudy) error

	// SetPublished flips publication state. publishedAt is stored as given
	// (nil on unpublish).
	SetPublished(ctx context.Context, id string, published bool) error

	// Delete removes the case study and its section rows.
	Delete(ctx context.Context, id string) error
}
