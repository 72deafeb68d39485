package services

import (
	"context"

	"folio/internal/casestudy/render"
	"folio/internal/domain/models"
)

// CreateCaseStudyRequest creates a new case study with schema defaults.
type CreateCaseStudyRequest struct {
	Title    string          `json:"title"`
	Template models.Template `json:"template,omitempty"` // default when empty
}

// UpdateCaseStudyRequest updates document-level metadata. Nil fields are
// left unchanged.
type UpdateCaseStudyRequest struct {
	Title    *string          `json:"title,omitempty"`
	Template *models.Template `json:"template,omitempty"`
}

// UpdateSectionRequest applies raw field updates to one section. Field
// values arrive exactly as typed (list shapes as multi-line text); nothing
// is split or validated on this path so the editor can hold in-progress
// values. Enabled toggles never clear field values.
type UpdateSectionRequest struct {
	Enabled *bool          `json:"enabled,omitempty"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// PublishRequest flips publication state.
type PublishRequest struct {
	Published bool `json:"published"`
}

// CaseStudyService owns the document lifecycle: all mutation flows through
// it so validation and derived content stay in sync with stored sections.
type CaseStudyService interface {
	Create(ctx context.Context, req *CreateCaseStudyRequest) (*models.CaseStudy, error)

	// Get loads a case study for editing, backfilling any section keys
	// missing from storage with schema defaults.
	Get(ctx context.Context, id string) (*models.CaseStudy, error)

	List(ctx context.Context) ([]models.CaseStudySummary, error)

	UpdateMetadata(ctx context.Context, id string, req *UpdateCaseStudyRequest) (*models.CaseStudy, error)

	UpdateSection(ctx context.Context, id, section string, req *UpdateSectionRequest) (*models.CaseStudy, error)

	// Save validates the stored document, regenerates derived content for
	// static templates, persists everything, and returns the document as
	// re-read from storage. A validation failure returns
	// *domain.FieldValidationError and performs no persistence call.
	Save(ctx context.Context, id string) (*models.CaseStudy, error)

	SetPublished(ctx context.Context, id string, published bool) (*models.CaseStudy, error)

	Delete(ctx context.Context, id string) error

	// Preview renders the current stored document without persisting
	// anything. An empty template means the document's own template.
	Preview(ctx context.Context, id string, template models.Template) (*render.Output, error)

	// RenderPublic resolves a published case study by slug and renders it
	// with the same renderer the editor preview uses.
	RenderPublic(ctx context.Context, slug string) (*models.CaseStudy, *render.Output, error)

	ListPublished(ctx context.Context) ([]models.CaseStudySummary, error)

	// ExportMarkdown renders the document and converts it to Markdown.
	ExportMarkdown(ctx context.Context, id string) (string, error)
}
