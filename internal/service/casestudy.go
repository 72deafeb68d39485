package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"folio/internal/casestudy/render"
	"folio/internal/casestudy/schema"
	"folio/internal/casestudy/validate"
	"folio/internal/config"
	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
	"folio/internal/domain/services"
)

// MarkdownConverter turns rendered HTML into Markdown for exports.
type MarkdownConverter interface {
	ConvertString(html string) (string, error)
}

// caseStudyService implements the CaseStudyService interface.
//
// All mutation flows through here: edits persist raw field values without
// gating (validation never blocks editing), while Save validates, derives
// content, and writes everything transactionally.
type caseStudyService struct {
	repo      repositories.CaseStudyRepository
	txManager repositories.TransactionManager
	sections  *schema.Registry
	renderers *render.Registry
	markdown  MarkdownConverter
	logger    *slog.Logger
}

// NewCaseStudyService creates a new case-study service
func NewCaseStudyService(
	repo repositories.CaseStudyRepository,
	txManager repositories.TransactionManager,
	sections *schema.Registry,
	renderers *render.Registry,
	markdown MarkdownConverter,
	logger *slog.Logger,
) services.CaseStudyService {
	return &caseStudyService{
		repo:      repo,
		txManager: txManager,
		sections:  sections,
		renderers: renderers,
		markdown:  markdown,
		logger:    logger,
	}
}

// Create allocates a new case study with schema defaults for every section.
func (s *caseStudyService) Create(ctx context.Context, req *services.CreateCaseStudyRequest) (*models.CaseStudy, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	template := req.Template
	if template == "" {
		template = models.TemplateDefault
	}

	now := time.Now()
	cs := &models.CaseStudy{
		ID:        uuid.NewString(),
		Slug:      slugify(req.Title),
		Title:     strings.TrimSpace(req.Title),
		Template:  template,
		Sections:  s.sections.DefaultSections(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, cs)
	})
	if err != nil {
		// Retry once with an id-derived suffix when the slug is taken.
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			cs.Slug = cs.Slug + "-" + cs.ID[:8]
			err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
				return s.repo.Create(txCtx, cs)
			})
		}
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info("case study created", "id", cs.ID, "slug", cs.Slug, "template", cs.Template)
	return cs, nil
}

// Get loads a case study for editing, backfilling missing section keys.
func (s *caseStudyService) Get(ctx context.Context, id string) (*models.CaseStudy, error) {
	cs, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cs.Sections = s.sections.Backfill(cs.Sections)
	return cs, nil
}

// List returns summaries of all case studies.
func (s *caseStudyService) List(ctx context.Context) ([]models.CaseStudySummary, error) {
	return s.repo.List(ctx)
}

// ListPublished returns summaries of published case studies.
func (s *caseStudyService) ListPublished(ctx context.Context) ([]models.CaseStudySummary, error) {
	return s.repo.ListPublished(ctx)
}

// UpdateMetadata changes title and/or template. Switching template
// invalidates derived content immediately; the next save regenerates it.
func (s *caseStudyService) UpdateMetadata(ctx context.Context, id string, req *services.UpdateCaseStudyRequest) (*models.CaseStudy, error) {
	if req.Template != nil && !req.Template.Valid() {
		return nil, fmt.Errorf("%w: unknown template %q", domain.ErrValidation, *req.Template)
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > config.MaxTitleLength {
			return nil, fmt.Errorf("%w: title must be 1-%d characters", domain.ErrValidation, config.MaxTitleLength)
		}
	}

	cs, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		cs.Title = strings.TrimSpace(*req.Title)
	}
	if req.Template != nil && *req.Template != cs.Template {
		cs.Template = *req.Template
		cs.Content = ""
	}
	cs.UpdatedAt = time.Now()

	if err := s.persist(ctx, cs); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// UpdateSection applies raw field updates to one section. Unknown sections
// and unknown fields are rejected; raw values are stored as-is.
func (s *caseStudyService) UpdateSection(ctx context.Context, id, sectionName string, req *services.UpdateSectionRequest) (*models.CaseStudy, error) {
	spec, ok := s.sections.Section(sectionName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown section %q", domain.ErrValidation, sectionName)
	}
	for name := range req.Fields {
		if _, ok := spec.Field(name); !ok {
			return nil, fmt.Errorf("%w: unknown field %q in section %q", domain.ErrValidation, name, sectionName)
		}
	}

	cs, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	section := cs.Sections[sectionName]
	if req.Enabled != nil {
		// Toggling enabled retains field values so re-enabling restores
		// prior content.
		section.Enabled = *req.Enabled
	}
	for name, value := range req.Fields {
		section.Fields[name] = value
	}
	cs.Sections[sectionName] = section
	cs.UpdatedAt = time.Now()

	if err := s.persist(ctx, cs); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Save validates the document, regenerates derived content for static
// templates, persists everything, then re-reads from storage and returns the
// stored copy (defends against backend-side normalization drift).
func (s *caseStudyService) Save(ctx context.Context, id string) (*models.CaseStudy, error) {
	cs, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if errs := validate.CaseStudy(s.sections, cs); len(errs) > 0 {
		s.logger.Info("save blocked by validation", "id", id, "errors", len(errs))
		return nil, &domain.FieldValidationError{Fields: errs}
	}

	if cs.Template == models.TemplateDefault {
		cs.Content = ""
	} else {
		renderer, err := s.renderers.For(cs.Template)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		cs.Content = renderer.Render(cs).HTML
	}
	cs.UpdatedAt = time.Now()

	if err := s.persist(ctx, cs); err != nil {
		return nil, err
	}

	s.logger.Info("case study saved", "id", id, "template", cs.Template, "content_bytes", len(cs.Content))
	return s.Get(ctx, id)
}

// SetPublished flips publication state; metadata-only, content untouched.
func (s *caseStudyService) SetPublished(ctx context.Context, id string, published bool) (*models.CaseStudy, error) {
	if err := s.repo.SetPublished(ctx, id, published); err != nil {
		return nil, err
	}
	s.logger.Info("case study publication changed", "id", id, "published", published)
	return s.Get(ctx, id)
}

// Delete removes the case study permanently.
func (s *caseStudyService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("case study deleted", "id", id)
	return nil
}

// Preview renders the current stored document without persisting anything.
func (s *caseStudyService) Preview(ctx context.Context, id string, template models.Template) (*render.Output, error) {
	cs, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if template == "" {
		template = cs.Template
	}
	renderer, err := s.renderers.For(template)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return renderer.Render(cs), nil
}

// RenderPublic resolves a published case study and renders it through the
// same renderer the editor preview uses.
func (s *caseStudyService) RenderPublic(ctx context.Context, slug string) (*models.CaseStudy, *render.Output, error) {
	cs, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	cs.Sections = s.sections.Backfill(cs.Sections)

	renderer, err := s.renderers.For(cs.Template)
	if err != nil {
		return nil, nil, fmt.Errorf("no renderer for stored template %q: %w", cs.Template, err)
	}
	return cs, renderer.Render(cs), nil
}

// ExportMarkdown renders the document with its own template (static
// templates use their HTML; the default template exports via the ghibli
// markup, which carries the same extracted content) and converts the result
// to Markdown.
func (s *caseStudyService) ExportMarkdown(ctx context.Context, id string) (string, error) {
	cs, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	template := cs.Template
	if template == models.TemplateDefault {
		template = models.TemplateGhibli
	}
	renderer, err := s.renderers.For(template)
	if err != nil {
		return "", err
	}

	markdown, err := s.markdown.ConvertString(renderer.Render(cs).HTML)
	if err != nil {
		return "", fmt.Errorf("convert export to markdown: %w", err)
	}
	return markdown, nil
}

// persist writes metadata and all section rows in one transaction.
func (s *caseStudyService) persist(ctx context.Context, cs *models.CaseStudy) error {
	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.repo.Save(txCtx, cs)
	})
}

func (s *caseStudyService) validateCreateRequest(req *services.CreateCaseStudyRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxTitleLength),
		),
		validation.Field(&req.Template,
			validation.By(func(value interface{}) error {
				t, _ := value.(models.Template)
				if t != "" && !t.Valid() {
					return fmt.Errorf("unknown template %q", t)
				}
				return nil
			}),
		),
	)
}
