// Package render turns a case study into one of three presentational forms:
// a structured component tree for the client-rendered default template, or a
// self-contained static HTML string for the ghibli and modern templates.
//
// The editor preview, the save-time content generation, and the public route
// all go through the same Renderer instance per template; there is no second
// code path that could drift.
package render

import (
	"fmt"

	"folio/internal/casestudy/schema"
	"folio/internal/domain/models"
)

// Output is the result of rendering a case study. Exactly one of Tree and
// HTML is populated, depending on the template kind.
type Output struct {
	Template models.Template `json:"template"`
	Tree     *Node           `json:"tree,omitempty"`
	HTML     string          `json:"html,omitempty"`
}

// Renderer renders a case study deterministically: the same document always
// produces the same output, and render failures surface as inline
// placeholders rather than errors (the editor must stay usable on
// half-edited documents).
type Renderer interface {
	Template() models.Template
	Render(cs *models.CaseStudy) *Output
}

// Registry holds one renderer per template.
type Registry struct {
	renderers map[models.Template]Renderer
}

// NewRegistry builds the renderer set from the section schema.
func NewRegistry(sections *schema.Registry) (*Registry, error) {
	ghibli, err := newStaticRenderer(models.TemplateGhibli, sections)
	if err != nil {
		return nil, fmt.Errorf("build ghibli renderer: %w", err)
	}
	modern, err := newStaticRenderer(models.TemplateModern, sections)
	if err != nil {
		return nil, fmt.Errorf("build modern renderer: %w", err)
	}

	return &Registry{
		renderers: map[models.Template]Renderer{
			models.TemplateDefault: newDynamicRenderer(sections),
			models.TemplateGhibli:  ghibli,
			models.TemplateModern:  modern,
		},
	}, nil
}

// For returns the renderer for the given template.
func (r *Registry) For(template models.Template) (Renderer, error) {
	renderer, ok := r.renderers[template]
	if !ok {
		return nil, fmt.Errorf("no renderer for template %q", template)
	}
	return renderer, nil
}
