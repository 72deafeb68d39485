package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"folio/internal/casestudy/schema"
	"folio/internal/domain/models"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

// staticRenderer produces a single self-contained HTML string. All CSS is
// inlined in one <style> block scoped with the renderer's class prefix
// (ghibli-* / modern-*), so the two static outputs never collide even if
// concatenated on one page.
type staticRenderer struct {
	template models.Template
	sections *schema.Registry
	tmpl     *template.Template
}

type staticLayoutData struct {
	Title    string
	Sections []template.HTML
}

func newStaticRenderer(t models.Template, sections *schema.Registry) (*staticRenderer, error) {
	name := fmt.Sprintf("templates/%s.tmpl", t)
	tmpl, err := template.ParseFS(templateFiles, name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return &staticRenderer{
		template: t,
		sections: sections,
		tmpl:     tmpl,
	}, nil
}

func (r *staticRenderer) Template() models.Template {
	return r.template
}

func (r *staticRenderer) Render(cs *models.CaseStudy) *Output {
	var rendered []template.HTML
	for _, content := range Extract(r.sections, cs) {
		rendered = append(rendered, r.renderSection(content))
	}

	var buf bytes.Buffer
	err := r.tmpl.ExecuteTemplate(&buf, "layout", staticLayoutData{
		Title:    cs.Title,
		Sections: rendered,
	})
	if err != nil {
		// Layout failure means the embedded template itself is broken;
		// degrade to a whole-page placeholder rather than propagating.
		return &Output{
			Template: r.template,
			HTML:     r.errorPlaceholder("page"),
		}
	}

	return &Output{
		Template: r.template,
		HTML:     buf.String(),
	}
}

// renderSection executes the section template in isolation so one malformed
// section degrades to a placeholder without losing the rest of the page.
func (r *staticRenderer) renderSection(content SectionContent) (out template.HTML) {
	defer func() {
		if rec := recover(); rec != nil {
			out = template.HTML(r.errorPlaceholder(content.Name))
		}
	}()

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "section", content); err != nil {
		return template.HTML(r.errorPlaceholder(content.Name))
	}
	return template.HTML(buf.String())
}

func (r *staticRenderer) errorPlaceholder(section string) string {
	var buf bytes.Buffer
	// Build through the template engine so the section name is escaped.
	err := template.Must(template.New("err").Parse(
		`<div class="{{.Prefix}}-render-error">Preview unavailable: {{.Section}}</div>`,
	)).Execute(&buf, map[string]string{"Prefix": string(r.template), "Section": section})
	if err != nil {
		return `<div class="render-error">Preview unavailable</div>`
	}
	return buf.String()
}
