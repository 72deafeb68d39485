package validate

import (
	"testing"

	"folio/internal/casestudy/schema"
	"folio/internal/domain/models"
)

func newCaseStudy(t *testing.T, registry *schema.Registry) *models.CaseStudy {
	t.Helper()
	cs := &models.CaseStudy{
		Title:    "Test Study",
		Template: models.TemplateDefault,
		Sections: registry.DefaultSections(),
	}
	// Defaults leave hero enabled with an empty headline; fill it so tests
	// start from a clean document.
	setField(cs, "hero", "headline", "A headline")
	return cs
}

func setField(cs *models.CaseStudy, section, field string, value any) {
	s := cs.Sections[section]
	s.Fields[field] = value
	cs.Sections[section] = s
}

func enable(cs *models.CaseStudy, section string) {
	s := cs.Sections[section]
	s.Enabled = true
	cs.Sections[section] = s
}

func TestCaseStudyCleanDocument(t *testing.T) {
	registry := schema.MustLoad()
	cs := newCaseStudy(t, registry)

	errs := CaseStudy(registry, cs)
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestCaseStudyHeroHeadlineRequired(t *testing.T) {
	registry := schema.MustLoad()
	cs := newCaseStudy(t, registry)
	setField(cs, "hero", "headline", "   ")

	errs := CaseStudy(registry, cs)
	if _, ok := errs["hero.headline"]; !ok {
		t.Errorf("expected error on hero.headline, got %v", errs)
	}

	// Disabling the section clears the requirement.
	s := cs.Sections["hero"]
	s.Enabled = false
	cs.Sections["hero"] = s
	if errs := CaseStudy(registry, cs); len(errs) != 0 {
		t.Errorf("disabled section should not validate, got %v", errs)
	}
}

func TestCaseStudyMetricsLineErrors(t *testing.T) {
	registry := schema.MustLoad()
	cs := newCaseStudy(t, registry)
	setField(cs, "overview", "metrics", "Users: 50%\nBadLine")

	errs := CaseStudy(registry, cs)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if _, ok := errs["overview.metrics.1"]; !ok {
		t.Errorf("expected error on second line, got %v", errs)
	}
}

func TestCaseStudyLinkLineErrors(t *testing.T) {
	registry := schema.MustLoad()
	cs := newCaseStudy(t, registry)
	enable(cs, "links")
	setField(cs, "links", "items", "GitHub|https://github.com/x\nBad|not-a-url")

	errs := CaseStudy(registry, cs)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if _, ok := errs["links.items.1"]; !ok {
		t.Errorf("expected error on second line, got %v", errs)
	}
}

func TestCaseStudyEmbedURLs(t *testing.T) {
	registry := schema.MustLoad()

	tests := []struct {
		name    string
		section string
		url     string
		wantKey string
	}{
		{
			name:    "vimeo in video section flagged",
			section: "video",
			url:     "https://vimeo.com/123",
			wantKey: "video.url",
		},
		{
			name:    "youtube short link accepted",
			section: "video",
			url:     "https://youtu.be/abc123",
		},
		{
			name:    "figma file link accepted",
			section: "figma",
			url:     "https://www.figma.com/file/XYZ/Name",
		},
		{
			name:    "miro board link accepted",
			section: "miro",
			url:     "https://miro.com/app/board/uXjVOcKGjZo=/",
		},
		{
			name:    "arbitrary url in miro section flagged",
			section: "miro",
			url:     "https://example.com/board",
			wantKey: "miro.url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := newCaseStudy(t, registry)
			enable(cs, tt.section)
			setField(cs, tt.section, "url", tt.url)

			errs := CaseStudy(registry, cs)
			if tt.wantKey == "" {
				if len(errs) != 0 {
					t.Errorf("expected no errors, got %v", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("expected exactly one error, got %v", errs)
			}
			if _, ok := errs[tt.wantKey]; !ok {
				t.Errorf("expected error on %s, got %v", tt.wantKey, errs)
			}
		})
	}
}

func TestCaseStudyEmptyEmbedURLIsValid(t *testing.T) {
	registry := schema.MustLoad()
	cs := newCaseStudy(t, registry)
	enable(cs, "video")

	if errs := CaseStudy(registry, cs); len(errs) != 0 {
		t.Errorf("empty enabled embed url should not error, got %v", errs)
	}
}
