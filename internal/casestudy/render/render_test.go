package render

import (
	"strings"
	"testing"

	"folio/internal/casestudy/schema"
	"folio/internal/domain/models"
)

func testCaseStudy(t *testing.T, sections *schema.Registry) *models.CaseStudy {
	t.Helper()
	cs := &models.CaseStudy{
		ID:       "cs-1",
		Title:    "Redesigning Checkout",
		Template: models.TemplateDefault,
		Sections: sections.DefaultSections(),
	}
	set := func(section, field string, value any) {
		s := cs.Sections[section]
		s.Fields[field] = value
		cs.Sections[section] = s
	}
	enable := func(section string) {
		s := cs.Sections[section]
		s.Enabled = true
		cs.Sections[section] = s
	}

	set("hero", "headline", "Redesigning Checkout")
	set("hero", "subtext", "A three-month design sprint")
	set("overview", "summary", "We rebuilt the checkout flow.")
	set("overview", "metrics", "Conversion: +18%\nSupport tickets: -40%")
	set("process", "steps", "Research\nPrototype\nShip")
	enable("video")
	set("video", "url", "https://youtu.be/abc123")
	enable("links")
	set("links", "items", "GitHub|https://github.com/x/checkout")
	return cs
}

func newRegistries(t *testing.T) (*schema.Registry, *Registry) {
	t.Helper()
	sections := schema.MustLoad()
	renderers, err := NewRegistry(sections)
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}
	return sections, renderers
}

func TestRenderIsIdempotent(t *testing.T) {
	sections, renderers := newRegistries(t)
	cs := testCaseStudy(t, sections)

	for _, template := range []models.Template{
		models.TemplateDefault, models.TemplateGhibli, models.TemplateModern,
	} {
		t.Run(string(template), func(t *testing.T) {
			renderer, err := renderers.For(template)
			if err != nil {
				t.Fatalf("For(%s): %v", template, err)
			}
			first := renderer.Render(cs)
			second := renderer.Render(cs)

			if first.HTML != second.HTML {
				t.Errorf("static output not stable across calls")
			}
			if (first.Tree == nil) != (second.Tree == nil) {
				t.Fatalf("tree presence differs across calls")
			}
			if first.Tree != nil && len(first.Tree.Children) != len(second.Tree.Children) {
				t.Errorf("tree shape not stable across calls")
			}
		})
	}
}

func TestStaticRenderersShareContent(t *testing.T) {
	sections, renderers := newRegistries(t)
	cs := testCaseStudy(t, sections)

	for _, template := range []models.Template{models.TemplateGhibli, models.TemplateModern} {
		renderer, _ := renderers.For(template)
		out := renderer.Render(cs)
		if out.HTML == "" {
			t.Fatalf("%s: empty output", template)
		}

		// Both static templates must present the same information.
		for _, want := range []string{
			"Redesigning Checkout",
			"A three-month design sprint",
			"Conversion",
			"+18%",
			"https://www.youtube.com/embed/abc123",
			"https://github.com/x/checkout",
		} {
			if !strings.Contains(out.HTML, want) {
				t.Errorf("%s output missing %q", template, want)
			}
		}

		// Styles are scoped with the renderer's class prefix.
		prefix := string(template) + "-"
		if !strings.Contains(out.HTML, "<style>") || !strings.Contains(out.HTML, prefix) {
			t.Errorf("%s output missing scoped style block", template)
		}
		other := "ghibli-"
		if template == models.TemplateGhibli {
			other = "modern-"
		}
		if strings.Contains(out.HTML, other) {
			t.Errorf("%s output leaks %s classes", template, other)
		}
	}
}

func TestDisabledSectionsAreOmitted(t *testing.T) {
	sections, renderers := newRegistries(t)
	cs := testCaseStudy(t, sections)

	s := cs.Sections["process"]
	s.Enabled = false
	cs.Sections["process"] = s

	ghibli, _ := renderers.For(models.TemplateGhibli)
	out := ghibli.Render(cs)
	if strings.Contains(out.HTML, "ghibli-process-section") {
		t.Errorf("disabled section still rendered")
	}
	// Field values survive the disable.
	if cs.Sections["process"].Text("steps") != "Research\nPrototype\nShip" {
		t.Errorf("disabling a section must not clear its fields")
	}

	dynamic, _ := renderers.For(models.TemplateDefault)
	tree := dynamic.Render(cs).Tree
	for _, child := range tree.Children {
		if child.Type == "process" {
			t.Errorf("disabled section present in component tree")
		}
	}
}

func TestRenderOrderIsFixed(t *testing.T) {
	sections, renderers := newRegistries(t)
	cs := testCaseStudy(t, sections)

	dynamic, _ := renderers.For(models.TemplateDefault)
	tree := dynamic.Render(cs).Tree

	var got []string
	for _, child := range tree.Children {
		got = append(got, child.Type)
	}
	want := []string{"hero", "overview", "problem", "process", "showcase", "video", "links", "reflection"}
	if len(got) != len(want) {
		t.Fatalf("section order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("section order = %v, want %v", got, want)
		}
	}
}

func TestBadEmbedRendersInlineError(t *testing.T) {
	sections, renderers := newRegistries(t)
	cs := testCaseStudy(t, sections)

	s := cs.Sections["video"]
	s.Fields["url"] = "https://vimeo.com/123"
	cs.Sections["video"] = s

	for _, template := range []models.Template{models.TemplateGhibli, models.TemplateModern} {
		renderer, _ := renderers.For(template)
		out := renderer.Render(cs)
		if !strings.Contains(out.HTML, string(template)+"-embed-error") {
			t.Errorf("%s: expected inline embed error placeholder", template)
		}
		if strings.Contains(out.HTML, "vimeo.com") {
			t.Errorf("%s: unembeddable URL must not appear in an iframe", template)
		}
	}

	dynamic, _ := renderers.For(models.TemplateDefault)
	tree := dynamic.Render(cs).Tree
	found := false
	for _, child := range tree.Children {
		if child.Type != "video" {
			continue
		}
		for _, grandchild := range child.Children {
			if grandchild.Type == "embed-error" {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("dynamic tree missing embed-error node")
	}
}

func TestFigmaEmbedWrapsOriginalURL(t *testing.T) {
	sections, renderers := newRegistries(t)
	cs := testCaseStudy(t, sections)

	s := cs.Sections["figma"]
	s.Enabled = true
	s.Fields["url"] = "https://www.figma.com/file/XYZ/Name"
	cs.Sections["figma"] = s

	modern, _ := renderers.For(models.TemplateModern)
	out := modern.Render(cs)
	if !strings.Contains(out.HTML, "figma.com/embed?embed_host=share&amp;url=https%3A%2F%2Fwww.figma.com%2Ffile%2FXYZ%2FName") {
		t.Errorf("expected wrapped figma embed URL in output")
	}
}

func TestExtractParsesListsOnce(t *testing.T) {
	sections, _ := newRegistries(t)
	cs := testCaseStudy(t, sections)

	var overview *SectionContent
	for _, content := range Extract(sections, cs) {
		if content.Name == "overview" {
			c := content
			overview = &c
		}
	}
	if overview == nil {
		t.Fatal("overview missing from extraction")
	}
	if len(overview.Metrics) != 2 {
		t.Fatalf("metrics = %v, want 2 entries", overview.Metrics)
	}
	if overview.Metrics[0].Label != "Conversion" || overview.Metrics[0].Value != "+18%" {
		t.Errorf("first metric = %+v", overview.Metrics[0])
	}
}

func TestParseMetricsSkipsMalformedLines(t *testing.T) {
	metrics := ParseMetrics("Users: 50%\nBadLine\n\n : empty key")
	if len(metrics) != 1 {
		t.Fatalf("metrics = %v, want 1 entry", metrics)
	}
	if metrics[0].Label != "Users" || metrics[0].Value != "50%" {
		t.Errorf("metric = %+v", metrics[0])
	}
}
