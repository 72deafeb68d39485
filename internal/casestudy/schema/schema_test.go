package schema

import (
	"testing"

	"folio/internal/domain/models"
)

func TestLoadOrderIsCanonical(t *testing.T) {
	registry := MustLoad()

	want := []string{
		"hero", "overview", "problem", "process", "showcase", "gallery",
		"video", "figma", "miro", "document", "links", "reflection",
	}
	ordered := registry.Ordered()
	if len(ordered) != len(want) {
		t.Fatalf("section count = %d, want %d", len(ordered), len(want))
	}
	for i, spec := range ordered {
		if spec.Name != want[i] {
			t.Errorf("section[%d] = %q, want %q", i, spec.Name, want[i])
		}
	}
}

func TestDefaultEnabledSections(t *testing.T) {
	registry := MustLoad()
	defaults := registry.DefaultSections()

	enabled := map[string]bool{
		"hero": true, "overview": true, "problem": true,
		"process": true, "showcase": true, "reflection": true,
	}
	for name, section := range defaults {
		if section.Enabled != enabled[name] {
			t.Errorf("section %q enabled = %v, want %v", name, section.Enabled, enabled[name])
		}
	}
}

func TestDefaultSectionCarriesFieldDefaults(t *testing.T) {
	registry := MustLoad()

	overview, ok := registry.DefaultSection("overview")
	if !ok {
		t.Fatal("overview section missing from registry")
	}
	if got := overview.Text("title"); got != "Overview" {
		t.Errorf("overview.title = %q, want %q", got, "Overview")
	}
	if _, ok := overview.Fields["metrics"]; !ok {
		t.Error("overview.metrics should be initialized")
	}
}

func TestBackfillAddsMissingSectionsAndFields(t *testing.T) {
	registry := MustLoad()

	stored := map[string]models.Section{
		"hero": {
			Enabled: true,
			Fields:  map[string]any{"headline": "Kept"},
		},
	}
	filled := registry.Backfill(stored)

	if len(filled) != len(registry.Ordered()) {
		t.Fatalf("backfilled section count = %d, want %d", len(filled), len(registry.Ordered()))
	}
	if got := filled["hero"].Text("headline"); got != "Kept" {
		t.Errorf("existing value overwritten: headline = %q", got)
	}
	if _, ok := filled["hero"].Fields["subtext"]; !ok {
		t.Error("missing hero.subtext should be filled with its default")
	}
	if links, ok := filled["links"]; !ok || links.Enabled {
		t.Error("backfilled links section should exist and be disabled")
	}
}

func TestFieldLookup(t *testing.T) {
	registry := MustLoad()

	video, ok := registry.Section("video")
	if !ok {
		t.Fatal("video section missing")
	}
	url, ok := video.Field("url")
	if !ok {
		t.Fatal("video.url field missing")
	}
	if url.Shape != ShapeEmbedURL {
		t.Errorf("video.url shape = %q, want %q", url.Shape, ShapeEmbedURL)
	}
	if url.Provider != "youtube" {
		t.Errorf("video.url provider = %q, want youtube", url.Provider)
	}
	if _, ok := video.Field("bogus"); ok {
		t.Error("unknown field lookup should fail")
	}
}
