package render

import (
	"strings"

	"folio/internal/casestudy/embedurl"
	"folio/internal/casestudy/schema"
	"folio/internal/domain/models"
)

// Metric is one parsed "Key: Value" line.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Link is one parsed "Name|URL" line.
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Embed is a canonicalized provider embed. Err is set when the stored URL
// matches none of the provider's patterns; renderers must then emit a
// visible inline error placeholder instead of a broken frame.
type Embed struct {
	Provider string `json:"provider"`
	URL      string `json:"url,omitempty"`
	Err      string `json:"error,omitempty"`
}

// SectionContent is the renderer-independent content of one enabled section.
// All three renderers consume this one extraction, so the information they
// present per section type cannot drift apart; only the markup differs.
type SectionContent struct {
	Name      string               `json:"name"`
	Title     string               `json:"title"`
	Headline  string               `json:"headline,omitempty"`
	Subtext   string               `json:"subtext,omitempty"`
	HeroImage string               `json:"hero_image,omitempty"`
	Summary   string               `json:"summary,omitempty"`
	Body      string               `json:"body,omitempty"`
	Metrics   []Metric             `json:"metrics,omitempty"`
	Steps     []string             `json:"steps,omitempty"`
	Features  []string             `json:"features,omitempty"`
	Learnings []string             `json:"learnings,omitempty"`
	Images    []string             `json:"images,omitempty"`
	Documents []models.DocumentRef `json:"documents,omitempty"`
	Links     []Link               `json:"links,omitempty"`
	Embed     *Embed               `json:"embed,omitempty"`
}

// Extract walks the schema registry in canonical order and produces the
// semantic content of every enabled section. Disabled sections are omitted
// entirely. Extraction is tolerant: malformed metric/link lines are skipped
// here (validation gates save, but previews render mid-edit documents).
func Extract(registry *schema.Registry, cs *models.CaseStudy) []SectionContent {
	var out []SectionContent

	for _, spec := range registry.Ordered() {
		section, ok := cs.Sections[spec.Name]
		if !ok || !section.Enabled {
			continue
		}

		content := SectionContent{Name: spec.Name, Title: spec.Title}
		for _, field := range spec.Fields {
			extractField(&content, field, section)
		}
		out = append(out, content)
	}

	return out
}

func extractField(content *SectionContent, field schema.FieldSpec, section models.Section) {
	switch field.Shape {
	case schema.ShapeText:
		value := strings.TrimSpace(section.Text(field.Name))
		switch field.Name {
		case "title":
			if value != "" {
				content.Title = value
			}
		case "headline":
			content.Headline = value
		}

	case schema.ShapeLongText:
		value := strings.TrimSpace(section.Text(field.Name))
		switch field.Name {
		case "subtext":
			content.Subtext = value
		case "summary":
			content.Summary = value
		case "description":
			content.Body = value
		}

	case schema.ShapeList:
		lines := splitLines(section.Text(field.Name))
		switch field.Name {
		case "steps":
			content.Steps = lines
		case "features":
			content.Features = lines
		case "learnings":
			content.Learnings = lines
		}

	case schema.ShapeKVList:
		content.Metrics = ParseMetrics(section.Text(field.Name))

	case schema.ShapeLinkList:
		content.Links = ParseLinks(section.Text(field.Name))

	case schema.ShapeImageSet:
		images := section.StringList(field.Name)
		if field.Name == "imageUrl" {
			if len(images) > 0 {
				content.HeroImage = images[0]
			}
		} else {
			content.Images = images
		}

	case schema.ShapeDocSet:
		content.Documents = section.DocumentRefs(field.Name)

	case schema.ShapeEmbedURL:
		raw := strings.TrimSpace(section.Text(field.Name))
		if raw == "" {
			return
		}
		embed := &Embed{Provider: field.Provider}
		canonical, err := embedurl.Canonicalize(field.Provider, raw)
		if err != nil {
			embed.Err = err.Error()
		} else {
			embed.URL = canonical
		}
		content.Embed = embed
	}
}

// ParseMetrics parses "Key: Value" lines, skipping blanks and lines that do
// not split into two non-empty parts on the first colon.
func ParseMetrics(raw string) []Metric {
	var metrics []Metric
	for _, line := range splitLines(raw) {
		label, value, found := strings.Cut(line, ":")
		label, value = strings.TrimSpace(label), strings.TrimSpace(value)
		if !found || label == "" || value == "" {
			continue
		}
		metrics = append(metrics, Metric{Label: label, Value: value})
	}
	return metrics
}

// ParseLinks parses "Name|URL" lines, skipping blanks and malformed lines.
func ParseLinks(raw string) []Link {
	var links []Link
	for _, line := range splitLines(raw) {
		name, url, found := strings.Cut(line, "|")
		name, url = strings.TrimSpace(name), strings.TrimSpace(url)
		if !found || name == "" || url == "" {
			continue
		}
		links = append(links, Link{Name: name, URL: url})
	}
	return links
}

func splitLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
