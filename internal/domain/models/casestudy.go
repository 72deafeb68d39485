package models

import (
	"time"
)

// Template selects which renderer interprets a case study's sections.
type Template string

const (
	TemplateDefault Template = "default"
	TemplateGhibli  Template = "ghibli"
	TemplateModern  Template = "modern"
)

// Valid reports whether t is one of the known templates.
func (t Template) Valid() bool {
	switch t {
	case TemplateDefault, TemplateGhibli, TemplateModern:
		return true
	}
	return false
}

// Section is a named, independently toggleable content block within a case
// study. Field values are stored loosely typed (JSONB in Postgres): text
// shapes are strings, image sets are string slices, document sets are slices
// of DocumentRef-shaped maps. The section schema registry defines which
// fields exist and what shape each one has.
type Section struct {
	Enabled bool           `json:"enabled"`
	Fields  map[string]any `json:"fields"`
}

// Text returns a string field, or "" when absent or not a string.
func (s Section) Text(field string) string {
	v, _ := s.Fields[field].(string)
	return v
}

// StringList returns a field holding an ordered list of strings. A bare
// string value is treated as a single-element list (hero.imageUrl stores one
// URL under an image-set shaped field).
func (s Section) StringList(field string) []string {
	switch v := s.Fields[field].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok && str != "" {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// DocumentRef is one entry in a document-set field.
type DocumentRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DocumentRefs returns a document-set field as a typed slice.
func (s Section) DocumentRefs(field string) []DocumentRef {
	raw, ok := s.Fields[field].([]any)
	if !ok {
		return nil
	}
	out := make([]DocumentRef, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ref := DocumentRef{}
		ref.Name, _ = m["name"].(string)
		ref.URL, _ = m["url"].(string)
		if ref.URL != "" {
			out = append(out, ref)
		}
	}
	return out
}

// CaseStudy is the root content object edited in the admin console and
// rendered publicly. Content is derived data: empty for the default
// template, and equal to the static renderer's output as of the last save
// for ghibli/modern.
type CaseStudy struct {
	ID          string             `json:"id" db:"id"`
	Slug        string             `json:"slug" db:"slug"`
	Title       string             `json:"title" db:"title"`
	Template    Template           `json:"template" db:"template"`
	Sections    map[string]Section `json:"sections"`
	Content     string             `json:"content" db:"content"`
	IsPublished bool               `json:"is_published" db:"is_published"`
	PublishedAt *time.Time         `json:"published_at,omitempty" db:"published_at"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" db:"updated_at"`
}

// CaseStudySummary is the listing projection (no section blobs, no content).
type CaseStudySummary struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Template    Template   `json:"template"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
