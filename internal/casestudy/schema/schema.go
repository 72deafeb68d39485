// Package schema holds the fixed section registry for case studies: which
// sections exist, their canonical order, and the shape of every field. The
// registry is the single source of truth consulted by the editor endpoints,
// the validation layer, and the renderers - field handling dispatches on
// shape, never on ad-hoc name checks.
package schema

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"folio/internal/domain/models"
)

//go:embed sections.yaml
var sectionsYAML []byte

// Shape is the editing/validation/rendering category a field follows,
// independent of its name.
type Shape string

const (
	ShapeText     Shape = "text"
	ShapeLongText Shape = "longtext" // eligible for AI generate/rewrite
	ShapeList     Shape = "list"     // newline-delimited, one item per line
	ShapeKVList   Shape = "kvlist"   // "Key: Value" per line
	ShapeLinkList Shape = "linklist" // "Name|URL" per line
	ShapeImageSet Shape = "imageset" // URLs written only by the upload flow
	ShapeDocSet   Shape = "docset"   // uploaded files with display names
	ShapeEmbedURL Shape = "embedurl" // provider-specific embeddable URL
)

// FieldSpec describes one editable field of a section.
type FieldSpec struct {
	Name     string `yaml:"name" json:"name"`
	Shape    Shape  `yaml:"shape" json:"shape"`
	Label    string `yaml:"label" json:"label"`
	Provider string `yaml:"provider,omitempty" json:"provider,omitempty"` // embedurl only
	Prompt   string `yaml:"prompt,omitempty" json:"prompt,omitempty"`     // longtext AI prompt
	Required bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Default  any    `yaml:"default" json:"default"`
}

// SectionSpec describes one section of the fixed set.
type SectionSpec struct {
	Name           string      `yaml:"name" json:"name"`
	Title          string      `yaml:"title" json:"title"`
	DefaultEnabled bool        `yaml:"default_enabled" json:"default_enabled"`
	Fields         []FieldSpec `yaml:"fields" json:"fields"`
}

// Field looks up a field spec by name.
func (s *SectionSpec) Field(name string) (*FieldSpec, bool) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

// Registry is the loaded section schema. It is immutable after Load.
type Registry struct {
	ordered []SectionSpec
	byName  map[string]*SectionSpec
}

type schemaFile struct {
	Sections []SectionSpec `yaml:"sections"`
}

// Load parses the embedded section schema.
func Load() (*Registry, error) {
	var file schemaFile
	if err := yaml.Unmarshal(sectionsYAML, &file); err != nil {
		return nil, fmt.Errorf("unmarshal section schema: %w", err)
	}
	if len(file.Sections) == 0 {
		return nil, fmt.Errorf("section schema is empty")
	}

	r := &Registry{
		ordered: file.Sections,
		byName:  make(map[string]*SectionSpec, len(file.Sections)),
	}
	for i := range r.ordered {
		spec := &r.ordered[i]
		if _, dup := r.byName[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate section %q in schema", spec.Name)
		}
		r.byName[spec.Name] = spec
	}
	return r, nil
}

// MustLoad is Load for wiring paths where a broken embedded schema is a
// programming error.
func MustLoad() *Registry {
	r, err := Load()
	if err != nil {
		panic(err)
	}
	return r
}

// Ordered returns all section specs in canonical render order.
func (r *Registry) Ordered() []SectionSpec {
	return r.ordered
}

// Section looks up a section spec by name.
func (r *Registry) Section(name string) (*SectionSpec, bool) {
	spec, ok := r.byName[name]
	return spec, ok
}

// DefaultSection builds a section populated with schema defaults.
func (r *Registry) DefaultSection(name string) (models.Section, bool) {
	spec, ok := r.byName[name]
	if !ok {
		return models.Section{}, false
	}
	fields := make(map[string]any, len(spec.Fields))
	for _, f := range spec.Fields {
		fields[f.Name] = defaultValue(f)
	}
	return models.Section{
		Enabled: spec.DefaultEnabled,
		Fields:  fields,
	}, true
}

// DefaultSections builds the full default section map for a new case study.
func (r *Registry) DefaultSections() map[string]models.Section {
	sections := make(map[string]models.Section, len(r.ordered))
	for _, spec := range r.ordered {
		section, _ := r.DefaultSection(spec.Name)
		sections[spec.Name] = section
	}
	return sections
}

// Backfill fills in any section keys missing from a stored case study with
// schema defaults. Storage written by older versions of the schema may lack
// newer sections; the editor always sees the full key set.
func (r *Registry) Backfill(sections map[string]models.Section) map[string]models.Section {
	if sections == nil {
		sections = make(map[string]models.Section, len(r.ordered))
	}
	for _, spec := range r.ordered {
		stored, present := sections[spec.Name]
		if !present {
			section, _ := r.DefaultSection(spec.Name)
			sections[spec.Name] = section
			continue
		}
		// Backfill individual fields added to the schema after the row
		// was written. Existing values are never touched.
		if stored.Fields == nil {
			stored.Fields = make(map[string]any, len(spec.Fields))
		}
		for _, f := range spec.Fields {
			if _, ok := stored.Fields[f.Name]; !ok {
				stored.Fields[f.Name] = defaultValue(f)
			}
		}
		sections[spec.Name] = stored
	}
	return sections
}

func defaultValue(f FieldSpec) any {
	if f.Default != nil {
		return f.Default
	}
	switch f.Shape {
	case ShapeImageSet, ShapeDocSet:
		return []any{}
	default:
		return ""
	}
}
