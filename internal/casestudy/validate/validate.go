// Package validate inspects a full case study and produces a field-keyed
// error map. Validation is pure: the map is always re-derivable from the
// current section values alone. Disabled sections are skipped entirely.
//
// Error map keys are "<section>.<field>", or "<section>.<field>.<line>" for
// per-line errors in list-shaped fields (0-based raw line index, blank lines
// keep their index but are never flagged).
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"folio/internal/casestudy/embedurl"
	"folio/internal/casestudy/schema"
	"folio/internal/domain/models"
)

// ErrorMap maps field keys to human-readable error messages.
type ErrorMap map[string]string

// absoluteURLRe matches absolute http(s) URLs; used for the URL half of
// "Name|URL" link lines.
var absoluteURLRe = regexp.MustCompile(`^https?://\S+$`)

// CaseStudy validates every enabled section of cs against the schema
// registry. An empty map means the document is saveable.
func CaseStudy(registry *schema.Registry, cs *models.CaseStudy) ErrorMap {
	errs := make(ErrorMap)

	for _, spec := range registry.Ordered() {
		section, ok := cs.Sections[spec.Name]
		if !ok || !section.Enabled {
			continue
		}
		for _, field := range spec.Fields {
			key := spec.Name + "." + field.Name
			validateField(errs, key, field, section)
		}
	}

	return errs
}

func validateField(errs ErrorMap, key string, field schema.FieldSpec, section models.Section) {
	switch field.Shape {
	case schema.ShapeText, schema.ShapeLongText:
		if field.Required && strings.TrimSpace(section.Text(field.Name)) == "" {
			errs[key] = fmt.Sprintf("%s is required", field.Label)
		}

	case schema.ShapeEmbedURL:
		raw := strings.TrimSpace(section.Text(field.Name))
		if raw == "" {
			return
		}
		if !embedurl.Accepts(field.Provider, raw) {
			errs[key] = fmt.Sprintf("not a recognized %s URL", field.Provider)
		}

	case schema.ShapeKVList:
		validateLines(errs, key, section.Text(field.Name), func(line string) error {
			k, v, found := strings.Cut(line, ":")
			if !found || strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
				return fmt.Errorf(`expected "Key: Value"`)
			}
			return nil
		})

	case schema.ShapeLinkList:
		validateLines(errs, key, section.Text(field.Name), func(line string) error {
			name, rawURL, found := strings.Cut(line, "|")
			if !found || strings.TrimSpace(name) == "" || strings.TrimSpace(rawURL) == "" {
				return fmt.Errorf(`expected "Name|URL"`)
			}
			if !absoluteURLRe.MatchString(strings.TrimSpace(rawURL)) {
				return fmt.Errorf("URL must be absolute (http:// or https://)")
			}
			return nil
		})
	}
	// list, imageset, and docset shapes carry no format constraints:
	// newline lists accept anything, and image/document URLs are written
	// only by the upload flow.
}

func validateLines(errs ErrorMap, key, raw string, check func(line string) error) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	for i, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := check(line); err != nil {
			errs[fmt.Sprintf("%s.%d", key, i)] = err.Error()
		}
	}
}
