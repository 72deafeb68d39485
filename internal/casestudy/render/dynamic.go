package render

import (
	"folio/internal/casestudy/schema"
	"folio/internal/domain/models"
)

// Node is one element of the component tree consumed by the client-side
// dynamic template. Type names the client component, Props carries its
// semantic content.
type Node struct {
	Type     string         `json:"type"`
	Props    map[string]any `json:"props,omitempty"`
	Children []Node         `json:"children,omitempty"`
}

// dynamicRenderer produces the component tree for the default template.
type dynamicRenderer struct {
	sections *schema.Registry
}

func newDynamicRenderer(sections *schema.Registry) *dynamicRenderer {
	return &dynamicRenderer{sections: sections}
}

func (r *dynamicRenderer) Template() models.Template {
	return models.TemplateDefault
}

func (r *dynamicRenderer) Render(cs *models.CaseStudy) *Output {
	root := Node{
		Type: "case-study",
		Props: map[string]any{
			"title": cs.Title,
		},
	}

	for _, content := range Extract(r.sections, cs) {
		root.Children = append(root.Children, sectionNode(content))
	}

	return &Output{
		Template: models.TemplateDefault,
		Tree:     &root,
	}
}

// sectionNode builds one section's subtree. A panic while assembling a
// section (unexpected field shapes mid-edit) degrades to an error
// placeholder node instead of failing the whole preview.
func sectionNode(content SectionContent) (node Node) {
	defer func() {
		if r := recover(); r != nil {
			node = Node{
				Type: "render-error",
				Props: map[string]any{
					"section": content.Name,
					"message": "preview unavailable",
				},
			}
		}
	}()

	node = Node{
		Type:  content.Name,
		Props: map[string]any{"title": content.Title},
	}
	props := node.Props

	if content.Headline != "" {
		props["headline"] = content.Headline
	}
	if content.Subtext != "" {
		props["subtext"] = content.Subtext
	}
	if content.HeroImage != "" {
		props["imageUrl"] = content.HeroImage
	}
	if content.Summary != "" {
		props["summary"] = content.Summary
	}
	if content.Body != "" {
		props["body"] = content.Body
	}
	if len(content.Steps) > 0 {
		props["items"] = content.Steps
	}
	if len(content.Features) > 0 {
		props["items"] = content.Features
	}
	if len(content.Learnings) > 0 {
		props["items"] = content.Learnings
	}
	if len(content.Images) > 0 {
		props["images"] = content.Images
	}

	for _, metric := range content.Metrics {
		node.Children = append(node.Children, Node{
			Type:  "metric",
			Props: map[string]any{"label": metric.Label, "value": metric.Value},
		})
	}
	for _, link := range content.Links {
		node.Children = append(node.Children, Node{
			Type:  "link",
			Props: map[string]any{"name": link.Name, "url": link.URL},
		})
	}
	for _, doc := range content.Documents {
		node.Children = append(node.Children, Node{
			Type:  "document",
			Props: map[string]any{"name": doc.Name, "url": doc.URL},
		})
	}
	if content.Embed != nil {
		embedProps := map[string]any{"provider": content.Embed.Provider}
		embedType := "embed"
		if content.Embed.Err != "" {
			embedType = "embed-error"
			embedProps["message"] = content.Embed.Err
		} else {
			embedProps["url"] = content.Embed.URL
		}
		node.Children = append(node.Children, Node{Type: embedType, Props: embedProps})
	}

	return node
}
