package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"folio/internal/ai"
	"folio/internal/casestudy/schema"
	"folio/internal/config"
	"folio/internal/domain"
	"folio/internal/domain/services"
)

const assistSystemPrompt = "You are a writing assistant for a designer's portfolio site. " +
	"Write clear, specific, first-person copy for case-study pages. " +
	"Return only the finished text with no preamble, no quotes, and no markdown headers."

// assistService implements the AssistService interface. It builds a prompt
// from the section schema and delegates to the AI client; failures come back
// untouched so the admin UI can show the provider's message verbatim.
type assistService struct {
	client   *ai.Client
	sections *schema.Registry
	logger   *slog.Logger
}

// NewAssistService creates a new assist service
func NewAssistService(client *ai.Client, sections *schema.Registry, logger *slog.Logger) services.AssistService {
	return &assistService{
		client:   client,
		sections: sections,
		logger:   logger,
	}
}

// GenerateOrRewrite produces replacement text for a long-text field.
func (s *assistService) GenerateOrRewrite(ctx context.Context, req *services.AssistRequest) (string, error) {
	if err := s.validateRequest(req); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	spec, ok := s.sections.Section(req.Section)
	if !ok {
		return "", fmt.Errorf("%w: unknown section %q", domain.ErrValidation, req.Section)
	}
	field, ok := spec.Field(req.Field)
	if !ok || field.Shape != schema.ShapeLongText {
		return "", fmt.Errorf("%w: field %q in section %q is not AI-eligible", domain.ErrValidation, req.Field, req.Section)
	}

	tone := req.Tone
	if tone == "" {
		tone = s.client.DefaultTone()
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Section: %s (%s)\n", spec.Title, field.Label)
	if req.CaseStudyTitle != "" {
		fmt.Fprintf(&prompt, "Case study: %s\n", req.CaseStudyTitle)
	}
	fmt.Fprintf(&prompt, "Tone: %s\n\n", tone)

	if strings.TrimSpace(req.ExistingText) == "" {
		prompt.WriteString(field.Prompt)
	} else {
		fmt.Fprintf(&prompt, "Rewrite the following text, keeping its meaning:\n\n%s", req.ExistingText)
	}
	if req.CustomInstruction != "" {
		fmt.Fprintf(&prompt, "\n\nAdditional instruction: %s", req.CustomInstruction)
	}

	text, err := s.client.Complete(ctx, assistSystemPrompt, prompt.String())
	if err != nil {
		s.logger.Warn("assist call failed", "section", req.Section, "field", req.Field, "error", err)
		return "", err
	}

	s.logger.Info("assist text produced",
		"section", req.Section,
		"field", req.Field,
		"rewrite", req.ExistingText != "",
		"chars", len(text),
	)
	return text, nil
}

func (s *assistService) validateRequest(req *services.AssistRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Section, validation.Required),
		validation.Field(&req.Field, validation.Required),
		validation.Field(&req.ExistingText, validation.Length(0, config.MaxAssistChars)),
	)
}
