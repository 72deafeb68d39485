package services

import "context"

// AssistRequest asks the AI collaborator to generate or rewrite a long-text
// section field. ExistingText empty means generate from the section prompt;
// non-empty means rewrite in place.
type AssistRequest struct {
	Section           string `json:"section"`
	Field             string `json:"field"`
	ExistingText      string `json:"existing_text,omitempty"`
	Tone              string `json:"tone,omitempty"`
	CustomInstruction string `json:"custom_instruction,omitempty"`
	CaseStudyTitle    string `json:"case_study_title,omitempty"`
}

// AssistService produces replacement text for AI-eligible fields. Failures
// are returned as-is so the handler can surface the message verbatim; the
// service never retries and never falls back to placeholder content.
type AssistService interface {
	GenerateOrRewrite(ctx context.Context, req *AssistRequest) (string, error)
}
