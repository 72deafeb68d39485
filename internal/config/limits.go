package config

// Content limits enforced by the service layer.
const (
	// MaxTitleLength caps case-study, story, and carousel titles.
	MaxTitleLength = 200

	// MaxFieldLength caps any single text-shaped section field.
	MaxFieldLength = 20000

	// MaxUploadBytes caps a single asset upload (images and documents).
	MaxUploadBytes = 25 << 20

	// MaxAssistChars caps the existing text sent to the AI collaborator.
	MaxAssistChars = 12000
)
