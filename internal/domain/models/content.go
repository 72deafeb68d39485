package models

import "time"

// Story is the single "about/story" page content. Exactly one row per site.
type Story struct {
	ID        string    `json:"id" db:"id"`
	Headline  string    `json:"headline" db:"headline"`
	Body      string    `json:"body" db:"body"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CarouselItem is one ordered entry of the home-page carousel.
type CarouselItem struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Caption   string    `json:"caption" db:"caption"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	LinkURL   string    `json:"link_url" db:"link_url"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AISettings is the persisted configuration for the assist client.
// The client is rebuilt via Refresh whenever these change.
type AISettings struct {
	Model       string    `json:"model" db:"model"`
	DefaultTone string    `json:"default_tone" db:"default_tone"`
	MaxTokens   int       `json:"max_tokens" db:"max_tokens"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
