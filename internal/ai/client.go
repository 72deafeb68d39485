// Package ai wraps the Anthropic SDK behind a small text-generation client.
// The client is an explicitly constructed object passed to whoever needs it;
// settings changes go through Refresh rather than any process-global state.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"folio/internal/domain/models"
)

const defaultMaxTokens = 1024

// Client generates and rewrites text through the Anthropic API.
type Client struct {
	client anthropic.Client
	logger *slog.Logger

	mu        sync.RWMutex
	model     string
	tone      string
	maxTokens int64
}

// NewClient creates an assist client. The API key is fixed for the process;
// model and tone come from persisted settings and can change at runtime.
func NewClient(apiKey string, settings *models.AISettings, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	c := &Client{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		logger: logger,
	}
	c.Refresh(settings)
	return c, nil
}

// Refresh applies new settings. Safe to call concurrently with Complete.
func (c *Client) Refresh(settings *models.AISettings) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.model = settings.Model
	c.tone = settings.DefaultTone
	c.maxTokens = int64(settings.MaxTokens)
	if c.maxTokens <= 0 {
		c.maxTokens = defaultMaxTokens
	}

	c.logger.Info("ai client refreshed", "model", c.model, "tone", c.tone)
}

// DefaultTone returns the configured fallback tone.
func (c *Client) DefaultTone() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tone
}

// Complete sends a single-turn prompt and returns the text of the response.
// Errors are returned unwrapped in message terms so callers can surface
// them verbatim; no retry is performed here.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	c.mu.RLock()
	model := c.model
	maxTokens := c.maxTokens
	c.mu.RUnlock()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Type: "text", Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", model)
	}
	return text, nil
}
