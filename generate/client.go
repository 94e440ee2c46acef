// Package generate performs the external text-generation call for a
// guidance plan and substitutes the plan's deterministic fallback whenever
// that call cannot produce schema-valid content.
package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// ErrDisabled is returned by NewClientFromEnv when no provider is
// configured. An orchestrator built with a nil client serves fallbacks only.
var ErrDisabled = errors.New("generation client disabled (no provider configured)")

// Client is the minimal generation interface the orchestrator needs.
type Client interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// ModelClient adapts a langchaingo model to Client.
type ModelClient struct {
	model       llms.Model
	temperature float64
}

// NewModelClient wraps an initialized langchaingo model.
func NewModelClient(model llms.Model) *ModelClient {
	return &ModelClient{model: model, temperature: 0.4}
}

// NewClientFromEnv selects a provider from the environment:
// GENERATOR_PROVIDER=openai|googleai (default openai when OPENAI_API_KEY is
// set, googleai when GEMINI_API_KEY/GOOGLE_API_KEY is set). GENERATOR_MODEL
// overrides the provider default.
func NewClientFromEnv(ctx context.Context) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("GENERATOR_PROVIDER")))
	model := strings.TrimSpace(os.Getenv("GENERATOR_MODEL"))

	if provider == "" {
		switch {
		case os.Getenv("OPENAI_API_KEY") != "":
			provider = "openai"
		case os.Getenv("GEMINI_API_KEY") != "" || os.Getenv("GOOGLE_API_KEY") != "":
			provider = "googleai"
		default:
			return nil, ErrDisabled
		}
	}

	switch provider {
	case "openai":
		opts := []openai.Option{}
		if model != "" {
			opts = append(opts, openai.WithModel(model))
		}
		if base := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); base != "" {
			opts = append(opts, openai.WithBaseURL(base))
		}
		m, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize openai model: %w", err)
		}
		return NewModelClient(m), nil

	case "googleai":
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			key = os.Getenv("GOOGLE_API_KEY")
		}
		if key == "" {
			return nil, ErrDisabled
		}
		if model == "" {
			model = "gemini-1.5-flash"
		}
		m, err := googleai.New(ctx,
			googleai.WithAPIKey(key),
			googleai.WithDefaultModel(model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize googleai model: %w", err)
		}
		return NewModelClient(m), nil

	default:
		return nil, fmt.Errorf("unknown generator provider %q", provider)
	}
}

// Generate sends one system/user exchange and returns the model's text.
func (c *ModelClient) Generate(ctx context.Context, system, user string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, user),
	}
	resp, err := c.model.GenerateContent(ctx, content, llms.WithTemperature(c.temperature))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}
