package llm

import (
	"context"
	"fmt"

	"ai-travel-planner/internal/config"
	"ai-travel-planner/internal/shared"
)

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// SystemPrompt frames every itinerary request regardless of provider.
const SystemPrompt = "You are an expert travel planner with extensive knowledge of destinations worldwide. " +
	"You create detailed, practical, and personalized travel itineraries. " +
	"Always respond with valid JSON format."

// Generation parameters shared by the providers.
const (
	DefaultMaxTokens   = 4000
	DefaultTemperature = 0.7
)

// NewTextGenerator builds the generator selected by cfg.LLMProvider.
// The returned generator may also implement Closer.
func NewTextGenerator(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	case config.ProviderGroq:
		return NewGroqClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
	}
}

// Close releases gen's resources when it holds any.
func Close(gen TextGenerator) error {
	if c, ok := gen.(Closer); ok {
		return c.Close()
	}
	return nil
}
