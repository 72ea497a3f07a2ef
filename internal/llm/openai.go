package llm

import (
	"context"
	"fmt"

	"ai-travel-planner/internal/config"
	"ai-travel-planner/internal/shared"

	openai "github.com/sashabaranov/go-openai"
)

// openAIClient is a client for the OpenAI chat completions API.
type openAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI API client.
func NewOpenAIClient(cfg *config.Config) TextGenerator {
	return newOpenAIClient(cfg, "")
}

func newOpenAIClient(cfg *config.Config, baseURL string) *openAIClient {
	clientCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	return &openAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.OpenAIModel,
	}
}

// GenerateContent sends a prompt to the OpenAI model and returns the generated text.
func (c *openAIClient) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	})
	if err != nil {
		return ContentResponse{}, fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return ContentResponse{}, fmt.Errorf("no content generated")
	}

	model := resp.Model
	if model == "" {
		model = c.model
	}

	return ContentResponse{
		Content: resp.Choices[0].Message.Content,
		Usage: shared.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
			Model:            model,
		},
	}, nil
}
