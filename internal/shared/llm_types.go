package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// AgentMeta holds operational metadata for one pipeline stage that called an external model.
type AgentMeta struct {
	AgentName string
	Usage     TokenUsage
	Latency   time.Duration
	// Fallback is set when the stage's output was replaced by a synthesized default.
	Fallback bool
}
