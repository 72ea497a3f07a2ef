package metrics

import (
	"fmt"
	"strings"
	"time"

	"ai-travel-planner/internal/shared"
)

// ExecutionMetric records metadata for a single model call.
type ExecutionMetric struct {
	AgentName        string
	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Fallback         bool
}

// MapUsage converts pipeline metadata into an ExecutionMetric.
func MapUsage(meta shared.AgentMeta) ExecutionMetric {
	return ExecutionMetric{
		AgentName:        meta.AgentName,
		Model:            meta.Usage.Model,
		PromptTokens:     meta.Usage.PromptTokens,
		CompletionTokens: meta.Usage.CompletionTokens,
		LatencyMS:        meta.Latency.Milliseconds(),
		Fallback:         meta.Fallback,
	}
}

// FormatUsage renders one line per model call, e.g.
// "Itinerary (gpt-3.5-turbo): 1200 prompt + 800 completion tokens in 4.2s".
func FormatUsage(metas []shared.AgentMeta) string {
	if len(metas) == 0 {
		return "no model calls"
	}

	var sb strings.Builder
	for i, meta := range metas {
		m := MapUsage(meta)
		if i > 0 {
			sb.WriteString("\n")
		}
		model := m.Model
		if model == "" {
			model = "unknown model"
		}
		fmt.Fprintf(&sb, "%s (%s): %d prompt + %d completion tokens in %s",
			m.AgentName, model, m.PromptTokens, m.CompletionTokens,
			(time.Duration(m.LatencyMS) * time.Millisecond).Round(100*time.Millisecond))
		if m.Fallback {
			sb.WriteString(" [fallback]")
		}
	}
	return sb.String()
}
