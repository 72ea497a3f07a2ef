package metrics

import (
	"strings"
	"testing"
	"time"

	"ai-travel-planner/internal/shared"
)

func TestFormatUsage(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		if got := FormatUsage(nil); got != "no model calls" {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("Calls", func(t *testing.T) {
		metas := []shared.AgentMeta{
			{
				AgentName: "Itinerary",
				Usage:     shared.TokenUsage{PromptTokens: 1200, CompletionTokens: 800, Model: "gpt-3.5-turbo"},
				Latency:   4230 * time.Millisecond,
			},
			{AgentName: "Itinerary", Fallback: true},
		}

		got := FormatUsage(metas)
		lines := strings.Split(got, "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
		}
		if lines[0] != "Itinerary (gpt-3.5-turbo): 1200 prompt + 800 completion tokens in 4.2s" {
			t.Errorf("unexpected first line %q", lines[0])
		}
		if !strings.Contains(lines[1], "unknown model") || !strings.HasSuffix(lines[1], "[fallback]") {
			t.Errorf("unexpected second line %q", lines[1])
		}
	})
}

func TestGetSysHealth(t *testing.T) {
	h := GetSysHealth(time.Now().Add(-90 * time.Second))
	if h.Goroutines < 1 {
		t.Errorf("expected at least one goroutine, got %d", h.Goroutines)
	}
	if h.Uptime != "1m30s" {
		t.Errorf("expected uptime 1m30s, got %s", h.Uptime)
	}
	if h.GoVersion == "" {
		t.Errorf("unexpected go version %q", h.GoVersion)
	}
}
