package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LLM provider identifiers accepted by LLM_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Config holds the configuration for the application.
// It is built once per process and treated as read-only afterwards.
type Config struct {
	LLMProvider  string
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string
	GroqModel    string

	TavilyAPIKey  string
	TavilyBaseURL string
	SerpAPIKey    string
	SerpAPIURL    string

	ProviderTimeout       time.Duration
	GenerationTimeout     time.Duration
	ProviderRPS           float64
	ProviderBurst         int
	AggregatorConcurrency int
	Debug                 bool

	// Ghost Config (optional, only needed for publishing)
	GhostURL      string
	GhostAdminKey string

	// Telegram Config (Optional for CLI, required for Bot)
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64

	Port string
}

// NewFromEnv creates a new Config object from environment variables.
// A .env file in the working directory is loaded first when present.
func NewFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	llmProvider := strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI))

	cfg := &Config{
		LLMProvider:   llmProvider,
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GroqAPIKey:    os.Getenv("GROQ_API_KEY"),
		GroqModel:     getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		TavilyBaseURL: getEnv("TAVILY_BASE_URL", "https://api.tavily.com"),
		SerpAPIURL:    getEnv("SERPAPI_BASE_URL", "https://serpapi.com"),
		GhostURL:      os.Getenv("GHOST_API_URL"),
		GhostAdminKey: os.Getenv("GHOST_ADMIN_API_KEY"),

		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),

		Port: getEnv("PORT", "8080"),
	}

	switch llmProvider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case ProviderGroq:
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", llmProvider)
	}

	cfg.TavilyAPIKey = os.Getenv("TAVILY_API_KEY")
	if cfg.TavilyAPIKey == "" {
		return nil, fmt.Errorf("TAVILY_API_KEY environment variable not set")
	}

	cfg.SerpAPIKey = os.Getenv("SERPAPI_API_KEY")
	if cfg.SerpAPIKey == "" {
		return nil, fmt.Errorf("SERPAPI_API_KEY environment variable not set")
	}

	var err error
	if cfg.ProviderTimeout, err = getEnvDuration("PROVIDER_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.GenerationTimeout, err = getEnvDuration("GENERATION_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.ProviderRPS, err = getEnvFloat("PROVIDER_RPS", 3); err != nil {
		return nil, err
	}
	if cfg.ProviderBurst, err = getEnvInt("PROVIDER_BURST", 5); err != nil {
		return nil, err
	}
	if cfg.AggregatorConcurrency, err = getEnvInt("AGGREGATOR_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	cfg.Debug, _ = strconv.ParseBool(getEnv("DEBUG", "false"))

	if raw := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); raw != "" {
		ids, err := parseIDList(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
		}
		cfg.TelegramAllowedUserIDs = ids
	}

	return cfg, nil
}

// PublishingEnabled reports whether Ghost credentials are configured.
func (c *Config) PublishingEnabled() bool {
	return c.GhostURL != "" && c.GhostAdminKey != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", key, v)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
