package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"ai-travel-planner/internal/candidate"
	"ai-travel-planner/internal/config"
	"ai-travel-planner/internal/export"
	"ai-travel-planner/internal/ghost"
	"ai-travel-planner/internal/llm"
	"ai-travel-planner/internal/metrics"
	"ai-travel-planner/internal/planner"
	"ai-travel-planner/internal/search"
	"ai-travel-planner/internal/shared"
	"ai-travel-planner/internal/trip"
)

// ItineraryPlanner is the pipeline the App drives.
type ItineraryPlanner interface {
	Plan(ctx context.Context, req trip.Request) (*planner.Itinerary, []shared.AgentMeta, error)
}

// App holds the application's dependencies.
type App struct {
	planner     ItineraryPlanner
	ghostClient ghost.Client
	closer      func() error
}

// Result is a generated itinerary with its digest and model usage.
type Result struct {
	Itinerary *planner.Itinerary
	Summary   string
	Metas     []shared.AgentMeta
}

// Outputs lists the files to write for an itinerary. Empty paths are skipped.
type Outputs struct {
	JSONPath string
	PDFPath  string
	ICSPath  string
}

// NewApp creates an App. ghostClient may be nil when publishing is not configured.
func NewApp(p ItineraryPlanner, ghostClient ghost.Client) *App {
	return &App{planner: p, ghostClient: ghostClient}
}

// New wires the full pipeline from cfg: search providers, aggregator,
// text generator, planner and the optional Ghost client.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	providers := []search.Provider{
		search.NewTavilyClient(cfg.TavilyAPIKey, cfg.TavilyBaseURL, search.NewLimiter(cfg.ProviderRPS, cfg.ProviderBurst)),
		search.NewSerpAPIClient(cfg.SerpAPIKey, cfg.SerpAPIURL, search.NewLimiter(cfg.ProviderRPS, cfg.ProviderBurst)),
	}
	aggregator := candidate.NewAggregator(providers,
		candidate.WithProviderTimeout(cfg.ProviderTimeout),
		candidate.WithConcurrency(cfg.AggregatorConcurrency),
	)

	textGen, err := llm.NewTextGenerator(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s client: %w", cfg.LLMProvider, err)
	}

	itineraryPlanner := planner.NewPlanner(aggregator, textGen, planner.Settings{
		GenerationTimeout: cfg.GenerationTimeout,
		Debug:             cfg.Debug,
	})

	var ghostClient ghost.Client
	if cfg.PublishingEnabled() {
		ghostClient = ghost.NewClient(cfg)
	}

	a := NewApp(itineraryPlanner, ghostClient)
	a.closer = func() error { return llm.Close(textGen) }
	return a, nil
}

// Close releases the text generator.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

// GenerateItinerary runs the pipeline for req.
func (a *App) GenerateItinerary(ctx context.Context, req trip.Request) (*Result, error) {
	log.Printf("[planner] planning %d days in %s for %d traveler(s)", req.DayCount(), req.Destination, req.Travelers)

	it, metas, err := a.planner.Plan(ctx, req)
	if err != nil {
		return nil, err
	}

	for _, m := range metas {
		log.Printf("[planner] %s", metrics.FormatUsage([]shared.AgentMeta{m}))
	}

	return &Result{
		Itinerary: it,
		Summary:   planner.Summarize(it),
		Metas:     metas,
	}, nil
}

// WriteExports writes the requested export files for it.
func (a *App) WriteExports(it *planner.Itinerary, out Outputs) error {
	if out.JSONPath != "" {
		b, err := export.JSON(it)
		if err != nil {
			return err
		}
		if err := writeFile(out.JSONPath, b); err != nil {
			return err
		}
	}
	if out.PDFPath != "" {
		b, err := export.PDF(it)
		if err != nil {
			return err
		}
		if err := writeFile(out.PDFPath, b); err != nil {
			return err
		}
	}
	if out.ICSPath != "" {
		if err := writeFile(out.ICSPath, []byte(export.Calendar(it))); err != nil {
			return err
		}
	}
	return nil
}

// CanPublish reports whether a Ghost client is configured.
func (a *App) CanPublish() bool {
	return a.ghostClient != nil
}

// Publish posts it to Ghost, as a draft unless publish is set.
func (a *App) Publish(ctx context.Context, it *planner.Itinerary, publish bool) (*ghost.Post, error) {
	if a.ghostClient == nil {
		return nil, fmt.Errorf("publishing is not configured: set GHOST_API_URL and GHOST_ADMIN_API_KEY")
	}

	html, err := export.HTML(it)
	if err != nil {
		return nil, err
	}

	post, err := a.ghostClient.CreatePost(ctx, export.Title(it), html, []string{it.Destination}, publish)
	if err != nil {
		return nil, fmt.Errorf("failed to publish itinerary: %w", err)
	}
	log.Printf("[ghost] created %s post %q (%s)", post.Status, post.Title, post.ID)
	return post, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("Wrote %s (%d bytes)", path, len(data))
	return nil
}
