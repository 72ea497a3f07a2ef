package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ai-travel-planner/internal/app"
	"ai-travel-planner/internal/config"
	"ai-travel-planner/internal/metrics"
	"ai-travel-planner/internal/trip"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	switch os.Args[1] {
	case "plan":
		runPlan(cfg, os.Args[2:])
	case "check":
		runCheck(cfg)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runPlan(cfg *config.Config, args []string) {
	planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
	destination := planCmd.String("destination", "", "Destination, e.g. \"Paris, France\" (required)")
	origin := planCmd.String("origin", "", "Departure city; flights are only searched when set")
	start := planCmd.String("start", "", "Start date YYYY-MM-DD (required)")
	end := planCmd.String("end", "", "End date YYYY-MM-DD, exclusive (required)")
	budget := planCmd.Float64("budget", 0, "Total budget in USD (required)")
	travelers := planCmd.Int("travelers", 1, "Number of travelers")
	interests := planCmd.String("interests", "", "Comma-separated interests, e.g. museums,food")
	style := planCmd.String("style", "", "Travel style: budget, mid-range, luxury, backpacker, family-friendly")
	activity := planCmd.String("activity", "", "Activity level: relaxed, moderate, active, very-active")
	food := planCmd.String("food", "", "Comma-separated food preferences")
	jsonPath := planCmd.String("json", "", "Write the itinerary as JSON to this path")
	pdfPath := planCmd.String("pdf", "", "Write the itinerary as PDF to this path")
	icsPath := planCmd.String("ics", "", "Write the itinerary as an iCalendar file to this path")
	publish := planCmd.Bool("publish", false, "Publish the itinerary to Ghost")
	draft := planCmd.Bool("draft", true, "Create the Ghost post as a draft")
	planCmd.Parse(args)

	req, err := buildRequest(*destination, *origin, *start, *end, *budget, *travelers, *interests, *style, *activity, *food)
	if err != nil {
		log.Fatalf("Invalid trip request: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer application.Close()

	res, err := application.GenerateItinerary(ctx, req)
	if err != nil {
		log.Fatalf("Failed to generate itinerary: %v", err)
	}

	fmt.Println(res.Summary)
	fmt.Println("Model usage:")
	fmt.Println(metrics.FormatUsage(res.Metas))

	if err := application.WriteExports(res.Itinerary, app.Outputs{JSONPath: *jsonPath, PDFPath: *pdfPath, ICSPath: *icsPath}); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	if *publish {
		post, err := application.Publish(ctx, res.Itinerary, !*draft)
		if err != nil {
			log.Fatalf("Publishing failed: %v", err)
		}
		fmt.Printf("Published %s post %q (%s)\n", post.Status, post.Title, post.ID)
	}
}

func buildRequest(destination, origin, start, end string, budget float64, travelers int, interests, style, activity, food string) (trip.Request, error) {
	startDate, err := trip.ParseDate(start)
	if err != nil {
		return trip.Request{}, trip.NewValidation("start", "use YYYY-MM-DD")
	}
	endDate, err := trip.ParseDate(end)
	if err != nil {
		return trip.Request{}, trip.NewValidation("end", "use YYYY-MM-DD")
	}
	travelStyle, err := trip.ParseTravelStyle(style)
	if err != nil {
		return trip.Request{}, err
	}
	level, err := trip.ParseActivityLevel(activity)
	if err != nil {
		return trip.Request{}, err
	}

	return trip.NewRequest(trip.Request{
		Destination: destination,
		Origin:      origin,
		StartDate:   startDate,
		EndDate:     endDate,
		Budget:      budget,
		Travelers:   travelers,
		Preferences: trip.Preferences{
			Interests:     splitList(interests),
			Style:         travelStyle,
			ActivityLevel: level,
			Food:          splitList(food),
		},
	})
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func runCheck(cfg *config.Config) {
	fmt.Println("Configuration OK")
	fmt.Printf("  LLM provider:   %s\n", cfg.LLMProvider)
	fmt.Printf("  Search:         tavily (%s), serpapi (%s)\n", cfg.TavilyBaseURL, cfg.SerpAPIURL)
	fmt.Printf("  Rate limit:     %.1f req/s, burst %d\n", cfg.ProviderRPS, cfg.ProviderBurst)
	fmt.Printf("  Timeouts:       provider %s, generation %s\n", cfg.ProviderTimeout, cfg.GenerationTimeout)
	fmt.Printf("  Publishing:     %t\n", cfg.PublishingEnabled())
	fmt.Printf("  Telegram bot:   %t\n", cfg.TelegramBotToken != "")
}

func printUsage() {
	fmt.Println("Usage: ai-travel-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan     Generate an itinerary (see plan -h for flags)")
	fmt.Println("  check    Validate configuration and show enabled integrations")
}
