package planner

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/samber/lo"

	"ai-travel-planner/internal/candidate"
	"ai-travel-planner/internal/trip"
)

//go:embed itinerary_prompt.md
var itineraryPrompt string

// Caps on how many candidates of each kind are shown to the model.
const (
	MaxPromptFlights = 5
	MaxPromptLodging = 5
	MaxPromptPOIs    = 10
)

// Preference wording used when the traveler left a preference blank.
const (
	DefaultInterests     = "General sightseeing"
	DefaultStyle         = "Balanced"
	DefaultActivityLevel = "Moderate"
	DefaultFood          = "Open to local cuisine"
)

// GenerationRequest is the compiled input for the generation boundary.
type GenerationRequest struct {
	Prompt       string
	RequiredDays int
}

type promptData struct {
	Destination      string
	Origin           string
	StartDate        string
	EndDate          string
	DayCount         int
	DayDates         string
	Budget           float64
	Travelers        int
	Interests        string
	Style            string
	ActivityLevel    string
	Food             string
	Flights          []candidate.Flight
	Lodging          []candidate.Lodging
	PointsOfInterest []candidate.PointOfInterest
}

var promptFuncs = template.FuncMap{
	"inc":   func(i int) int { return i + 1 },
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"deref": func(v *float64) string { return fmt.Sprintf("%.1f", *v) },
}

// CompilePrompt renders the request and a capped view of the pools into a prompt.
// Equal inputs always produce the same prompt.
func CompilePrompt(req trip.Request, pools candidate.Pools) (GenerationRequest, error) {
	days := req.DayCount()
	dates := make([]string, days)
	for i := range dates {
		dates[i] = req.DateAt(i).Format(trip.DateLayout)
	}

	data := promptData{
		Destination:      req.Destination,
		Origin:           req.Origin,
		StartDate:        req.StartDate.Format(trip.DateLayout),
		EndDate:          req.EndDate.Format(trip.DateLayout),
		DayCount:         days,
		DayDates:         strings.Join(dates, ", "),
		Budget:           req.Budget,
		Travelers:        req.Travelers,
		Interests:        joinOr(req.Preferences.Interests, DefaultInterests),
		Style:            orDefault(string(req.Preferences.Style), DefaultStyle),
		ActivityLevel:    orDefault(string(req.Preferences.ActivityLevel), DefaultActivityLevel),
		Food:             joinOr(req.Preferences.Food, DefaultFood),
		Flights:          lo.Slice(pools.Flights, 0, MaxPromptFlights),
		Lodging:          lo.Slice(pools.Lodging, 0, MaxPromptLodging),
		PointsOfInterest: lo.Slice(pools.PointsOfInterest, 0, MaxPromptPOIs),
	}

	tmpl, err := template.New("Itinerary").Funcs(promptFuncs).Parse(itineraryPrompt)
	if err != nil {
		return GenerationRequest{}, fmt.Errorf("failed to parse itinerary prompt: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return GenerationRequest{}, fmt.Errorf("failed to render itinerary prompt: %w", err)
	}

	return GenerationRequest{Prompt: buf.String(), RequiredDays: days}, nil
}

func joinOr(tags []string, def string) string {
	if len(tags) == 0 {
		return def
	}
	return strings.Join(tags, ", ")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
