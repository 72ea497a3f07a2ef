package planner

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ai-travel-planner/internal/trip"
)

var summaryPrinter = message.NewPrinter(language.English)

// Summarize renders a plain-text digest of it. It does not modify it.
func Summarize(it *Itinerary) string {
	if it == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("Travel Itinerary Summary\n")
	b.WriteString("========================\n\n")
	fmt.Fprintf(&b, "Destination: %s\n", it.Destination)
	if it.Origin != "" {
		fmt.Fprintf(&b, "Origin: %s\n", it.Origin)
	}
	fmt.Fprintf(&b, "Dates: %s to %s\n", it.StartDate.Format(trip.DateLayout), it.EndDate.Format(trip.DateLayout))
	fmt.Fprintf(&b, "Duration: %d days\n", it.DurationDays)
	fmt.Fprintf(&b, "Travelers: %d\n", it.Travelers)
	fmt.Fprintf(&b, "Budget: $%s\n", FormatBudget(it.Budget))
	b.WriteString("\nDaily Breakdown:\n")

	for i, d := range it.Days {
		fmt.Fprintf(&b, "\nDay %d (%s): %s\n", i+1, d.Date.Format(trip.DateLayout), d.City)
		fmt.Fprintf(&b, "  Activities: %d planned\n", len(d.Activities))
		fmt.Fprintf(&b, "  Meals: %d planned\n", len(d.Meals))
		if len(d.Transportation) > 0 {
			fmt.Fprintf(&b, "  Transportation: %d segments\n", len(d.Transportation))
		}
	}

	return b.String()
}

// FormatBudget renders a whole-dollar amount with thousands grouping, e.g. "2,000".
func FormatBudget(v float64) string {
	return summaryPrinter.Sprintf("%d", int64(math.Round(v)))
}
