package planner

import (
	"time"

	"ai-travel-planner/internal/candidate"
	"ai-travel-planner/internal/trip"
)

// DayPlan is the schedule for one calendar date.
type DayPlan struct {
	Date           time.Time
	City           string
	Activities     []Activity
	Meals          []Meal
	Transportation []TransportSegment
	DailyBudget    float64
	Tips           string
	// Placeholder marks days synthesized because the generated plan was too short.
	Placeholder bool
}

// Itinerary is the final, reconciled plan. Treat it as read-only:
// every slice it holds is owned by the itinerary.
type Itinerary struct {
	ID           string
	Destination  string
	Origin       string
	StartDate    time.Time
	EndDate      time.Time
	DurationDays int
	Budget       float64
	Travelers    int
	Currency     string
	Preferences  trip.Preferences
	Days         []DayPlan

	Flights          []candidate.Flight
	Lodging          []candidate.Lodging
	PointsOfInterest []candidate.PointOfInterest

	// FromFallback is set when the day plans came from the fallback payload.
	FromFallback bool
}

// PlannedCost sums every activity, meal and transport cost across all days.
func (it *Itinerary) PlannedCost() float64 {
	var total float64
	for _, d := range it.Days {
		for _, a := range d.Activities {
			total += float64(a.Cost)
		}
		for _, m := range d.Meals {
			total += float64(m.Cost)
		}
		for _, t := range d.Transportation {
			total += float64(t.Cost)
		}
	}
	return total
}
