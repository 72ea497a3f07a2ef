package export

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"ai-travel-planner/internal/candidate"
	"ai-travel-planner/internal/planner"
	"ai-travel-planner/internal/trip"
)

// Document is the serialized itinerary shape shared by the API and file exports.
type Document struct {
	ID               string                      `json:"id"`
	Destination      string                      `json:"destination"`
	Origin           string                      `json:"origin,omitempty"`
	StartDate        string                      `json:"start_date"`
	EndDate          string                      `json:"end_date"`
	DurationDays     int                         `json:"duration_days"`
	Budget           float64                     `json:"budget"`
	Currency         string                      `json:"currency"`
	Travelers        int                         `json:"travelers"`
	Preferences      trip.Preferences            `json:"preferences"`
	Days             []DocumentDay               `json:"days"`
	Flights          []candidate.Flight          `json:"flights"`
	Hotels           []candidate.Lodging         `json:"hotels"`
	PointsOfInterest []candidate.PointOfInterest `json:"points_of_interest"`
}

// DocumentDay is one day of a Document.
type DocumentDay struct {
	Date           string                     `json:"date"`
	City           string                     `json:"city"`
	Activities     []planner.Activity         `json:"activities"`
	Meals          []planner.Meal             `json:"meals"`
	Transportation []planner.TransportSegment `json:"transportation"`
	DailyBudget    float64                    `json:"daily_budget,omitempty"`
	Tips           string                     `json:"tips,omitempty"`
}

// NewDocument builds the serializable view of it.
func NewDocument(it *planner.Itinerary) Document {
	return Document{
		ID:           it.ID,
		Destination:  it.Destination,
		Origin:       it.Origin,
		StartDate:    it.StartDate.Format(trip.DateLayout),
		EndDate:      it.EndDate.Format(trip.DateLayout),
		DurationDays: it.DurationDays,
		Budget:       it.Budget,
		Currency:     it.Currency,
		Travelers:    it.Travelers,
		Preferences:  it.Preferences,
		Days: lo.Map(it.Days, func(d planner.DayPlan, _ int) DocumentDay {
			return DocumentDay{
				Date:           d.Date.Format(trip.DateLayout),
				City:           d.City,
				Activities:     nonNil(d.Activities),
				Meals:          nonNil(d.Meals),
				Transportation: nonNil(d.Transportation),
				DailyBudget:    d.DailyBudget,
				Tips:           d.Tips,
			}
		}),
		Flights:          nonNil(it.Flights),
		Hotels:           nonNil(it.Lodging),
		PointsOfInterest: nonNil(it.PointsOfInterest),
	}
}

// JSON renders it as indented JSON.
func JSON(it *planner.Itinerary) ([]byte, error) {
	b, err := json.MarshalIndent(NewDocument(it), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal itinerary: %w", err)
	}
	return b, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
