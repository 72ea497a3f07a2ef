package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"ai-travel-planner/internal/candidate"
	"ai-travel-planner/internal/trip"
)

// Placeholder day content.
const (
	PlaceholderActivityName = "Free exploration"
	PlaceholderActivityTime = "10:00"
)

// Reconcile maps the payload onto the request's exact date range.
// Day i is always StartDate+i: payload days beyond the range are dropped and
// missing days become placeholders. Payload dates and metadata are ignored.
// The full candidate pools are copied onto the itinerary.
func Reconcile(payload Payload, req trip.Request, pools candidate.Pools) *Itinerary {
	required := req.DayCount()
	if required < 0 {
		required = 0
	}

	days := make([]DayPlan, required)
	for i := range required {
		date := req.DateAt(i)
		if i < len(payload.Days) {
			days[i] = adoptDay(payload.Days[i], req, date)
			continue
		}
		days[i] = placeholderDay(req, date)
	}

	return &Itinerary{
		ID:           uuid.NewString(),
		Destination:  req.Destination,
		Origin:       req.Origin,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		DurationDays: required,
		Budget:       req.Budget,
		Travelers:    req.Travelers,
		Currency:     candidate.DefaultCurrency,
		Preferences:  copyPreferences(req.Preferences),
		Days:         days,

		Flights:          append([]candidate.Flight{}, pools.Flights...),
		Lodging:          append([]candidate.Lodging{}, pools.Lodging...),
		PointsOfInterest: append([]candidate.PointOfInterest{}, pools.PointsOfInterest...),

		FromFallback: payload.Fallback,
	}
}

func adoptDay(pd PayloadDay, req trip.Request, date time.Time) DayPlan {
	city := strings.TrimSpace(pd.City)
	if city == "" {
		city = req.Destination
	}

	return DayPlan{
		Date: date,
		City: city,
		Activities: lo.Map(pd.Activities, func(a Activity, _ int) Activity {
			return a.withDefaults(city)
		}),
		Meals: lo.Map(pd.Meals, func(m Meal, _ int) Meal {
			return m.withDefaults(city)
		}),
		Transportation: lo.Map(pd.Transportation, func(t TransportSegment, _ int) TransportSegment {
			return t.withDefaults()
		}),
		DailyBudget: float64(pd.DailyBudget),
		Tips:        pd.Tips,
	}
}

func placeholderDay(req trip.Request, date time.Time) DayPlan {
	return DayPlan{
		Date: date,
		City: req.Destination,
		Activities: []Activity{
			{
				Time:        PlaceholderActivityTime,
				Name:        PlaceholderActivityName,
				Description: fmt.Sprintf("Explore %s at your own pace", req.City()),
				Duration:    "Flexible",
				Cost:        0,
				Location:    req.Destination,
			},
		},
		Meals:          []Meal{},
		Transportation: []TransportSegment{},
		Placeholder:    true,
	}
}

func copyPreferences(p trip.Preferences) trip.Preferences {
	return trip.Preferences{
		Interests:     append([]string(nil), p.Interests...),
		Style:         p.Style,
		ActivityLevel: p.ActivityLevel,
		Food:          append([]string(nil), p.Food...),
	}
}
