package export

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"ai-travel-planner/internal/planner"
)

const (
	calendarProductID     = "-//ai-travel-planner//itinerary//EN"
	defaultActivityLength = time.Hour
	activityDurationCap   = 12 * time.Hour
)

var durationRegex = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(hours?|hrs?|h|minutes?|mins?|m)\b`)

var clockLayouts = []string{"15:04", "3:04 PM", "3:04PM", "3 PM", "3PM"}

// Calendar renders it as an iCalendar feed: one all-day event per day and
// one timed event per activity with a readable start time.
func Calendar(it *planner.Itinerary) string {
	return calendarAt(it, time.Now().UTC())
}

func calendarAt(it *planner.Itinerary, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)

	for i, d := range it.Days {
		day := cal.AddEvent(fmt.Sprintf("%s-day%d@ai-travel-planner", it.ID, i+1))
		day.SetDtStampTime(stamp)
		day.SetAllDayStartAt(d.Date)
		day.SetAllDayEndAt(d.Date.AddDate(0, 0, 1))
		day.SetSummary(fmt.Sprintf("Day %d: %s", i+1, d.City))
		day.SetLocation(d.City)
		if desc := dayDescription(d); desc != "" {
			day.SetDescription(desc)
		}

		for j, a := range d.Activities {
			start, ok := activityStart(d.Date, a.Time)
			if !ok {
				continue
			}
			ev := cal.AddEvent(fmt.Sprintf("%s-day%d-act%d@ai-travel-planner", it.ID, i+1, j+1))
			ev.SetDtStampTime(stamp)
			ev.SetStartAt(start)
			ev.SetEndAt(start.Add(parseDurationLabel(a.Duration)))
			ev.SetSummary(a.Name)
			if a.Location != "" {
				ev.SetLocation(a.Location)
			}
			if a.Description != "" {
				ev.SetDescription(a.Description)
			}
		}
	}

	return cal.Serialize()
}

func dayDescription(d planner.DayPlan) string {
	var parts []string
	for _, m := range d.Meals {
		s := fmt.Sprintf("%s %s", m.Time, m.Meal)
		if m.Restaurant != "" {
			s += " at " + m.Restaurant
		}
		parts = append(parts, s)
	}
	if d.Tips != "" {
		parts = append(parts, "Tip: "+d.Tips)
	}
	return strings.Join(parts, "\n")
}

// activityStart combines day with a clock label like "09:00" or "2:30 PM".
func activityStart(day time.Time, label string) (time.Time, bool) {
	label = strings.TrimSpace(label)
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, strings.ToUpper(label))
		if err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseDurationLabel reads labels like "2 hours", "1.5 hrs" or "45 minutes".
func parseDurationLabel(label string) time.Duration {
	var total time.Duration
	for _, m := range durationRegex.FindAllStringSubmatch(label, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		unit := time.Minute
		if strings.HasPrefix(strings.ToLower(m[2]), "h") {
			unit = time.Hour
		}
		total += time.Duration(v * float64(unit))
	}
	if total <= 0 {
		return defaultActivityLength
	}
	return min(total, activityDurationCap)
}
