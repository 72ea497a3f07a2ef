package trip

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used on every boundary.
const DateLayout = "2006-01-02"

// TravelStyle is the overall spending/comfort profile of a trip.
type TravelStyle string

const (
	StyleBudget         TravelStyle = "budget"
	StyleMidRange       TravelStyle = "mid-range"
	StyleLuxury         TravelStyle = "luxury"
	StyleBackpacker     TravelStyle = "backpacker"
	StyleFamilyFriendly TravelStyle = "family-friendly"
)

// ActivityLevel is how packed each day should be.
type ActivityLevel string

const (
	ActivityRelaxed    ActivityLevel = "relaxed"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very-active"
)

var travelStyles = []TravelStyle{StyleBudget, StyleMidRange, StyleLuxury, StyleBackpacker, StyleFamilyFriendly}

var activityLevels = []ActivityLevel{ActivityRelaxed, ActivityModerate, ActivityActive, ActivityVeryActive}

// ParseTravelStyle accepts values like "Mid-range" or "family friendly". Empty input yields "".
func ParseTravelStyle(s string) (TravelStyle, error) {
	key := normalizeEnum(s)
	if key == "" {
		return "", nil
	}
	for _, st := range travelStyles {
		if string(st) == key {
			return st, nil
		}
	}
	return "", NewValidation("style", "unknown travel style "+s)
}

// ParseActivityLevel accepts values like "Very Active". Empty input yields "".
func ParseActivityLevel(s string) (ActivityLevel, error) {
	key := normalizeEnum(s)
	if key == "" {
		return "", nil
	}
	for _, lvl := range activityLevels {
		if string(lvl) == key {
			return lvl, nil
		}
	}
	return "", NewValidation("activity_level", "unknown activity level "+s)
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "-")
	return strings.Join(strings.Fields(s), "-")
}

// Preferences shape the generated plan but never its structure.
type Preferences struct {
	Interests     []string      `json:"interests,omitempty"`
	Style         TravelStyle   `json:"travel_style,omitempty"`
	ActivityLevel ActivityLevel `json:"activity_level,omitempty"`
	Food          []string      `json:"food_preferences,omitempty"`
}

// Request is a trip request. Callers fill in the fields and pass the literal
// to NewRequest, which returns the normalized, validated copy the pipeline uses.
type Request struct {
	Destination string
	Origin      string
	StartDate   time.Time
	EndDate     time.Time
	Budget      float64
	Travelers   int
	Preferences Preferences
}

// NewRequest normalizes p and validates the result. Places are trimmed, dates are
// truncated to UTC calendar days and empty preference tags are dropped.
func NewRequest(p Request) (Request, error) {
	req := Request{
		Destination: strings.TrimSpace(p.Destination),
		Origin:      strings.TrimSpace(p.Origin),
		StartDate:   truncateDay(p.StartDate),
		EndDate:     truncateDay(p.EndDate),
		Budget:      p.Budget,
		Travelers:   p.Travelers,
		Preferences: Preferences{
			Interests:     cleanTags(p.Preferences.Interests),
			Style:         p.Preferences.Style,
			ActivityLevel: p.Preferences.ActivityLevel,
			Food:          cleanTags(p.Preferences.Food),
		},
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Validate checks field ranges and date order.
func (r Request) Validate() error {
	if r.Destination == "" {
		return NewValidation("destination", "must not be empty")
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return NewValidation("dates", "start and end dates are required")
	}
	if !r.EndDate.After(r.StartDate) {
		return NewValidation("end_date", "end date must be after start date")
	}
	if r.Budget <= 0 {
		return NewValidation("budget", "must be positive")
	}
	if r.Travelers < 1 {
		return NewValidation("travelers", "must be at least 1")
	}
	return nil
}

// DayCount is the number of days between start and end.
func (r Request) DayCount() int {
	return DaysBetween(r.StartDate, r.EndDate)
}

// DateAt returns start + i days.
func (r Request) DateAt(i int) time.Time {
	return r.StartDate.AddDate(0, 0, i)
}

// City is the first comma-separated part of the destination ("Paris" for "Paris, France").
func (r Request) City() string {
	city, _, _ := strings.Cut(r.Destination, ",")
	return strings.TrimSpace(city)
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, NewValidation("date", "expected YYYY-MM-DD, got "+s)
	}
	return t, nil
}

// DaysBetween counts whole calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(truncateDay(end).Sub(truncateDay(start)).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
