package planner

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"ai-travel-planner/internal/candidate"
)

// Amount is a non-negative cost decoded from whatever the model produced:
// a number, a numeric or currency string, or null.
type Amount float64

// UnmarshalJSON never fails; unreadable values decode to 0.
func (a *Amount) UnmarshalJSON(b []byte) error {
	*a = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		if f > 0 && !math.IsInf(f, 0) {
			*a = Amount(math.Round(f*100) / 100)
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if v, ok := candidate.ParseAmount(s); ok {
			*a = Amount(v)
		}
	}
	return nil
}

// Text is a free-text field decoded from whatever the model produced:
// a string, a number, a bool, a list (joined with "; ") or null.
type Text string

// UnmarshalJSON never fails; objects and null decode to "".
func (t *Text) UnmarshalJSON(b []byte) error {
	*t = ""
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	*t = Text(textOf(v))
	return nil
}

func textOf(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		parts := lo.FilterMap(x, func(e any, _ int) (string, bool) {
			s := textOf(e)
			return s, s != ""
		})
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}

// isObject reports whether b holds a JSON object.
func isObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}

// Activity is one scheduled activity within a day.
type Activity struct {
	Time        string `json:"time"`
	Name        string `json:"activity"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Cost        Amount `json:"cost"`
	Location    string `json:"location"`
}

// Meal is one planned meal within a day.
type Meal struct {
	Time        string `json:"time"`
	Meal        string `json:"meal"`
	Restaurant  string `json:"restaurant"`
	Description string `json:"description"`
	Cost        Amount `json:"cost"`
	Location    string `json:"location"`
}

// TransportSegment is one leg of local transportation within a day.
type TransportSegment struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Method   string `json:"method"`
	Cost     Amount `json:"cost"`
	Duration string `json:"duration"`
}

// Defaults for fields the model left empty.
const (
	DefaultActivityTime = "Flexible"
	DefaultActivityName = "Activity"
	DefaultMealName     = "Meal"
	DefaultMethod       = "TBD"
)

// UnmarshalJSON accepts any value shape per field. A bare string or number
// becomes the activity name.
func (a *Activity) UnmarshalJSON(b []byte) error {
	if !isObject(b) {
		var name Text
		_ = json.Unmarshal(b, &name)
		*a = Activity{Name: string(name)}
		return nil
	}
	var raw struct {
		Time        Text   `json:"time"`
		Name        Text   `json:"activity"`
		Description Text   `json:"description"`
		Duration    Text   `json:"duration"`
		Cost        Amount `json:"cost"`
		Location    Text   `json:"location"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*a = Activity{
		Time:        string(raw.Time),
		Name:        string(raw.Name),
		Description: string(raw.Description),
		Duration:    string(raw.Duration),
		Cost:        raw.Cost,
		Location:    string(raw.Location),
	}
	return nil
}

// UnmarshalJSON accepts any value shape per field. A bare string becomes the meal name.
func (m *Meal) UnmarshalJSON(b []byte) error {
	if !isObject(b) {
		var name Text
		_ = json.Unmarshal(b, &name)
		*m = Meal{Meal: string(name)}
		return nil
	}
	var raw struct {
		Time        Text   `json:"time"`
		Meal        Text   `json:"meal"`
		Restaurant  Text   `json:"restaurant"`
		Description Text   `json:"description"`
		Cost        Amount `json:"cost"`
		Location    Text   `json:"location"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*m = Meal{
		Time:        string(raw.Time),
		Meal:        string(raw.Meal),
		Restaurant:  string(raw.Restaurant),
		Description: string(raw.Description),
		Cost:        raw.Cost,
		Location:    string(raw.Location),
	}
	return nil
}

// UnmarshalJSON accepts any value shape per field. A bare string becomes the method.
func (t *TransportSegment) UnmarshalJSON(b []byte) error {
	if !isObject(b) {
		var method Text
		_ = json.Unmarshal(b, &method)
		*t = TransportSegment{Method: string(method)}
		return nil
	}
	var raw struct {
		From     Text   `json:"from"`
		To       Text   `json:"to"`
		Method   Text   `json:"method"`
		Cost     Amount `json:"cost"`
		Duration Text   `json:"duration"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*t = TransportSegment{
		From:     string(raw.From),
		To:       string(raw.To),
		Method:   string(raw.Method),
		Cost:     raw.Cost,
		Duration: string(raw.Duration),
	}
	return nil
}

func (a Activity) withDefaults(city string) Activity {
	if a.Time == "" {
		a.Time = DefaultActivityTime
	}
	if a.Name == "" {
		a.Name = DefaultActivityName
	}
	if a.Location == "" {
		a.Location = city
	}
	return a
}

func (m Meal) withDefaults(city string) Meal {
	if m.Time == "" {
		m.Time = DefaultActivityTime
	}
	if m.Meal == "" {
		m.Meal = DefaultMealName
	}
	if m.Location == "" {
		m.Location = city
	}
	return m
}

func (t TransportSegment) withDefaults() TransportSegment {
	if t.Method == "" {
		t.Method = DefaultMethod
	}
	return t
}

// PayloadDay is one day as the model described it. Its date is informational only.
type PayloadDay struct {
	Date           string             `json:"date"`
	City           string             `json:"city"`
	Activities     []Activity         `json:"activities"`
	Meals          []Meal             `json:"meals"`
	Transportation []TransportSegment `json:"transportation"`
	DailyBudget    Amount             `json:"daily_budget"`
	Tips           string             `json:"tips"`
}

// UnmarshalJSON accepts any value shape for the text fields. A list field
// holding something other than a list decodes to an empty list.
func (d *PayloadDay) UnmarshalJSON(b []byte) error {
	var raw struct {
		Date           Text            `json:"date"`
		City           Text            `json:"city"`
		Activities     json.RawMessage `json:"activities"`
		Meals          json.RawMessage `json:"meals"`
		Transportation json.RawMessage `json:"transportation"`
		DailyBudget    Amount          `json:"daily_budget"`
		Tips           Text            `json:"tips"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = PayloadDay{
		Date:           string(raw.Date),
		City:           string(raw.City),
		Activities:     decodeList[Activity](raw.Activities),
		Meals:          decodeList[Meal](raw.Meals),
		Transportation: decodeList[TransportSegment](raw.Transportation),
		DailyBudget:    raw.DailyBudget,
		Tips:           string(raw.Tips),
	}
	return nil
}

// decodeList decodes a JSON array of T. Anything else yields nil.
func decodeList[T any](b json.RawMessage) []T {
	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}

// Payload is the structured plan extracted from a generation response.
type Payload struct {
	Days []PayloadDay
	// Fallback is set when the payload was synthesized rather than extracted.
	Fallback bool
}

// FallbackPayload is the minimal plan used whenever nothing usable was generated:
// one day with one activity and one meal. City and date are left for the reconciler.
func FallbackPayload() Payload {
	return Payload{
		Fallback: true,
		Days: []PayloadDay{
			{
				Activities: []Activity{
					{
						Time:        "09:00",
						Name:        "City Tour",
						Description: "Explore the main attractions of the city",
						Duration:    "3 hours",
						Cost:        50,
						Location:    "City Center",
					},
				},
				Meals: []Meal{
					{
						Time:        "12:00",
						Meal:        "Lunch",
						Restaurant:  "Local Restaurant",
						Description: "Try local cuisine",
						Cost:        25,
						Location:    "City Center",
					},
				},
				Transportation: []TransportSegment{},
				DailyBudget:    75,
				Tips:           "Wear comfortable walking shoes",
			},
		},
	}
}
