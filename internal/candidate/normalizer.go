package candidate

import (
	"math/rand"
	"strings"
	"time"

	"ai-travel-planner/internal/search"
)

// RandSource supplies the randomness behind synthesized prices and fallback options.
// *rand.Rand satisfies it; tests pass a seeded one. Implementations need not be
// safe for concurrent use.
type RandSource interface {
	Float64() float64
	Intn(n int) int
}

// NewRandSource returns a time-seeded source.
func NewRandSource() RandSource {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Default field values for records whose provider omitted them.
const (
	UnknownCarrier = "Various Airlines"
	UnknownAirport = "TBD"
	UnknownTime    = "TBD"
	UnnamedLodging = "Unnamed lodging"
	UnnamedPOI     = "Unnamed attraction"
	DefaultPOIType = "attraction"
)

// knownCarriers maps lowercase keywords to display names. Order matters:
// longer, more specific names come before their prefixes.
var knownCarriers = []struct {
	keyword string
	name    string
}{
	{"air france", "Air France"},
	{"british airways", "British Airways"},
	{"american airlines", "American Airlines"},
	{"united", "United Airlines"},
	{"delta", "Delta Air Lines"},
	{"lufthansa", "Lufthansa"},
	{"klm", "KLM"},
	{"emirates", "Emirates"},
	{"qatar", "Qatar Airways"},
	{"turkish", "Turkish Airlines"},
	{"iberia", "Iberia"},
	{"easyjet", "easyJet"},
	{"ryanair", "Ryanair"},
	{"jetblue", "JetBlue"},
	{"norse", "Norse Atlantic Airways"},
}

// Normalizer converts raw provider results into candidate records.
// It never fails: every missing field gets a default.
// A Normalizer is not safe for concurrent use because its RandSource is not;
// give each goroutine its own.
type Normalizer struct {
	rng RandSource
}

// NewNormalizer creates a Normalizer. A nil rng gets a time-seeded source.
func NewNormalizer(rng RandSource) *Normalizer {
	if rng == nil {
		rng = NewRandSource()
	}
	return &Normalizer{rng: rng}
}

// Normalize dispatches on kind. Unknown kinds are treated as points of interest.
func (n *Normalizer) Normalize(provider string, kind EntityKind, raw search.RawResult) Record {
	switch kind {
	case KindFlight:
		return n.NormalizeFlight(provider, raw)
	case KindLodging:
		return n.NormalizeLodging(provider, raw)
	default:
		return n.NormalizePOI(provider, raw)
	}
}

// NormalizeFlight builds a Flight from a raw result.
func (n *Normalizer) NormalizeFlight(provider string, raw search.RawResult) Flight {
	title := CleanText(raw.Title)
	content := CleanText(raw.Content)

	carrier := strings.TrimSpace(raw.Airline)
	if carrier == "" {
		carrier = carrierFromText(title + " " + content)
	}

	stops := 0
	if raw.Stops != nil && *raw.Stops > 0 {
		stops = *raw.Stops
	}

	return Flight{
		Airline:          carrier,
		FlightNumber:     orDefault(raw.FlightNumber, "N/A"),
		DepartureAirport: orDefault(raw.DepartureAirport, UnknownAirport),
		ArrivalAirport:   orDefault(raw.ArrivalAirport, UnknownAirport),
		DepartureTime:    orDefault(raw.DepartureTime, UnknownTime),
		ArrivalTime:      orDefault(raw.ArrivalTime, UnknownTime),
		Duration:         orDefault(raw.Duration, "Unknown"),
		Price:            n.price(KindFlight, raw, title, content),
		Currency:         DefaultCurrency,
		Stops:            stops,
		BookingURL:       raw.URL,
		Source:           provider,
	}
}

// NormalizeLodging builds a Lodging from a raw result.
func (n *Normalizer) NormalizeLodging(provider string, raw search.RawResult) Lodging {
	title := CleanText(raw.Title)
	content := CleanText(raw.Content)

	amenities := raw.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	return Lodging{
		Name:          orDefault(title, UnnamedLodging),
		Address:       orDefault(raw.Address, raw.City),
		City:          raw.City,
		Description:   content,
		PricePerNight: n.price(KindLodging, raw, title, content),
		Currency:      DefaultCurrency,
		Rating:        validRating(raw.Rating),
		Amenities:     amenities,
		BookingURL:    raw.URL,
		Source:        provider,
	}
}

// NormalizePOI builds a PointOfInterest from a raw result.
func (n *Normalizer) NormalizePOI(provider string, raw search.RawResult) PointOfInterest {
	title := CleanText(raw.Title)
	content := CleanText(raw.Content)
	price := n.price(KindPOI, raw, title, content)

	return PointOfInterest{
		Name:        orDefault(title, UnnamedPOI),
		Description: content,
		Category:    orDefault(raw.Category, DefaultPOIType),
		Address:     raw.Address,
		City:        raw.City,
		Rating:      validRating(raw.Rating),
		Price:       price,
		PriceRange:  priceBand(price),
		Website:     raw.URL,
		Source:      provider,
	}
}

// price resolves a record price: structured value, then text scan, then a bounded random value.
func (n *Normalizer) price(kind EntityKind, raw search.RawResult, title, content string) float64 {
	if raw.Price != nil && *raw.Price >= 0 {
		return clampPrice(*raw.Price)
	}
	if v, ok := ParseAmount(raw.PriceText); ok {
		return v
	}
	if v, ok := ExtractPrice(title + " " + content); ok {
		return clampPrice(v)
	}
	return randomPrice(n.rng, kind)
}

func carrierFromText(text string) string {
	lower := strings.ToLower(text)
	for _, c := range knownCarriers {
		if strings.Contains(lower, c.keyword) {
			return c.name
		}
	}
	return UnknownCarrier
}

func validRating(r *float64) *float64 {
	if r == nil || *r < 0 || *r > 5 {
		return nil
	}
	v := *r
	return &v
}

func priceBand(p float64) string {
	switch {
	case p == 0:
		return "Free"
	case p < 15:
		return "$"
	case p < 40:
		return "$$"
	default:
		return "$$$"
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
