package candidate

import (
	"math/rand"
	"testing"

	"ai-travel-planner/internal/search"
)

func TestExtractPrice(t *testing.T) {
	cases := []struct {
		text string
		want float64
		ok   bool
	}{
		{"Round trip from $1,234.50 per person", 1234.50, true},
		{"Only USD 99 today", 99, true},
		{"Rooms at €80 a night", 80, true},
		{"Tickets 1,200 EUR return", 1200, true},
		{"Entry 12 euros", 12, true},
		{"Open since 2024 $450 deals", 450, true},
		{"Flights from £75 or $90", 75, true},
		{"Flight AF123 departs at 10:30", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ExtractPrice(tc.text)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ExtractPrice(%q) = %v, %v; want %v, %v", tc.text, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := map[string]float64{
		"25":               25,
		"$1,150":           1150,
		"€ 30.5":           30.5,
		"about 20 dollars": 20,
	}
	for in, want := range cases {
		got, ok := ParseAmount(in)
		if !ok || got != want {
			t.Errorf("ParseAmount(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	if _, ok := ParseAmount("free"); ok {
		t.Error("Expected 'free' to be unreadable")
	}
}

func TestCleanText(t *testing.T) {
	got := CleanText("<p>Visit the <b>Louvre</b></p><script>track()</script>\n\n today")
	if got != "Visit the Louvre today" {
		t.Errorf("Unexpected cleaned text %q", got)
	}
	if got := CleanText("  plain   text "); got != "plain text" {
		t.Errorf("Unexpected plain text %q", got)
	}
}

func TestNormalizeFlight(t *testing.T) {
	n := NewNormalizer(rand.New(rand.NewSource(1)))

	t.Run("StructuredFields", func(t *testing.T) {
		stops := 1
		price := 734.0
		f := n.NormalizeFlight("serpapi", search.RawResult{
			Airline: "KLM", FlightNumber: "KL 642", DepartureAirport: "JFK", ArrivalAirport: "CDG",
			Stops: &stops, Price: &price,
		})
		if f.Airline != "KLM" || f.Price != 734 || f.Stops != 1 || f.Source != "serpapi" {
			t.Errorf("Unexpected flight %+v", f)
		}
		if f.Kind() != KindFlight || f.Cost() != 734 {
			t.Errorf("Record view mismatch: %v %v", f.Kind(), f.Cost())
		}
	})

	t.Run("CarrierFromText", func(t *testing.T) {
		f := n.NormalizeFlight("tavily", search.RawResult{
			Title:   "Cheap Air France tickets",
			Content: "Fly to Paris from $512",
		})
		if f.Airline != "Air France" {
			t.Errorf("Expected 'Air France', got %q", f.Airline)
		}
		if f.Price != 512 {
			t.Errorf("Expected price 512 from text, got %v", f.Price)
		}
		if f.DepartureAirport != UnknownAirport {
			t.Errorf("Expected default airport, got %q", f.DepartureAirport)
		}
	})

	t.Run("UnknownCarrierAndPrice", func(t *testing.T) {
		f := n.NormalizeFlight("tavily", search.RawResult{Title: "Best deals"})
		if f.Airline != UnknownCarrier {
			t.Errorf("Expected %q, got %q", UnknownCarrier, f.Airline)
		}
		r := fallbackPrices[KindFlight]
		if f.Price < r.min || f.Price >= r.max {
			t.Errorf("Expected synthesized price in [%v, %v), got %v", r.min, r.max, f.Price)
		}
	})

	t.Run("NegativeStructuredPrice", func(t *testing.T) {
		neg := -10.0
		f := n.NormalizeFlight("serpapi", search.RawResult{Price: &neg})
		if f.Price < 0 {
			t.Errorf("Expected non-negative price, got %v", f.Price)
		}
	})
}

func TestNormalizeNeverNegative(t *testing.T) {
	n := NewNormalizer(rand.New(rand.NewSource(7)))
	inputs := []search.RawResult{
		{},
		{Title: "<div>no price</div>"},
		{PriceText: "call us"},
		{Content: "Entry 0 USD"},
	}
	for _, kind := range []EntityKind{KindFlight, KindLodging, KindPOI} {
		for _, raw := range inputs {
			rec := n.Normalize("p", kind, raw)
			if rec.Cost() < 0 {
				t.Errorf("%s record has negative price %v for %+v", kind, rec.Cost(), raw)
			}
			if rec.Kind() != kind {
				t.Errorf("Expected kind %s, got %s", kind, rec.Kind())
			}
		}
	}
}

func TestNormalizeLodgingAndPOI(t *testing.T) {
	n := NewNormalizer(rand.New(rand.NewSource(1)))

	rating := 4.8
	l := n.NormalizeLodging("serpapi", search.RawResult{Title: "Le Meurice", PriceText: "$1,150", Rating: &rating, City: "Paris"})
	if l.Name != "Le Meurice" || l.PricePerNight != 1150 || l.Rating == nil || *l.Rating != 4.8 {
		t.Errorf("Unexpected lodging %+v", l)
	}
	if l.Amenities == nil {
		t.Error("Expected non-nil amenities")
	}

	bad := 9.0
	p := n.NormalizePOI("tavily", search.RawResult{Content: "Free entry, <i>amazing</i> views", Rating: &bad})
	if p.Name != UnnamedPOI || p.Category != DefaultPOIType {
		t.Errorf("Expected defaults, got %+v", p)
	}
	if p.Description != "Free entry, amazing views" {
		t.Errorf("Expected cleaned description, got %q", p.Description)
	}
	if p.Rating != nil {
		t.Errorf("Expected out-of-range rating to be dropped, got %v", *p.Rating)
	}
}
