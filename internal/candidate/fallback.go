package candidate

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"ai-travel-planner/internal/trip"
)

// FallbackFlightCount and FallbackLodgingCount are the sizes of the synthesized pools.
const (
	FallbackFlightCount  = 3
	FallbackLodgingCount = 3
)

type fallbackCarrier struct {
	name      string
	code      string
	priceMult float64
	stops     int
}

var fallbackCarriers = [FallbackFlightCount]fallbackCarrier{
	{"Air France", "AF", 1.0, 0},
	{"Delta Air Lines", "DL", 1.1, 0},
	{"Lufthansa", "LH", 0.85, 1},
}

var fallbackDepartureHours = [FallbackFlightCount]int{8, 13, 18}

// FallbackFlights synthesizes plausible flight options on the trip's start date.
// Carriers are distinct and arrival always equals departure plus duration.
func FallbackFlights(req trip.Request, rng RandSource) []Flight {
	base := 400 + rng.Float64()*500
	baseMinutes := 180 + rng.Intn(360)

	flights := make([]Flight, 0, FallbackFlightCount)
	for i, c := range fallbackCarriers {
		dep := req.StartDate.Add(time.Duration(fallbackDepartureHours[i]) * time.Hour)
		minutes := baseMinutes + c.stops*90
		arr := dep.Add(time.Duration(minutes) * time.Minute)

		flights = append(flights, Flight{
			Airline:          c.name,
			FlightNumber:     fmt.Sprintf("%s%d", c.code, 100+rng.Intn(900)),
			DepartureAirport: airportCode(req.Origin),
			ArrivalAirport:   airportCode(req.Destination),
			DepartureTime:    dep.Format("2006-01-02 15:04"),
			ArrivalTime:      arr.Format("2006-01-02 15:04"),
			Duration:         formatDuration(minutes),
			Price:            math.Round(base*c.priceMult/5) * 5,
			Currency:         DefaultCurrency,
			Stops:            c.stops,
			Source:           FallbackProvider,
		})
	}
	return flights
}

type fallbackTier struct {
	suffix    string
	min, max  float64
	rating    float64
	amenities []string
}

var fallbackTiers = [FallbackLodgingCount]fallbackTier{
	{"Central Hotel", 150, 260, 4.3, []string{"WiFi", "Breakfast", "Air conditioning"}},
	{"Boutique Inn", 110, 180, 4.1, []string{"WiFi", "Bar"}},
	{"City Hostel", 40, 80, 3.8, []string{"WiFi", "Shared kitchen"}},
}

// FallbackLodging synthesizes a small tiered set of lodgings in the destination city.
func FallbackLodging(req trip.Request, rng RandSource) []Lodging {
	city := req.City()
	lodging := make([]Lodging, 0, FallbackLodgingCount)
	for _, t := range fallbackTiers {
		rating := t.rating
		lodging = append(lodging, Lodging{
			Name:          fmt.Sprintf("%s %s", city, t.suffix),
			Address:       city + " city centre",
			City:          city,
			PricePerNight: roundCents(t.min + rng.Float64()*(t.max-t.min)),
			Currency:      DefaultCurrency,
			Rating:        &rating,
			Amenities:     append([]string(nil), t.amenities...),
			Source:        FallbackProvider,
		})
	}
	return lodging
}

// airportCode derives a three-letter placeholder code from a place name.
func airportCode(place string) string {
	city, _, _ := strings.Cut(place, ",")
	code := make([]rune, 0, 3)
	for _, r := range city {
		if unicode.IsLetter(r) {
			code = append(code, unicode.ToUpper(r))
		}
		if len(code) == 3 {
			break
		}
	}
	if len(code) == 0 {
		return UnknownAirport
	}
	return string(code)
}

func formatDuration(minutes int) string {
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
