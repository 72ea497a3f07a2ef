package search

import (
	"context"
	"time"
)

// RawResult is one unnormalized hit from a search provider.
// Providers fill whatever they know; every field is optional.
type RawResult struct {
	Title         string
	Content       string
	URL           string
	PublishedDate string

	// Flight fields
	Airline          string
	FlightNumber     string
	DepartureAirport string
	ArrivalAirport   string
	DepartureTime    string
	ArrivalTime      string
	Duration         string
	Stops            *int

	// Lodging and POI fields
	City      string
	Address   string
	Category  string
	Amenities []string
	Rating    *float64

	// Price is set when the provider returns a structured number.
	// PriceText carries a formatted price such as "$120" otherwise.
	Price     *float64
	PriceText string
}

// Provider is a search backend that can look up the three candidate kinds.
// Implementations return an error for any transport or decoding failure;
// callers treat that as an empty result.
type Provider interface {
	Name() string
	SearchFlights(ctx context.Context, origin, destination string, depart time.Time, ret *time.Time) ([]RawResult, error)
	SearchLodging(ctx context.Context, city string, checkIn, checkOut time.Time, guests int) ([]RawResult, error)
	SearchPOI(ctx context.Context, city, category string) ([]RawResult, error)
}

const dateLayout = "2006-01-02"

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
