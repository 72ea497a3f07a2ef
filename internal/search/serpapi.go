package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// SerpAPIName identifies results produced by the SerpAPI client.
const SerpAPIName = "serpapi"

// serpAPIClient queries SerpAPI's Google Flights, Google Hotels and Google Search engines.
type serpAPIClient struct {
	apiKey  string
	baseURL string
	http    httpDoer
}

// NewSerpAPIClient creates a SerpAPI search provider.
func NewSerpAPIClient(apiKey, baseURL string, limiter *rate.Limiter) Provider {
	return &serpAPIClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPDoer(SerpAPIName, limiter),
	}
}

func (c *serpAPIClient) Name() string { return SerpAPIName }

type serpAirport struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Time string `json:"time"`
}

type serpFlightOption struct {
	Flights []struct {
		DepartureAirport serpAirport `json:"departure_airport"`
		ArrivalAirport   serpAirport `json:"arrival_airport"`
		Airline          string      `json:"airline"`
		FlightNumber     string      `json:"flight_number"`
	} `json:"flights"`
	TotalDuration int     `json:"total_duration"`
	Price         float64 `json:"price"`
}

type serpFlightsResponse struct {
	BestFlights  []serpFlightOption `json:"best_flights"`
	OtherFlights []serpFlightOption `json:"other_flights"`
}

type serpHotelsResponse struct {
	Properties []struct {
		Name         string   `json:"name"`
		Description  string   `json:"description"`
		Link         string   `json:"link"`
		Address      string   `json:"address"`
		OverallRate  *float64 `json:"overall_rating"`
		Amenities    []string `json:"amenities"`
		RatePerNight struct {
			Lowest          string   `json:"lowest"`
			ExtractedLowest *float64 `json:"extracted_lowest"`
		} `json:"rate_per_night"`
	} `json:"properties"`
}

type serpOrganicResponse struct {
	OrganicResults []struct {
		Title   string   `json:"title"`
		Link    string   `json:"link"`
		Snippet string   `json:"snippet"`
		Rating  *float64 `json:"rating"`
	} `json:"organic_results"`
}

func (c *serpAPIClient) SearchFlights(ctx context.Context, origin, destination string, depart time.Time, ret *time.Time) ([]RawResult, error) {
	params := url.Values{}
	params.Set("engine", "google_flights")
	params.Set("departure_id", origin)
	params.Set("arrival_id", destination)
	params.Set("outbound_date", depart.Format(dateLayout))
	params.Set("currency", "USD")
	if ret != nil {
		params.Set("type", "1")
		params.Set("return_date", ret.Format(dateLayout))
	} else {
		params.Set("type", "2")
	}

	var resp serpFlightsResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	options := append(resp.BestFlights, resp.OtherFlights...)
	results := make([]RawResult, 0, len(options))
	for _, opt := range options {
		if len(opt.Flights) == 0 {
			continue
		}
		first, last := opt.Flights[0], opt.Flights[len(opt.Flights)-1]
		r := RawResult{
			Title:            fmt.Sprintf("%s %s", first.Airline, first.FlightNumber),
			Airline:          first.Airline,
			FlightNumber:     first.FlightNumber,
			DepartureAirport: first.DepartureAirport.ID,
			ArrivalAirport:   last.ArrivalAirport.ID,
			DepartureTime:    first.DepartureAirport.Time,
			ArrivalTime:      last.ArrivalAirport.Time,
			Stops:            intPtr(len(opt.Flights) - 1),
		}
		if opt.TotalDuration > 0 {
			r.Duration = formatMinutes(opt.TotalDuration)
		}
		if opt.Price > 0 {
			r.Price = floatPtr(opt.Price)
		}
		results = append(results, r)
	}
	return results, nil
}

func (c *serpAPIClient) SearchLodging(ctx context.Context, city string, checkIn, checkOut time.Time, guests int) ([]RawResult, error) {
	params := url.Values{}
	params.Set("engine", "google_hotels")
	params.Set("q", "hotels in "+city)
	params.Set("check_in_date", checkIn.Format(dateLayout))
	params.Set("check_out_date", checkOut.Format(dateLayout))
	params.Set("adults", strconv.Itoa(guests))
	params.Set("currency", "USD")

	var resp serpHotelsResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	results := make([]RawResult, 0, len(resp.Properties))
	for _, p := range resp.Properties {
		results = append(results, RawResult{
			Title:     p.Name,
			Content:   p.Description,
			URL:       p.Link,
			City:      city,
			Address:   p.Address,
			Amenities: p.Amenities,
			Rating:    p.OverallRate,
			Price:     p.RatePerNight.ExtractedLowest,
			PriceText: p.RatePerNight.Lowest,
		})
	}
	return results, nil
}

func (c *serpAPIClient) SearchPOI(ctx context.Context, city, category string) ([]RawResult, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", fmt.Sprintf("%s in %s tourist attractions", category, city))
	params.Set("num", "15")

	var resp serpOrganicResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	results := make([]RawResult, 0, len(resp.OrganicResults))
	for _, o := range resp.OrganicResults {
		results = append(results, RawResult{
			Title:    o.Title,
			Content:  o.Snippet,
			URL:      o.Link,
			City:     city,
			Category: category,
			Rating:   o.Rating,
		})
	}
	return results, nil
}

func (c *serpAPIClient) get(ctx context.Context, params url.Values, out interface{}) error {
	params.Set("api_key", c.apiKey)
	endpoint := c.baseURL + "/search.json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	body, err := c.http.do(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode serpapi response: %w", err)
	}
	return nil
}

func formatMinutes(total int) string {
	h, m := total/60, total%60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}
