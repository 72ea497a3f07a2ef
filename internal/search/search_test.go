package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var (
	depart   = time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	checkout = time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC)
)

func TestTavilyClient(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search" {
				t.Errorf("Expected path /search, got %s", r.URL.Path)
			}
			if r.Header.Get("Authorization") != "Bearer tavily_key" {
				t.Errorf("Unexpected auth header %q", r.Header.Get("Authorization"))
			}
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			query, _ := body["query"].(string)
			if !strings.HasPrefix(query, "flights from JFK to CDG on 2024-06-02") {
				t.Errorf("Unexpected query %q", query)
			}
			fmt.Fprintln(w, `{"results": [
				{"title": "Air France JFK to CDG", "url": "https://example.com/af", "content": "Fares from $612", "published_date": "2024-05-01"},
				{"title": "Cheap flights to Paris", "url": "https://example.com/cheap", "content": "Deals"}
			]}`)
		}))
		defer server.Close()

		client := NewTavilyClient("tavily_key", server.URL, nil)
		results, err := client.SearchFlights(context.Background(), "JFK", "CDG", depart, nil)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(results))
		}
		if results[0].DepartureAirport != "JFK" || results[0].ArrivalAirport != "CDG" {
			t.Errorf("Expected route to be carried onto results, got %+v", results[0])
		}
		if results[0].Content != "Fares from $612" {
			t.Errorf("Unexpected content %q", results[0].Content)
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewTavilyClient("tavily_key", server.URL, nil)
		if _, err := client.SearchPOI(context.Background(), "Paris", "attractions"); err == nil {
			t.Fatal("Expected an error for non-200 status code, got nil")
		}
	})
}

func TestSerpAPIClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("api_key") != "serp_key" {
			t.Errorf("Expected api_key 'serp_key', got %q", q.Get("api_key"))
		}
		switch q.Get("engine") {
		case "google_flights":
			if q.Get("type") != "1" || q.Get("return_date") != "2024-06-06" {
				t.Errorf("Expected round trip query, got %v", q)
			}
			fmt.Fprintln(w, `{
				"best_flights": [{
					"flights": [
						{"departure_airport": {"id": "JFK", "time": "2024-06-02 18:00"}, "arrival_airport": {"id": "AMS", "time": "2024-06-03 07:30"}, "airline": "KLM", "flight_number": "KL 642"},
						{"departure_airport": {"id": "AMS", "time": "2024-06-03 09:00"}, "arrival_airport": {"id": "CDG", "time": "2024-06-03 10:20"}, "airline": "KLM", "flight_number": "KL 1223"}
					],
					"total_duration": 560,
					"price": 734
				}],
				"other_flights": []
			}`)
		case "google_hotels":
			fmt.Fprintln(w, `{"properties": [
				{"name": "Le Meurice", "rate_per_night": {"lowest": "$1,150", "extracted_lowest": 1150}, "overall_rating": 4.8, "amenities": ["Spa"]},
				{"name": "Hotel des Invalides", "rate_per_night": {"lowest": "$180"}}
			]}`)
		case "google":
			fmt.Fprintln(w, `{"organic_results": [{"title": "Louvre Museum", "link": "https://louvre.fr", "snippet": "World's largest art museum"}]}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	client := NewSerpAPIClient("serp_key", server.URL, NewLimiter(100, 10))
	ctx := context.Background()

	t.Run("Flights", func(t *testing.T) {
		ret := checkout
		results, err := client.SearchFlights(ctx, "JFK", "CDG", depart, &ret)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("Expected 1 result, got %d", len(results))
		}
		r := results[0]
		if r.Airline != "KLM" || r.DepartureAirport != "JFK" || r.ArrivalAirport != "CDG" {
			t.Errorf("Unexpected flight %+v", r)
		}
		if r.Stops == nil || *r.Stops != 1 {
			t.Errorf("Expected 1 stop, got %v", r.Stops)
		}
		if r.Duration != "9h 20m" {
			t.Errorf("Expected duration '9h 20m', got %q", r.Duration)
		}
		if r.Price == nil || *r.Price != 734 {
			t.Errorf("Expected price 734, got %v", r.Price)
		}
	})

	t.Run("Lodging", func(t *testing.T) {
		results, err := client.SearchLodging(ctx, "Paris", depart, checkout, 2)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(results))
		}
		if results[1].Price != nil || results[1].PriceText != "$180" {
			t.Errorf("Expected text-only price for second hotel, got %+v", results[1])
		}
		if results[0].City != "Paris" {
			t.Errorf("Expected city to be set, got %q", results[0].City)
		}
	})

	t.Run("POI", func(t *testing.T) {
		results, err := client.SearchPOI(ctx, "Paris", "attractions")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(results) != 1 || results[0].Title != "Louvre Museum" {
			t.Errorf("Unexpected POI results %+v", results)
		}
	})
}

func TestLimiterHonoursContext(t *testing.T) {
	client := NewSerpAPIClient("k", "http://127.0.0.1:1", NewLimiter(0.001, 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.SearchPOI(ctx, "Paris", "museums"); err == nil {
		t.Fatal("Expected an error for a cancelled context, got nil")
	}
}
