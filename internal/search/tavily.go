package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// TavilyName identifies results produced by the Tavily client.
const TavilyName = "tavily"

// tavilyClient queries the Tavily web search API with free-text queries.
type tavilyClient struct {
	apiKey  string
	baseURL string
	http    httpDoer
}

// NewTavilyClient creates a Tavily search provider.
func NewTavilyClient(apiKey, baseURL string, limiter *rate.Limiter) Provider {
	return &tavilyClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPDoer(TavilyName, limiter),
	}
}

func (c *tavilyClient) Name() string { return TavilyName }

type tavilyResponse struct {
	Results []struct {
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		Content       string  `json:"content"`
		Score         float64 `json:"score"`
		PublishedDate string  `json:"published_date"`
	} `json:"results"`
}

func (c *tavilyClient) SearchFlights(ctx context.Context, origin, destination string, depart time.Time, ret *time.Time) ([]RawResult, error) {
	query := fmt.Sprintf("flights from %s to %s on %s", origin, destination, depart.Format(dateLayout))
	if ret != nil {
		query += " return " + ret.Format(dateLayout)
	}

	results, err := c.search(ctx, query, 10)
	if err != nil {
		return nil, err
	}
	// The query fixed the route, so every hit inherits it.
	for i := range results {
		results[i].DepartureAirport = origin
		results[i].ArrivalAirport = destination
		results[i].DepartureTime = depart.Format(dateLayout)
	}
	return results, nil
}

func (c *tavilyClient) SearchLodging(ctx context.Context, city string, checkIn, checkOut time.Time, guests int) ([]RawResult, error) {
	query := fmt.Sprintf("hotels in %s check in %s check out %s %d guests",
		city, checkIn.Format(dateLayout), checkOut.Format(dateLayout), guests)

	results, err := c.search(ctx, query, 10)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].City = city
	}
	return results, nil
}

func (c *tavilyClient) SearchPOI(ctx context.Context, city, category string) ([]RawResult, error) {
	query := fmt.Sprintf("%s in %s tourist attractions things to do", category, city)

	results, err := c.search(ctx, query, 15)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].City = city
		results[i].Category = category
	}
	return results, nil
}

func (c *tavilyClient) search(ctx context.Context, query string, maxResults int) ([]RawResult, error) {
	reqBody := map[string]interface{}{
		"query":        query,
		"search_depth": "advanced",
		"max_results":  maxResults,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	body, err := c.http.do(ctx, req)
	if err != nil {
		return nil, err
	}

	var resp tavilyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode tavily response: %w", err)
	}

	results := make([]RawResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, RawResult{
			Title:         r.Title,
			Content:       r.Content,
			URL:           r.URL,
			PublishedDate: r.PublishedDate,
		})
	}
	return results, nil
}
