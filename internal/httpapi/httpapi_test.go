package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"ai-travel-planner/internal/app"
	"ai-travel-planner/internal/candidate"
	"ai-travel-planner/internal/planner"
	"ai-travel-planner/internal/shared"
	"ai-travel-planner/internal/trip"
)

type mockService struct {
	last  trip.Request
	calls int
	err   error
}

func (m *mockService) GenerateItinerary(ctx context.Context, req trip.Request) (*app.Result, error) {
	m.calls++
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	it := planner.Reconcile(planner.FallbackPayload(), req, candidate.Pools{})
	return &app.Result{
		Itinerary: it,
		Summary:   planner.Summarize(it),
		Metas: []shared.AgentMeta{{
			AgentName: planner.AgentName,
			Usage:     shared.TokenUsage{PromptTokens: 10, CompletionTokens: 5, Model: "mock"},
			Latency:   250 * time.Millisecond,
		}},
	}, nil
}

func newTestRouter(svc ItineraryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewServer(svc, time.Second).NewRouter()
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	return rec
}

const validBody = `{
	"destination": "Paris, France",
	"start_date": "2024-06-01",
	"end_date": "2024-06-05",
	"budget": 2000,
	"travelers": 2,
	"preferences": {"interests": ["museums"], "travel_style": "Mid Range", "activity_level": "relaxed"}
}`

func TestCreateItinerary(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &mockService{}
		r := newTestRouter(svc)

		rec := postJSON(r, "/api/itineraries", validBody)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Itinerary struct {
				Destination  string `json:"destination"`
				DurationDays int    `json:"duration_days"`
				Days         []struct {
					Date string `json:"date"`
				} `json:"days"`
			} `json:"itinerary"`
			Summary   string `json:"summary"`
			Usage     []usageResponse
			RequestID string `json:"request_id"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response json: %v", err)
		}
		if resp.Itinerary.DurationDays != 4 || len(resp.Itinerary.Days) != 4 {
			t.Errorf("expected 4 days, got %d/%d", resp.Itinerary.DurationDays, len(resp.Itinerary.Days))
		}
		if resp.Itinerary.Days[3].Date != "2024-06-04" {
			t.Errorf("unexpected last date %q", resp.Itinerary.Days[3].Date)
		}
		if !strings.Contains(resp.Summary, "Budget: $2,000") {
			t.Errorf("unexpected summary %q", resp.Summary)
		}
		if len(resp.Usage) != 1 || resp.Usage[0].LatencyMS != 250 {
			t.Errorf("unexpected usage %+v", resp.Usage)
		}
		if resp.RequestID == "" || rec.Header().Get("X-Request-ID") != resp.RequestID {
			t.Errorf("expected matching request ids, got %q and %q", resp.RequestID, rec.Header().Get("X-Request-ID"))
		}
		if svc.last.Preferences.Style != trip.StyleMidRange || svc.last.Preferences.ActivityLevel != trip.ActivityRelaxed {
			t.Errorf("unexpected preferences %+v", svc.last.Preferences)
		}
	})

	t.Run("ForwardedRequestID", func(t *testing.T) {
		r := newTestRouter(&mockService{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/itineraries", bytes.NewBufferString(validBody))
		req.Header.Set("X-Request-ID", "abc-123")
		r.ServeHTTP(rec, req)
		if rec.Header().Get("X-Request-ID") != "abc-123" {
			t.Errorf("expected forwarded request id, got %q", rec.Header().Get("X-Request-ID"))
		}
	})

	validationCases := map[string]struct {
		body  string
		field string
	}{
		"EndBeforeStart": {`{"destination": "Paris", "start_date": "2024-06-05", "end_date": "2024-06-01", "budget": 100, "travelers": 1}`, "end_date"},
		"BadDate":        {`{"destination": "Paris", "start_date": "June 1", "end_date": "2024-06-05", "budget": 100, "travelers": 1}`, "start_date"},
		"NoDestination":  {`{"start_date": "2024-06-01", "end_date": "2024-06-05", "budget": 100, "travelers": 1}`, "destination"},
		"NoTravelers":    {`{"destination": "Paris", "start_date": "2024-06-01", "end_date": "2024-06-05", "budget": 100}`, "travelers"},
		"UnknownStyle":   {`{"destination": "Paris", "start_date": "2024-06-01", "end_date": "2024-06-05", "budget": 100, "travelers": 1, "preferences": {"travel_style": "yacht"}}`, "style"},
	}
	for name, tc := range validationCases {
		t.Run(name, func(t *testing.T) {
			svc := &mockService{}
			rec := postJSON(newTestRouter(svc), "/api/itineraries", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid error json: %v", err)
			}
			if resp.Code != "validation_error" || resp.Field != tc.field {
				t.Errorf("unexpected error envelope %+v", resp)
			}
			if svc.calls != 0 {
				t.Error("expected no planning for an invalid request")
			}
		})
	}

	t.Run("MalformedJSON", func(t *testing.T) {
		rec := postJSON(newTestRouter(&mockService{}), "/api/itineraries", `{"destination":`)
		if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "invalid_payload") {
			t.Errorf("expected invalid_payload 400, got %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		rec := postJSON(newTestRouter(&mockService{err: context.DeadlineExceeded}), "/api/itineraries", validBody)
		if rec.Code != http.StatusGatewayTimeout {
			t.Errorf("expected 504, got %d", rec.Code)
		}
	})

	t.Run("InternalError", func(t *testing.T) {
		rec := postJSON(newTestRouter(&mockService{err: errors.New("boom")}), "/api/itineraries", validBody)
		if rec.Code != http.StatusInternalServerError || strings.Contains(rec.Body.String(), "boom") {
			t.Errorf("expected opaque 500, got %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("CalendarFormat", func(t *testing.T) {
		rec := postJSON(newTestRouter(&mockService{}), "/api/itineraries?format=ics", validBody)
		if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar") {
			t.Fatalf("unexpected response %d %s", rec.Code, rec.Header().Get("Content-Type"))
		}
		if !strings.Contains(rec.Body.String(), "BEGIN:VCALENDAR") {
			t.Error("expected an iCalendar body")
		}
	})

	t.Run("PDFFormat", func(t *testing.T) {
		rec := postJSON(newTestRouter(&mockService{}), "/api/itineraries?format=pdf", validBody)
		if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
			t.Fatalf("unexpected response %d %s", rec.Code, rec.Header().Get("Content-Type"))
		}
		if !strings.HasPrefix(rec.Body.String(), "%PDF-") {
			t.Error("expected a PDF body")
		}
	})
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&mockService{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Status string `json:"status"`
		System struct {
			Goroutines int `json:"goroutines"`
		} `json:"system"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "ok" || resp.System.Goroutines < 1 {
		t.Errorf("unexpected health response %+v", resp)
	}
}

func TestNoRoute(t *testing.T) {
	r := newTestRouter(&mockService{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/missing", nil))
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "not_found") {
		t.Errorf("expected not_found 404, got %d %s", rec.Code, rec.Body.String())
	}
}
