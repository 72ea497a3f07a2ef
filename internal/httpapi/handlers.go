package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-travel-planner/internal/export"
	"ai-travel-planner/internal/metrics"
	"ai-travel-planner/internal/trip"
)

type preferencesRequest struct {
	Interests     []string `json:"interests"`
	TravelStyle   string   `json:"travel_style"`
	ActivityLevel string   `json:"activity_level"`
	Food          []string `json:"food_preferences"`
}

type itineraryRequest struct {
	Destination string             `json:"destination"`
	Origin      string             `json:"origin"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	Budget      float64            `json:"budget"`
	Travelers   int                `json:"travelers"`
	Preferences preferencesRequest `json:"preferences"`
}

type usageResponse struct {
	Agent            string `json:"agent"`
	Model            string `json:"model"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	LatencyMS        int64  `json:"latency_ms"`
	Fallback         bool   `json:"fallback"`
}

type itineraryResponse struct {
	Itinerary export.Document `json:"itinerary"`
	Summary   string          `json:"summary"`
	Usage     []usageResponse `json:"usage"`
	RequestID string          `json:"request_id"`
}

// GET /api/health
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"system": metrics.GetSysHealth(s.started),
	})
}

// POST /api/itineraries
// The optional "format" query parameter selects json (default), ics or pdf.
func (s *Server) CreateItinerary(c *gin.Context) {
	var body itineraryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_payload", "invalid JSON payload: "+err.Error(), "")
		return
	}

	req, err := body.toRequest()
	if err != nil {
		respondPlanError(c, err)
		return
	}

	ctx := c.Request.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.service.GenerateItinerary(ctx, req)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "ics":
		c.Header("Content-Disposition", `attachment; filename="itinerary.ics"`)
		c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(export.Calendar(res.Itinerary)))
	case "pdf":
		b, err := export.PDF(res.Itinerary)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "export_error", "failed to render pdf", "")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="itinerary.pdf"`)
		c.Data(http.StatusOK, "application/pdf", b)
	default:
		usage := make([]usageResponse, 0, len(res.Metas))
		for _, meta := range res.Metas {
			m := metrics.MapUsage(meta)
			usage = append(usage, usageResponse{
				Agent:            m.AgentName,
				Model:            m.Model,
				PromptTokens:     m.PromptTokens,
				CompletionTokens: m.CompletionTokens,
				LatencyMS:        m.LatencyMS,
				Fallback:         m.Fallback,
			})
		}
		c.JSON(http.StatusOK, itineraryResponse{
			Itinerary: export.NewDocument(res.Itinerary),
			Summary:   res.Summary,
			Usage:     usage,
			RequestID: GetRequestID(c),
		})
	}
}

func (r itineraryRequest) toRequest() (trip.Request, error) {
	start, err := trip.ParseDate(r.StartDate)
	if err != nil {
		return trip.Request{}, trip.NewValidation("start_date", "must be a YYYY-MM-DD date")
	}
	end, err := trip.ParseDate(r.EndDate)
	if err != nil {
		return trip.Request{}, trip.NewValidation("end_date", "must be a YYYY-MM-DD date")
	}
	style, err := trip.ParseTravelStyle(r.Preferences.TravelStyle)
	if err != nil {
		return trip.Request{}, err
	}
	level, err := trip.ParseActivityLevel(r.Preferences.ActivityLevel)
	if err != nil {
		return trip.Request{}, err
	}

	return trip.NewRequest(trip.Request{
		Destination: r.Destination,
		Origin:      r.Origin,
		StartDate:   start,
		EndDate:     end,
		Budget:      r.Budget,
		Travelers:   r.Travelers,
		Preferences: trip.Preferences{
			Interests:     r.Preferences.Interests,
			Style:         style,
			ActivityLevel: level,
			Food:          r.Preferences.Food,
		},
	})
}
