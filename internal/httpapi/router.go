package httpapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ai-travel-planner/internal/app"
	"ai-travel-planner/internal/trip"
)

// ItineraryService generates itineraries for the API.
type ItineraryService interface {
	GenerateItinerary(ctx context.Context, req trip.Request) (*app.Result, error)
}

// Server serves the itinerary API.
type Server struct {
	service ItineraryService
	timeout time.Duration
	started time.Time
}

// NewServer creates a Server. timeout bounds each planning request; zero disables it.
func NewServer(service ItineraryService, timeout time.Duration) *Server {
	return &Server{service: service, timeout: timeout, started: time.Now()}
}

// NewRouter builds the gin engine with middleware and routes.
func (s *Server) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logger(), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "not_found", "route not found: "+c.Request.Method+" "+c.Request.URL.Path, "")
	})

	api := r.Group("/api")
	{
		api.GET("/health", s.Health)
		api.POST("/itineraries", s.CreateItinerary)
	}
	return r
}
