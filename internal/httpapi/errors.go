package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-travel-planner/internal/trip"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message, field string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Field:     field,
		RequestID: GetRequestID(c),
	})
}

// respondPlanError maps pipeline errors to HTTP responses.
func respondPlanError(c *gin.Context, err error) {
	var ve *trip.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), ve.Field)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusGatewayTimeout, "timeout", "planning took too long", "")
	case errors.Is(err, context.Canceled):
		respondError(c, 499, "canceled", "request canceled", "")
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "failed to plan itinerary", "")
	}
}
