package api

import (
	"errors"
	"net/http"

	"github.com/comment-moderation-api/internal/classifier"
	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/service"
	"github.com/comment-moderation-api/internal/validation"
	"github.com/gin-gonic/gin"
)

// errorResponse is the body of every failed request
type errorResponse struct {
	Error   string                       `json:"error"`
	Details []validation.ValidationError `json:"details,omitempty"`
}

// writeError maps a service error to its HTTP status and writes the body
func writeError(c *gin.Context, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "validation failed", Details: verr.Errors})
	case errors.Is(err, service.ErrInvalidID):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid comment id"})
	case errors.Is(err, models.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid status, must be one of: approved, rejected"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "comment not found"})
	case errors.Is(err, classifier.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "classification service unavailable"})
	case errors.Is(err, classifier.ErrInvalidResponse):
		c.JSON(http.StatusBadGateway, errorResponse{Error: "classification service returned an invalid response"})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// badRequest writes a 400 for malformed request syntax
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: message})
}
