package api

import (
	"net/http"
	"strconv"

	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment submission and moderation endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// CreateComment handles POST /v1/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	comment, err := h.services.Comment.Submit(c.Request.Context(), &req)
	if err != nil {
		h.log.Warn().Err(err).Msg("Comment submission failed")
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListComments handles GET /v1/comments?status=&page=&limit=
func (h *CommentHandler) ListComments(c *gin.Context) {
	page, ok := queryInt(c, "page")
	if !ok {
		badRequest(c, "page must be an integer")
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		badRequest(c, "limit must be an integer")
		return
	}

	result, err := h.services.Comment.List(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetComment handles GET /v1/comments/:id
func (h *CommentHandler) GetComment(c *gin.Context) {
	comment, err := h.services.Comment.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// ModerateComment handles PUT and PATCH /v1/comments/:id
func (h *CommentHandler) ModerateComment(c *gin.Context) {
	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	comment, err := h.services.Comment.Moderate(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.log.Warn().Err(err).Str("comment_id", c.Param("id")).Msg("Moderation failed")
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// DeleteComment handles DELETE /v1/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	if err := h.services.Comment.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "deleted"})
}

// queryInt reads an optional integer query parameter. Absent means zero,
// which the service replaces with its default.
func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
